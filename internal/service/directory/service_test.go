package directory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/pkg/errors"
	"github.com/neuroscan/clinic-api/pkg/security"
)

type memUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return errors.DuplicateEmail(user.Email)
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, errors.NotFound("user")
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.NotFound("user")
}

func (r *memUserRepo) ApproveDoctor(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok || u.Role != model.RoleDoctor {
		return errors.NotFound("doctor")
	}
	u.Doctor.ApprovedByAdmin = true
	return nil
}

func (r *memUserRepo) SetDoctorSlots(_ context.Context, id uuid.UUID, slots []string) error {
	u, ok := r.users[id]
	if !ok || u.Role != model.RoleDoctor {
		return errors.NotFound("doctor")
	}
	u.Doctor.AvailableTimeSlots = slots
	return nil
}

func (r *memUserRepo) ListByRole(_ context.Context, role model.Role) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUserRepo) ListApprovedDoctors(_ context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.users {
		if u.Role == model.RoleDoctor && u.IsActive && u.Doctor != nil && u.Doctor.ApprovedByAdmin {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.IsActive = false
		return nil
	}
	return errors.NotFound("user")
}

func (r *memUserRepo) CountByRole(_ context.Context, role model.Role) (int, error) {
	n := 0
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type memOutbox struct {
	events []string
}

func (o *memOutbox) CreateEvent(_ context.Context, eventType string, _ interface{}) error {
	o.events = append(o.events, eventType)
	return nil
}

func (o *memOutbox) GetPendingEvents(context.Context, int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (o *memOutbox) MarkProcessed(context.Context, uuid.UUID) error      { return nil }
func (o *memOutbox) MarkFailed(context.Context, uuid.UUID, string) error { return nil }

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", security.ErrHashingFailed }
func (failingHasher) Compare(_, _ string) error   { return security.ErrHashingFailed }

func newTestService() (*Service, *memUserRepo, *memOutbox) {
	repo := newMemUserRepo()
	outbox := &memOutbox{}
	return NewService(repo, outbox, security.NewBcryptHasher(bcrypt.MinCost)), repo, outbox
}

func doctorRequest() *model.CreateUserRequest {
	return &model.CreateUserRequest{
		Email:          "Rao@Clinic.Test",
		Password:       "s3cret-pass",
		Role:           model.RoleDoctor,
		FirstName:      "Asha",
		LastName:       "Rao",
		Specialization: "Neurology",
		LicenseNumber:  "NEU-1001",
	}
}

func TestCreateUser(t *testing.T) {
	t.Run("doctor starts unapproved with default slots", func(t *testing.T) {
		svc, _, _ := newTestService()

		user, err := svc.CreateUser(context.Background(), doctorRequest())
		require.NoError(t, err)

		assert.Equal(t, "rao@clinic.test", user.Email)
		assert.True(t, user.IsActive)
		require.NotNil(t, user.Doctor)
		assert.False(t, user.Doctor.ApprovedByAdmin)
		assert.Equal(t, []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"}, []string(user.Doctor.AvailableTimeSlots))
		assert.False(t, user.Bookable())
	})

	t.Run("explicit slots are kept, deduplicated", func(t *testing.T) {
		svc, _, _ := newTestService()

		req := doctorRequest()
		req.AvailableTimeSlots = []string{"08:00", " 08:00 ", "12:00"}
		user, err := svc.CreateUser(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, []string{"08:00", "12:00"}, []string(user.Doctor.AvailableTimeSlots))
	})

	t.Run("doctor requires license and specialization", func(t *testing.T) {
		svc, _, _ := newTestService()

		req := doctorRequest()
		req.LicenseNumber = ""
		_, err := svc.CreateUser(context.Background(), req)
		assert.Equal(t, errors.ErrValidation, errors.Code(err))
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.CreateUser(context.Background(), doctorRequest())
		require.NoError(t, err)
		_, err = svc.CreateUser(context.Background(), doctorRequest())
		assert.Equal(t, errors.ErrDuplicateEmail, errors.Code(err))
	})

	t.Run("short password", func(t *testing.T) {
		svc, _, _ := newTestService()

		req := doctorRequest()
		req.Password = "short"
		_, err := svc.CreateUser(context.Background(), req)
		assert.Equal(t, errors.ErrValidation, errors.Code(err))
	})

	t.Run("hasher failure is not a length complaint", func(t *testing.T) {
		svc := NewService(newMemUserRepo(), &memOutbox{}, failingHasher{})

		_, err := svc.CreateUser(context.Background(), doctorRequest())
		assert.Equal(t, errors.ErrInternal, errors.Code(err))
	})

	t.Run("patient gets patient profile", func(t *testing.T) {
		svc, _, _ := newTestService()

		user, err := svc.CreateUser(context.Background(), &model.CreateUserRequest{
			Email:     "maya@clinic.test",
			Password:  "s3cret-pass",
			Role:      model.RolePatient,
			FirstName: "Maya",
			LastName:  "Iyer",
		})
		require.NoError(t, err)
		assert.NotNil(t, user.Patient)
		assert.Nil(t, user.Doctor)
	})
}

func TestApproveDoctor(t *testing.T) {
	svc, _, outbox := newTestService()

	user, err := svc.CreateUser(context.Background(), doctorRequest())
	require.NoError(t, err)

	require.NoError(t, svc.ApproveDoctor(context.Background(), user.ID))
	assert.Equal(t, []string{model.EventDoctorApproved}, outbox.events)

	approved, err := svc.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, approved.Doctor.ApprovedByAdmin)
	assert.True(t, approved.Bookable())

	// Approving twice is a no-op and emits no second event.
	require.NoError(t, svc.ApproveDoctor(context.Background(), user.ID))
	assert.Len(t, outbox.events, 1)
}

func TestApproveDoctorRejectsNonDoctor(t *testing.T) {
	svc, _, _ := newTestService()

	user, err := svc.CreateUser(context.Background(), &model.CreateUserRequest{
		Email:     "maya@clinic.test",
		Password:  "s3cret-pass",
		Role:      model.RolePatient,
		FirstName: "Maya",
		LastName:  "Iyer",
	})
	require.NoError(t, err)

	err = svc.ApproveDoctor(context.Background(), user.ID)
	assert.Equal(t, errors.ErrNotFound, errors.Code(err))
}

func TestSetDoctorSlots(t *testing.T) {
	svc, repo, _ := newTestService()

	user, err := svc.CreateUser(context.Background(), doctorRequest())
	require.NoError(t, err)

	require.NoError(t, svc.SetDoctorSlots(context.Background(), user.ID, []string{"10:30", "11:30", "10:30"}))
	stored := repo.users[user.ID]
	assert.Equal(t, []string{"10:30", "11:30"}, []string(stored.Doctor.AvailableTimeSlots))

	err = svc.SetDoctorSlots(context.Background(), user.ID, []string{"  ", ""})
	assert.Equal(t, errors.ErrValidation, errors.Code(err))
}

func TestListApprovedDoctors(t *testing.T) {
	svc, _, _ := newTestService()

	approved, err := svc.CreateUser(context.Background(), doctorRequest())
	require.NoError(t, err)
	require.NoError(t, svc.ApproveDoctor(context.Background(), approved.ID))

	pending := doctorRequest()
	pending.Email = "pending@clinic.test"
	_, err = svc.CreateUser(context.Background(), pending)
	require.NoError(t, err)

	list, err := svc.ListApprovedDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, approved.ID, list[0].ID)
}
