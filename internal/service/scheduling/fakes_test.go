package scheduling

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/pkg/errors"
)

// memAppointmentRepo mirrors the storage invariants the real repository
// enforces in SQL: the conditional insert over non-terminal rows and the
// compare-and-swap status update, both under a single lock.
type memAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*model.Appointment
}

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *memAppointmentRepo) Insert(_ context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.appointments {
		if existing.DoctorID == apt.DoctorID &&
			existing.AppointmentDate.Equal(apt.AppointmentDate) &&
			existing.TimeSlot == apt.TimeSlot &&
			!existing.Status.Terminal() {
			return errors.SlotUnavailable(apt.TimeSlot)
		}
	}
	clone := *apt
	r.appointments[apt.ID] = &clone
	return nil
}

func (r *memAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt, ok := r.appointments[id]
	if !ok {
		return nil, errors.NotFound("appointment")
	}
	clone := *apt
	return &clone, nil
}

func (r *memAppointmentRepo) GetDetail(ctx context.Context, id uuid.UUID) (*model.AppointmentDetail, error) {
	apt, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.AppointmentDetail{Appointment: *apt}, nil
}

func (r *memAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.AppointmentStatus, notes, doctorNotes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt, ok := r.appointments[id]
	if !ok || apt.Status != from {
		return errors.InvalidTransition(string(from), string(to))
	}
	apt.Status = to
	if notes != "" {
		apt.Notes = notes
	}
	if doctorNotes != "" {
		apt.DoctorNotes = doctorNotes
	}
	apt.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memAppointmentRepo) ListForPatient(_ context.Context, patientID uuid.UUID) ([]*model.AppointmentDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.AppointmentDetail
	for _, apt := range r.appointments {
		if apt.PatientID == patientID {
			out = append(out, &model.AppointmentDetail{Appointment: *apt})
		}
	}
	return out, nil
}

func (r *memAppointmentRepo) ListForDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.AppointmentDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.AppointmentDetail
	for _, apt := range r.appointments {
		if apt.DoctorID == doctorID {
			out = append(out, &model.AppointmentDetail{Appointment: *apt})
		}
	}
	return out, nil
}

func (r *memAppointmentRepo) ListPending(_ context.Context) ([]*model.AppointmentDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.AppointmentDetail
	for _, apt := range r.appointments {
		if apt.Status == model.AppointmentStatusPending {
			out = append(out, &model.AppointmentDetail{Appointment: *apt})
		}
	}
	return out, nil
}

func (r *memAppointmentRepo) ListAll(_ context.Context) ([]*model.AppointmentDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.AppointmentDetail
	for _, apt := range r.appointments {
		out = append(out, &model.AppointmentDetail{Appointment: *apt})
	}
	return out, nil
}

func (r *memAppointmentRepo) BookedSlots(_ context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var slots []string
	for _, apt := range r.appointments {
		if apt.DoctorID == doctorID && apt.AppointmentDate.Equal(date) && !apt.Status.Terminal() {
			slots = append(slots, apt.TimeSlot)
		}
	}
	return slots, nil
}

func (r *memAppointmentRepo) ScheduleForDate(_ context.Context, doctorID uuid.UUID, date time.Time) ([]*model.AppointmentDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.AppointmentDetail
	for _, apt := range r.appointments {
		if apt.DoctorID == doctorID && apt.AppointmentDate.Equal(date) && !apt.Status.Terminal() {
			out = append(out, &model.AppointmentDetail{Appointment: *apt})
		}
	}
	return out, nil
}

func (r *memAppointmentRepo) CountAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.appointments), nil
}

func (r *memAppointmentRepo) CountByStatus(_ context.Context, status model.AppointmentStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, apt := range r.appointments {
		if apt.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *memAppointmentRepo) StatusCountsForDoctor(_ context.Context, doctorID uuid.UUID) (map[model.AppointmentStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[model.AppointmentStatus]int)
	for _, apt := range r.appointments {
		if apt.DoctorID == doctorID {
			counts[apt.Status]++
		}
	}
	return counts, nil
}

func (r *memAppointmentRepo) StatusCountsForPatient(_ context.Context, patientID uuid.UUID) (map[model.AppointmentStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[model.AppointmentStatus]int)
	for _, apt := range r.appointments {
		if apt.PatientID == patientID {
			counts[apt.Status]++
		}
	}
	return counts, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newMemUserRepo(users ...*model.User) *memUserRepo {
	r := &memUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("user")
	}
	return user, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.NotFound("user")
}

func (r *memUserRepo) ApproveDoctor(_ context.Context, id uuid.UUID) error { return nil }

func (r *memUserRepo) SetDoctorSlots(_ context.Context, id uuid.UUID, slots []string) error {
	return nil
}

func (r *memUserRepo) ListByRole(_ context.Context, role model.Role) ([]*model.User, error) {
	return nil, nil
}

func (r *memUserRepo) ListApprovedDoctors(_ context.Context) ([]*model.User, error) {
	return nil, nil
}

func (r *memUserRepo) Deactivate(_ context.Context, id uuid.UUID) error { return nil }

func (r *memUserRepo) CountByRole(_ context.Context, role model.Role) (int, error) { return 0, nil }

type recordedEvent struct {
	eventType string
	payload   interface{}
}

type memOutbox struct {
	mu     sync.Mutex
	events []recordedEvent
	fail   error
}

func (o *memOutbox) CreateEvent(_ context.Context, eventType string, payload interface{}) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail != nil {
		return o.fail
	}
	o.events = append(o.events, recordedEvent{eventType: eventType, payload: payload})
	return nil
}

func (o *memOutbox) GetPendingEvents(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (o *memOutbox) MarkProcessed(_ context.Context, id uuid.UUID) error { return nil }

func (o *memOutbox) MarkFailed(_ context.Context, id uuid.UUID, errMsg string) error { return nil }

func (o *memOutbox) types() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.events))
	for _, e := range o.events {
		out = append(out, e.eventType)
	}
	return out
}

func testDoctor(slots ...string) *model.User {
	if slots == nil {
		slots = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"}
	}
	return &model.User{
		ID:        uuid.New(),
		Email:     "doctor@clinic.test",
		Role:      model.RoleDoctor,
		FirstName: "Asha",
		LastName:  "Rao",
		IsActive:  true,
		Doctor: &model.DoctorProfile{
			Specialization:     "Neurology",
			LicenseNumber:      "NEU-1001",
			AvailableTimeSlots: pq.StringArray(slots),
			ApprovedByAdmin:    true,
		},
	}
}
