package directory

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/internal/repository"
	"github.com/neuroscan/clinic-api/pkg/errors"
	"github.com/neuroscan/clinic-api/pkg/security"
)

// Service is the user directory: identities, role profiles, doctor
// approval and slot configuration.
type Service struct {
	repo   repository.UserRepository
	outbox repository.OutboxRepository
	hasher security.PasswordHasher
}

func NewService(repo repository.UserRepository, outbox repository.OutboxRepository, hasher security.PasswordHasher) *Service {
	return &Service{
		repo:   repo,
		outbox: outbox,
		hasher: hasher,
	}
}

func (s *Service) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if stderrors.Is(err, security.ErrPasswordTooShort) {
			return nil, errors.Validation("password", "password must be at least 8 characters")
		}
		return nil, errors.Internal(err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         req.Role,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	switch req.Role {
	case model.RoleDoctor:
		slots := normalizeSlots(req.AvailableTimeSlots)
		if len(slots) == 0 {
			slots = defaultTimeSlots()
		}
		user.Doctor = &model.DoctorProfile{
			Specialization:     req.Specialization,
			LicenseNumber:      req.LicenseNumber,
			ExperienceYears:    req.ExperienceYears,
			AvailableTimeSlots: slots,
			ApprovedByAdmin:    false,
		}
	case model.RolePatient:
		user.Patient = &model.PatientProfile{
			DateOfBirth:      req.DateOfBirth,
			Gender:           req.Gender,
			MedicalHistory:   req.MedicalHistory,
			EmergencyContact: req.EmergencyContact,
		}
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func validateCreate(req *model.CreateUserRequest) error {
	if !req.Role.Valid() {
		return errors.Validation("role", "role must be admin, doctor or patient")
	}
	if strings.TrimSpace(req.Email) == "" {
		return errors.Validation("email", "email is required")
	}
	if req.FirstName == "" {
		return errors.Validation("first_name", "first_name is required")
	}
	if req.LastName == "" {
		return errors.Validation("last_name", "last_name is required")
	}
	if req.Role == model.RoleDoctor {
		if req.Specialization == "" {
			return errors.Validation("specialization", "specialization is required")
		}
		if req.LicenseNumber == "" {
			return errors.Validation("license_number", "license_number is required")
		}
	}
	return nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// VerifyCredential checks a plaintext password against a stored hash.
// bcrypt comparison is slow on purpose; no shared state is held here.
func (s *Service) VerifyCredential(plain, storedHash string) bool {
	return security.Verify(s.hasher, storedHash, plain)
}

// ApproveDoctor is idempotent; a second approval leaves state unchanged.
func (s *Service) ApproveDoctor(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != model.RoleDoctor {
		return errors.NotFound("doctor")
	}

	alreadyApproved := user.Doctor != nil && user.Doctor.ApprovedByAdmin

	if err := s.repo.ApproveDoctor(ctx, id); err != nil {
		return err
	}

	if !alreadyApproved {
		if err := s.outbox.CreateEvent(ctx, model.EventDoctorApproved, map[string]interface{}{
			"doctor_id": id,
			"email":     user.Email,
		}); err != nil {
			return err
		}
	}
	return nil
}

// SetDoctorSlots replaces the full slot set; callers resend everything.
func (s *Service) SetDoctorSlots(ctx context.Context, id uuid.UUID, slots []string) error {
	normalized := normalizeSlots(slots)
	for _, slot := range slots {
		if strings.TrimSpace(slot) == "" {
			return errors.Validation("time_slots", "time slots must be non-empty labels")
		}
	}
	return s.repo.SetDoctorSlots(ctx, id, normalized)
}

func (s *Service) ListByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	if !role.Valid() {
		return nil, errors.Validation("role", "unknown role")
	}
	return s.repo.ListByRole(ctx, role)
}

// ListApprovedDoctors is the public bookable-doctor listing.
func (s *Service) ListApprovedDoctors(ctx context.Context) ([]model.DoctorSummary, error) {
	doctors, err := s.repo.ListApprovedDoctors(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.DoctorSummary, 0, len(doctors))
	for _, doc := range doctors {
		if doc.Doctor == nil {
			continue
		}
		summaries = append(summaries, model.DoctorSummary{
			ID:                 doc.ID,
			FirstName:          doc.FirstName,
			LastName:           doc.LastName,
			Specialization:     doc.Doctor.Specialization,
			ExperienceYears:    doc.Doctor.ExperienceYears,
			AvailableTimeSlots: doc.Doctor.AvailableTimeSlots,
		})
	}
	return summaries, nil
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

// defaultTimeSlots is the working-day template a doctor starts with until
// they configure their own.
func defaultTimeSlots() []string {
	return []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"}
}

// normalizeSlots trims labels and drops duplicates while preserving order.
func normalizeSlots(slots []string) []string {
	seen := make(map[string]struct{}, len(slots))
	out := make([]string, 0, len(slots))
	for _, slot := range slots {
		slot = strings.TrimSpace(slot)
		if slot == "" {
			continue
		}
		if _, ok := seen[slot]; ok {
			continue
		}
		seen[slot] = struct{}{}
		out = append(out, slot)
	}
	return out
}
