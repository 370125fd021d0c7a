package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/neuroscan/clinic-api/internal/model"
)

type (
	// UserRepository is the durable directory of identities and role profiles.
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		ApproveDoctor(ctx context.Context, id uuid.UUID) error
		SetDoctorSlots(ctx context.Context, id uuid.UUID, slots []string) error
		ListByRole(ctx context.Context, role model.Role) ([]*model.User, error)
		ListApprovedDoctors(ctx context.Context) ([]*model.User, error)
		Deactivate(ctx context.Context, id uuid.UUID) error
		CountByRole(ctx context.Context, role model.Role) (int, error)
	}

	// AppointmentRepository owns appointment records. Insert enforces the
	// one-active-booking-per-slot invariant atomically; UpdateStatus is a
	// compare-and-swap on the current status.
	AppointmentRepository interface {
		Insert(ctx context.Context, apt *model.Appointment) error
		GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		GetDetail(ctx context.Context, id uuid.UUID) (*model.AppointmentDetail, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus, notes, doctorNotes string) error
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentDetail, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentDetail, error)
		ListPending(ctx context.Context) ([]*model.AppointmentDetail, error)
		ListAll(ctx context.Context) ([]*model.AppointmentDetail, error)
		BookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error)
		ScheduleForDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.AppointmentDetail, error)
		CountAll(ctx context.Context) (int, error)
		CountByStatus(ctx context.Context, status model.AppointmentStatus) (int, error)
		StatusCountsForDoctor(ctx context.Context, doctorID uuid.UUID) (map[model.AppointmentStatus]int, error)
		StatusCountsForPatient(ctx context.Context, patientID uuid.UUID) (map[model.AppointmentStatus]int, error)
	}

	PredictionRepository interface {
		Create(ctx context.Context, pred *model.Prediction) error
		GetByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prediction, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Prediction, error)
		ListAll(ctx context.Context) ([]*model.Prediction, error)
		Review(ctx context.Context, id uuid.UUID, doctorNotes, finalDiagnosis string) error
		RecentForPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]model.Prediction, error)
		CountPendingReviewForDoctor(ctx context.Context, doctorID uuid.UUID) (int, error)
		Stats(ctx context.Context) (*model.PredictionStats, error)
	}

	OutboxRepository interface {
		CreateEvent(ctx context.Context, eventType string, payload interface{}) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	}
)
