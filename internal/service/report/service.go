package report

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/internal/repository"
	"github.com/neuroscan/clinic-api/internal/service/access"
	"github.com/neuroscan/clinic-api/pkg/errors"
)

const recentPredictionLimit = 5

// Service assembles the per-role dashboard summaries. It is read only.
type Service struct {
	users        repository.UserRepository
	appointments repository.AppointmentRepository
	predictions  repository.PredictionRepository

	// now is swappable so tests can pin the upcoming-appointment cutoff.
	now func() time.Time
}

func NewService(users repository.UserRepository, appointments repository.AppointmentRepository, predictions repository.PredictionRepository) *Service {
	return &Service{
		users:        users,
		appointments: appointments,
		predictions:  predictions,
		now:          time.Now,
	}
}

// AdminDashboard is the clinic-wide overview.
func (s *Service) AdminDashboard(ctx context.Context, actor model.Actor) (*model.AdminDashboard, error) {
	if err := access.Require(actor, model.RoleAdmin); err != nil {
		return nil, err
	}

	dash := &model.AdminDashboard{}

	doctors, err := s.users.ListByRole(ctx, model.RoleDoctor)
	if err != nil {
		return nil, err
	}
	dash.Doctors.Total = len(doctors)
	for _, d := range doctors {
		if d.Doctor != nil && d.Doctor.ApprovedByAdmin {
			dash.Doctors.Approved++
		}
	}
	dash.Doctors.Pending = dash.Doctors.Total - dash.Doctors.Approved

	patients, err := s.users.CountByRole(ctx, model.RolePatient)
	if err != nil {
		return nil, err
	}
	dash.Patients.Total = patients

	total, err := s.appointments.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	dash.Appointments.Total = total

	pending, err := s.appointments.CountByStatus(ctx, model.AppointmentStatusPending)
	if err != nil {
		return nil, err
	}
	dash.Appointments.Pending = pending

	stats, err := s.predictions.Stats(ctx)
	if err != nil {
		return nil, err
	}
	dash.Predictions = *stats

	return dash, nil
}

// DoctorDashboard summarizes one doctor's workload. Doctors see their own,
// admins anyone's.
func (s *Service) DoctorDashboard(ctx context.Context, actor model.Actor, doctorID uuid.UUID) (*model.DoctorDashboard, error) {
	if err := access.Require(actor, model.RoleDoctor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if actor.Role == model.RoleDoctor && actor.ID != doctorID {
		return nil, errors.Forbidden("")
	}

	dash := &model.DoctorDashboard{}

	counts, err := s.appointments.StatusCountsForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	dash.Appointments = toAppointmentCounts(counts)

	preds, err := s.predictions.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	dash.Predictions.Total = len(preds)
	for _, p := range preds {
		if p.ReviewedByDoctor {
			dash.Predictions.Reviewed++
		}
	}

	pendingReview, err := s.predictions.CountPendingReviewForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	dash.Predictions.PendingReview = pendingReview

	return dash, nil
}

// PatientDashboard summarizes one patient's history plus their next
// upcoming visit. Patients see their own, admins anyone's.
func (s *Service) PatientDashboard(ctx context.Context, actor model.Actor, patientID uuid.UUID) (*model.PatientDashboard, error) {
	if err := access.Require(actor, model.RolePatient, model.RoleAdmin); err != nil {
		return nil, err
	}
	if actor.Role == model.RolePatient && actor.ID != patientID {
		return nil, errors.Forbidden("")
	}

	dash := &model.PatientDashboard{}

	counts, err := s.appointments.StatusCountsForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	dash.Appointments = toAppointmentCounts(counts)

	upcoming, err := s.nextUpcoming(ctx, patientID)
	if err != nil {
		return nil, err
	}
	dash.NextAppointment = upcoming

	recent, err := s.predictions.RecentForPatient(ctx, patientID, recentPredictionLimit)
	if err != nil {
		return nil, err
	}
	dash.Predictions.Recent = recent

	preds, err := s.predictions.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	dash.Predictions.Total = len(preds)

	return dash, nil
}

// nextUpcoming picks the soonest pending or approved appointment on or
// after today. The listing is already ordered by date then slot label, so
// the first live match wins ties deterministically.
func (s *Service) nextUpcoming(ctx context.Context, patientID uuid.UUID) (*model.AppointmentDetail, error) {
	listing, err := s.appointments.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	for _, apt := range listing {
		if apt.Status != model.AppointmentStatusPending && apt.Status != model.AppointmentStatusApproved {
			continue
		}
		if apt.AppointmentDate.Before(today) {
			continue
		}
		return apt, nil
	}
	return nil, nil
}

func toAppointmentCounts(byStatus map[model.AppointmentStatus]int) model.AppointmentCounts {
	counts := model.AppointmentCounts{
		Pending:   byStatus[model.AppointmentStatusPending],
		Approved:  byStatus[model.AppointmentStatusApproved],
		Completed: byStatus[model.AppointmentStatusCompleted],
		Rejected:  byStatus[model.AppointmentStatusRejected],
		Cancelled: byStatus[model.AppointmentStatusCancelled],
	}
	counts.Total = counts.Pending + counts.Approved + counts.Completed + counts.Rejected + counts.Cancelled
	return counts
}
