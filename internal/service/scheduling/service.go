package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/internal/repository"
	"github.com/neuroscan/clinic-api/internal/service/access"
	"github.com/neuroscan/clinic-api/pkg/errors"
	"github.com/neuroscan/clinic-api/pkg/logger"
	"github.com/neuroscan/clinic-api/pkg/metrics"
)

const dateLayout = "2006-01-02"

// Service is the appointment ledger: it owns booking, the status state
// machine, and slot availability.
type Service struct {
	appointments repository.AppointmentRepository
	users        repository.UserRepository
	outbox       repository.OutboxRepository
	metrics      *metrics.Metrics
	logger       *logger.Logger
}

func NewService(appointments repository.AppointmentRepository, users repository.UserRepository, outbox repository.OutboxRepository) *Service {
	return &Service{
		appointments: appointments,
		users:        users,
		outbox:       outbox,
	}
}

// WithMetrics attaches booking and transition counters. Optional.
func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.metrics = m
	return s
}

// WithLogger attaches a logger for event publication failures. Optional.
func (s *Service) WithLogger(log *logger.Logger) *Service {
	s.logger = log
	return s
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errors.Validation("appointment_date", "appointment_date must be YYYY-MM-DD")
	}
	return date.UTC(), nil
}

// Book creates a pending appointment for the patient. The slot must be one
// of the doctor's configured labels and free of non-terminal bookings; the
// free check and the insert are atomic at the storage layer, so concurrent
// requests for the same (doctor, date, slot) yield exactly one success.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	date, err := ParseDate(req.AppointmentDate)
	if err != nil {
		return nil, err
	}
	if req.Reason == "" {
		return nil, errors.Validation("reason", "reason is required")
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}
	if !priority.Valid() {
		return nil, errors.Validation("priority", "priority must be normal, urgent or emergency")
	}

	doctor, err := s.users.GetByID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor.Role != model.RoleDoctor {
		return nil, errors.NotFound("doctor")
	}
	if !doctor.Bookable() {
		return nil, errors.Validation("doctor_id", "doctor is not accepting appointments")
	}
	if !slotConfigured(doctor.Doctor.AvailableTimeSlots, req.TimeSlot) {
		return nil, errors.Validation("time_slot", "time_slot is not offered by this doctor")
	}

	now := time.Now().UTC()
	apt := &model.Appointment{
		ID:              uuid.New(),
		PatientID:       patientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: date,
		TimeSlot:        req.TimeSlot,
		Reason:          req.Reason,
		Symptoms:        req.Symptoms,
		Notes:           req.Notes,
		Priority:        priority,
		Status:          model.AppointmentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.appointments.Insert(ctx, apt); err != nil {
		if s.metrics != nil {
			if errors.Code(err) == errors.ErrSlotUnavailable {
				s.metrics.BookingAttempts.WithLabelValues("conflict").Inc()
				s.metrics.SlotConflicts.Inc()
			} else {
				s.metrics.BookingAttempts.WithLabelValues("error").Inc()
			}
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.BookingAttempts.WithLabelValues("success").Inc()
	}

	s.publishEvent(ctx, model.EventAppointmentBooked, apt)
	return apt, nil
}

// transitionRoles maps a target status onto the roles allowed to request it.
var transitionRoles = map[model.AppointmentStatus][]model.Role{
	model.AppointmentStatusApproved:  {model.RoleDoctor, model.RoleAdmin},
	model.AppointmentStatusRejected:  {model.RoleDoctor, model.RoleAdmin},
	model.AppointmentStatusCompleted: {model.RoleDoctor, model.RoleAdmin},
	model.AppointmentStatusCancelled: {model.RolePatient, model.RoleAdmin},
}

var transitionEvents = map[model.AppointmentStatus]string{
	model.AppointmentStatusApproved:  model.EventAppointmentApproved,
	model.AppointmentStatusRejected:  model.EventAppointmentRejected,
	model.AppointmentStatusCompleted: model.EventAppointmentCompleted,
	model.AppointmentStatusCancelled: model.EventAppointmentCancelled,
}

// SetStatus applies a workflow transition on behalf of the actor. The
// transition check and the write are a compare-and-swap on the record, so
// of two racing transitions only one wins.
func (s *Service) SetStatus(ctx context.Context, actor model.Actor, id uuid.UUID, next model.AppointmentStatus, notes string) (*model.Appointment, error) {
	allowedRoles, known := transitionRoles[next]
	if !known {
		return nil, errors.Validation("status", "unknown target status")
	}

	apt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if next == model.AppointmentStatusCancelled {
		err = access.CanCancelAppointment(actor, apt)
	} else {
		err = access.CanDecideAppointment(actor, apt)
	}
	if err != nil {
		return nil, err
	}
	if !roleAllowed(actor.Role, allowedRoles) {
		return nil, errors.Forbidden("")
	}

	if !apt.Status.CanTransitionTo(next) {
		return nil, errors.InvalidTransition(string(apt.Status), string(next))
	}

	// Doctor commentary lands in doctor_notes, everyone else's in notes.
	var patientNotes, doctorNotes string
	if actor.Role == model.RoleDoctor {
		doctorNotes = notes
	} else {
		patientNotes = notes
	}

	if err := s.appointments.UpdateStatus(ctx, id, apt.Status, next, patientNotes, doctorNotes); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(string(apt.Status), string(next)).Inc()
	}

	apt.Status = next
	apt.UpdatedAt = time.Now().UTC()
	if doctorNotes != "" {
		apt.DoctorNotes = doctorNotes
	}
	if patientNotes != "" {
		apt.Notes = patientNotes
	}

	s.publishEvent(ctx, transitionEvents[next], apt)
	return apt, nil
}

func (s *Service) GetByID(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.AppointmentDetail, error) {
	detail, err := s.appointments.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanReadAppointment(actor, &detail.Appointment); err != nil {
		return nil, err
	}
	return detail, nil
}

// ListForPatient returns the patient's appointments ordered by date.
func (s *Service) ListForPatient(ctx context.Context, actor model.Actor, patientID uuid.UUID) ([]*model.AppointmentDetail, error) {
	if err := access.Require(actor); err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin && actor.ID != patientID {
		return nil, errors.Forbidden("")
	}
	return s.appointments.ListForPatient(ctx, patientID)
}

func (s *Service) ListForDoctor(ctx context.Context, actor model.Actor, doctorID uuid.UUID) ([]*model.AppointmentDetail, error) {
	if err := access.Require(actor); err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin && actor.ID != doctorID {
		return nil, errors.Forbidden("")
	}
	return s.appointments.ListForDoctor(ctx, doctorID)
}

// ListPending is the admin triage view, newest requests first.
func (s *Service) ListPending(ctx context.Context, actor model.Actor) ([]*model.AppointmentDetail, error) {
	if err := access.Require(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	return s.appointments.ListPending(ctx)
}

func (s *Service) ListAll(ctx context.Context, actor model.Actor) ([]*model.AppointmentDetail, error) {
	if err := access.Require(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	return s.appointments.ListAll(ctx)
}

// ScheduleForDate returns a doctor's non-terminal appointments for one
// date, queried directly.
func (s *Service) ScheduleForDate(ctx context.Context, actor model.Actor, doctorID uuid.UUID, dateStr string) ([]*model.AppointmentDetail, error) {
	if err := access.Require(actor, model.RoleDoctor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if actor.Role == model.RoleDoctor && actor.ID != doctorID {
		return nil, errors.Forbidden("")
	}

	date, err := ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	return s.appointments.ScheduleForDate(ctx, doctorID, date)
}

// publishEvent records the lifecycle event for the notification worker.
// The domain write has already committed at this point, so a failed outbox
// insert must not fail the operation; it costs the notification, not the
// booking. Failures are logged for operator follow-up.
func (s *Service) publishEvent(ctx context.Context, eventType string, apt *model.Appointment) {
	err := s.outbox.CreateEvent(ctx, eventType, model.AppointmentEventPayload{
		AppointmentID:   apt.ID,
		PatientID:       apt.PatientID,
		DoctorID:        apt.DoctorID,
		AppointmentDate: apt.AppointmentDate.Format(dateLayout),
		TimeSlot:        apt.TimeSlot,
		Status:          apt.Status,
	})
	if err != nil && s.logger != nil {
		s.logger.Error(err, "failed to enqueue appointment event",
			"event_type", eventType, "appointment_id", apt.ID.String())
	}
}

func roleAllowed(role model.Role, allowed []model.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func slotConfigured(configured []string, slot string) bool {
	for _, s := range configured {
		if s == slot {
			return true
		}
	}
	return false
}
