package scheduling

import (
	"context"

	"github.com/google/uuid"

	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/pkg/errors"
)

// AvailableSlots returns the doctor's configured labels minus those held by
// a pending or approved booking on the given date, in configured order.
// Rejected and cancelled bookings release their slot.
func (s *Service) AvailableSlots(ctx context.Context, doctorID uuid.UUID, dateStr string) ([]string, error) {
	date, err := ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	doctor, err := s.users.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor.Role != model.RoleDoctor {
		return nil, errors.NotFound("doctor")
	}

	configured := []string{}
	if doctor.Doctor != nil {
		configured = doctor.Doctor.AvailableTimeSlots
	}
	if len(configured) == 0 {
		return []string{}, nil
	}

	booked, err := s.appointments.BookedSlots(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(booked))
	for _, slot := range booked {
		taken[slot] = struct{}{}
	}

	free := make([]string, 0, len(configured))
	for _, slot := range configured {
		if _, held := taken[slot]; !held {
			free = append(free, slot)
		}
	}
	return free, nil
}
