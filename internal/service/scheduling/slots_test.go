package scheduling

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/pkg/errors"
)

func TestAvailableSlots(t *testing.T) {
	t.Run("all configured slots when nothing is booked", func(t *testing.T) {
		doctor := testDoctor("09:00", "10:00", "11:00")
		svc, _, _ := newTestService(doctor)

		free, err := svc.AvailableSlots(context.Background(), doctor.ID, "2026-09-14")
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "10:00", "11:00"}, free)
	})

	t.Run("held slots are hidden, configured order kept", func(t *testing.T) {
		doctor := testDoctor("09:00", "10:00", "11:00")
		svc, _, _ := newTestService(doctor)

		_, err := svc.Book(context.Background(), uuid.New(), bookRequest(doctor.ID, "10:00"))
		require.NoError(t, err)

		free, err := svc.AvailableSlots(context.Background(), doctor.ID, "2026-09-14")
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "11:00"}, free)
	})

	t.Run("terminal bookings release the slot", func(t *testing.T) {
		doctor := testDoctor("09:00", "10:00")
		svc, _, _ := newTestService(doctor)

		apt, err := svc.Book(context.Background(), uuid.New(), bookRequest(doctor.ID, "09:00"))
		require.NoError(t, err)

		doctorActor := model.Actor{ID: doctor.ID, Role: model.RoleDoctor}
		_, err = svc.SetStatus(context.Background(), doctorActor, apt.ID, model.AppointmentStatusRejected, "")
		require.NoError(t, err)

		free, err := svc.AvailableSlots(context.Background(), doctor.ID, "2026-09-14")
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "10:00"}, free)
	})

	t.Run("bookings on other dates do not count", func(t *testing.T) {
		doctor := testDoctor("09:00")
		svc, _, _ := newTestService(doctor)

		_, err := svc.Book(context.Background(), uuid.New(), bookRequest(doctor.ID, "09:00"))
		require.NoError(t, err)

		free, err := svc.AvailableSlots(context.Background(), doctor.ID, "2026-09-15")
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00"}, free)
	})

	t.Run("doctor without configured slots", func(t *testing.T) {
		doctor := testDoctor()
		doctor.Doctor.AvailableTimeSlots = nil
		svc, _, _ := newTestService(doctor)

		free, err := svc.AvailableSlots(context.Background(), doctor.ID, "2026-09-14")
		require.NoError(t, err)
		assert.Empty(t, free)
	})

	t.Run("unknown doctor", func(t *testing.T) {
		svc, _, _ := newTestService(testDoctor())

		_, err := svc.AvailableSlots(context.Background(), uuid.New(), "2026-09-14")
		assert.Equal(t, errors.ErrNotFound, errors.Code(err))
	})

	t.Run("non-doctor id", func(t *testing.T) {
		patient := &model.User{ID: uuid.New(), Email: "p@clinic.test", Role: model.RolePatient, IsActive: true}
		svc := NewService(newMemAppointmentRepo(), newMemUserRepo(patient), &memOutbox{})

		_, err := svc.AvailableSlots(context.Background(), patient.ID, "2026-09-14")
		assert.Equal(t, errors.ErrNotFound, errors.Code(err))
	})

	t.Run("malformed date", func(t *testing.T) {
		doctor := testDoctor()
		svc, _, _ := newTestService(doctor)

		_, err := svc.AvailableSlots(context.Background(), doctor.ID, "next tuesday")
		assert.Equal(t, errors.ErrValidation, errors.Code(err))
	})
}
