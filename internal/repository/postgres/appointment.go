package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/pkg/errors"
)

const detailColumns = `
	a.id, a.patient_id, a.doctor_id, a.appointment_date, a.time_slot,
	a.reason, a.symptoms, a.notes, a.doctor_notes, a.priority, a.status,
	a.created_at, a.updated_at,
	COALESCE(d.id, a.doctor_id) AS "doctor.id",
	COALESCE(d.first_name, '') AS "doctor.first_name",
	COALESCE(d.last_name, '') AS "doctor.last_name",
	COALESCE(d.specialization, '') AS "doctor.specialization",
	COALESCE(p.id, a.patient_id) AS "patient.id",
	COALESCE(p.first_name, '') AS "patient.first_name",
	COALESCE(p.last_name, '') AS "patient.last_name"
`

const detailJoins = `
	FROM appointments a
	LEFT JOIN users d ON d.id = a.doctor_id
	LEFT JOIN users p ON p.id = a.patient_id
`

// Insert persists a booking only if no non-terminal appointment already
// holds the (doctor, date, slot) triple. The NOT EXISTS guard and the write
// run as a single statement; the partial unique index on non-terminal rows
// serializes racing inserts, so losers surface as a unique violation.
func (r *appointmentRepository) Insert(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, appointment_date, time_slot,
			reason, symptoms, notes, doctor_notes, priority, status,
			created_at, updated_at
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		WHERE NOT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $3
			AND appointment_date = $4
			AND time_slot = $5
			AND status IN ('pending', 'approved')
		)
	`

	result, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.PatientID,
		apt.DoctorID,
		apt.AppointmentDate,
		apt.TimeSlot,
		apt.Reason,
		apt.Symptoms,
		apt.Notes,
		apt.DoctorNotes,
		apt.Priority,
		apt.Status,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.SlotUnavailable(apt.TimeSlot)
		}
		return translateError(err, "appointment")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Internal(err)
	}
	if rows == 0 {
		return errors.SlotUnavailable(apt.TimeSlot)
	}
	return nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, appointment_date, time_slot,
			   reason, symptoms, notes, doctor_notes, priority, status,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`

	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		return nil, translateError(err, "appointment")
	}
	return &apt, nil
}

func (r *appointmentRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.AppointmentDetail, error) {
	query := `SELECT ` + detailColumns + detailJoins + ` WHERE a.id = $1`

	var detail model.AppointmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, translateError(err, "appointment")
	}
	return &detail, nil
}

// UpdateStatus performs the transition as a compare-and-swap on the source
// status. When the row has moved on since the caller read it, zero rows
// match and the transition is rejected.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus, notes, doctorNotes string) error {
	query := `
		UPDATE appointments
		SET status = $3,
			notes = CASE WHEN $4 <> '' THEN $4 ELSE notes END,
			doctor_notes = CASE WHEN $5 <> '' THEN $5 ELSE doctor_notes END,
			updated_at = $6
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, from, to, notes, doctorNotes, time.Now().UTC())
	if err != nil {
		return translateError(err, "appointment")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Internal(err)
	}
	if rows == 0 {
		return errors.InvalidTransition(string(from), string(to))
	}
	return nil
}

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentDetail, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE a.patient_id = $1
		ORDER BY a.appointment_date ASC, a.time_slot ASC, a.created_at ASC`

	var appointments []*model.AppointmentDetail
	if err := r.db.SelectContext(ctx, &appointments, query, patientID); err != nil {
		return nil, translateError(err, "appointments")
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentDetail, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE a.doctor_id = $1
		ORDER BY a.appointment_date ASC, a.time_slot ASC, a.created_at ASC`

	var appointments []*model.AppointmentDetail
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID); err != nil {
		return nil, translateError(err, "appointments")
	}
	return appointments, nil
}

// ListPending surfaces newest booking requests first for admin triage.
func (r *appointmentRepository) ListPending(ctx context.Context) ([]*model.AppointmentDetail, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE a.status = 'pending'
		ORDER BY a.created_at DESC`

	var appointments []*model.AppointmentDetail
	if err := r.db.SelectContext(ctx, &appointments, query); err != nil {
		return nil, translateError(err, "appointments")
	}
	return appointments, nil
}

func (r *appointmentRepository) ListAll(ctx context.Context) ([]*model.AppointmentDetail, error) {
	query := `SELECT ` + detailColumns + detailJoins + ` ORDER BY a.created_at DESC`

	var appointments []*model.AppointmentDetail
	if err := r.db.SelectContext(ctx, &appointments, query); err != nil {
		return nil, translateError(err, "appointments")
	}
	return appointments, nil
}

// BookedSlots returns the slots held by non-terminal appointments for the
// doctor on the given date.
func (r *appointmentRepository) BookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	query := `
		SELECT time_slot FROM appointments
		WHERE doctor_id = $1
		AND appointment_date = $2
		AND status IN ('pending', 'approved')
	`

	var slots []string
	if err := r.db.SelectContext(ctx, &slots, query, doctorID, date); err != nil {
		return nil, translateError(err, "appointments")
	}
	return slots, nil
}

// ScheduleForDate is a direct filtered query over the doctor's non-terminal
// appointments for one date.
func (r *appointmentRepository) ScheduleForDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*model.AppointmentDetail, error) {
	query := `SELECT ` + detailColumns + detailJoins + `
		WHERE a.doctor_id = $1
		AND a.appointment_date = $2
		AND a.status IN ('pending', 'approved')
		ORDER BY a.time_slot ASC`

	var appointments []*model.AppointmentDetail
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, date); err != nil {
		return nil, translateError(err, "appointments")
	}
	return appointments, nil
}

func (r *appointmentRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM appointments`); err != nil {
		return 0, translateError(err, "appointments")
	}
	return count, nil
}

func (r *appointmentRepository) CountByStatus(ctx context.Context, status model.AppointmentStatus) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM appointments WHERE status = $1`, status); err != nil {
		return 0, translateError(err, "appointments")
	}
	return count, nil
}

type statusCount struct {
	Status model.AppointmentStatus `db:"status"`
	Count  int                     `db:"count"`
}

func (r *appointmentRepository) statusCounts(ctx context.Context, column string, id uuid.UUID) (map[model.AppointmentStatus]int, error) {
	query := `SELECT status, COUNT(*) AS count FROM appointments WHERE ` + column + ` = $1 GROUP BY status`

	var rows []statusCount
	if err := r.db.SelectContext(ctx, &rows, query, id); err != nil {
		return nil, translateError(err, "appointments")
	}

	counts := make(map[model.AppointmentStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *appointmentRepository) StatusCountsForDoctor(ctx context.Context, doctorID uuid.UUID) (map[model.AppointmentStatus]int, error) {
	return r.statusCounts(ctx, "doctor_id", doctorID)
}

func (r *appointmentRepository) StatusCountsForPatient(ctx context.Context, patientID uuid.UUID) (map[model.AppointmentStatus]int, error) {
	return r.statusCounts(ctx, "patient_id", patientID)
}
