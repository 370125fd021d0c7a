package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/pkg/errors"
)

// userRow is the flat scan target for the users table; role profile columns
// are nullable and hydrated into the tagged model variants.
type userRow struct {
	ID           uuid.UUID  `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         model.Role `db:"role"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	Phone        string     `db:"phone"`
	IsActive     bool       `db:"is_active"`
	CreatedAt    time.Time  `db:"created_at"`

	Specialization     sql.NullString `db:"specialization"`
	LicenseNumber      sql.NullString `db:"license_number"`
	ExperienceYears    sql.NullInt64  `db:"experience_years"`
	AvailableTimeSlots pq.StringArray `db:"available_time_slots"`
	ApprovedByAdmin    sql.NullBool   `db:"approved_by_admin"`

	DateOfBirth      *time.Time     `db:"date_of_birth"`
	Gender           sql.NullString `db:"gender"`
	MedicalHistory   pq.StringArray `db:"medical_history"`
	EmergencyContact sql.NullString `db:"emergency_contact"`
}

func (r *userRow) toModel() *model.User {
	u := &model.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Phone:        r.Phone,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
	}

	switch r.Role {
	case model.RoleDoctor:
		u.Doctor = &model.DoctorProfile{
			Specialization:     r.Specialization.String,
			LicenseNumber:      r.LicenseNumber.String,
			ExperienceYears:    int(r.ExperienceYears.Int64),
			AvailableTimeSlots: r.AvailableTimeSlots,
			ApprovedByAdmin:    r.ApprovedByAdmin.Bool,
		}
	case model.RolePatient:
		u.Patient = &model.PatientProfile{
			DateOfBirth:      r.DateOfBirth,
			Gender:           r.Gender.String,
			MedicalHistory:   r.MedicalHistory,
			EmergencyContact: r.EmergencyContact.String,
		}
	}
	return u
}

const userColumns = `
	id, email, password_hash, role, first_name, last_name, phone,
	is_active, created_at, specialization, license_number,
	experience_years, available_time_slots, approved_by_admin,
	date_of_birth, gender, medical_history, emergency_contact
`

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, email, password_hash, role, first_name, last_name, phone,
			is_active, created_at, specialization, license_number,
			experience_years, available_time_slots, approved_by_admin,
			date_of_birth, gender, medical_history, emergency_contact
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	var (
		specialization, licenseNumber          *string
		experienceYears                        *int
		availableSlots, medicalHistory         pq.StringArray
		approvedByAdmin                        *bool
		dateOfBirth                            *time.Time
		gender, emergencyContact               *string
	)

	if d := user.Doctor; d != nil {
		specialization = &d.Specialization
		licenseNumber = &d.LicenseNumber
		experienceYears = &d.ExperienceYears
		availableSlots = d.AvailableTimeSlots
		approvedByAdmin = &d.ApprovedByAdmin
	}
	if p := user.Patient; p != nil {
		dateOfBirth = p.DateOfBirth
		gender = &p.Gender
		medicalHistory = p.MedicalHistory
		emergencyContact = &p.EmergencyContact
	}

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.IsActive,
		user.CreatedAt,
		specialization,
		licenseNumber,
		experienceYears,
		availableSlots,
		approvedByAdmin,
		dateOfBirth,
		gender,
		medicalHistory,
		emergencyContact,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.DuplicateEmail(user.Email)
		}
		return translateError(err, "user")
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, translateError(err, "user")
	}
	return row.toModel(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		return nil, translateError(err, "user")
	}
	return row.toModel(), nil
}

// ApproveDoctor is idempotent: approving an already-approved doctor is a
// no-op success.
func (r *userRepository) ApproveDoctor(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET approved_by_admin = TRUE WHERE id = $1 AND role = 'doctor'`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return translateError(err, "doctor")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Internal(err)
	}
	if rows == 0 {
		return errors.NotFound("doctor")
	}
	return nil
}

// SetDoctorSlots replaces the configured slot set wholesale.
func (r *userRepository) SetDoctorSlots(ctx context.Context, id uuid.UUID, slots []string) error {
	query := `UPDATE users SET available_time_slots = $2 WHERE id = $1 AND role = 'doctor'`

	result, err := r.db.ExecContext(ctx, query, id, pq.StringArray(slots))
	if err != nil {
		return translateError(err, "doctor")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Internal(err)
	}
	if rows == 0 {
		return errors.NotFound("doctor")
	}
	return nil
}

func (r *userRepository) ListByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE role = $1 ORDER BY created_at DESC`, userColumns)

	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, query, role); err != nil {
		return nil, translateError(err, "users")
	}

	users := make([]*model.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toModel())
	}
	return users, nil
}

func (r *userRepository) ListApprovedDoctors(ctx context.Context) ([]*model.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE role = 'doctor' AND approved_by_admin = TRUE AND is_active = TRUE
		ORDER BY last_name, first_name
	`, userColumns)

	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, translateError(err, "doctors")
	}

	users := make([]*model.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toModel())
	}
	return users, nil
}

// Deactivate marks the account inactive. Users are never physically deleted.
func (r *userRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET is_active = FALSE WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return translateError(err, "user")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Internal(err)
	}
	if rows == 0 {
		return errors.NotFound("user")
	}
	return nil
}

func (r *userRepository) CountByRole(ctx context.Context, role model.Role) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE role = $1`, role); err != nil {
		return 0, translateError(err, "users")
	}
	return count, nil
}
