package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// User is the base identity record. Exactly one of the role profiles is
// populated for doctor and patient accounts; admins carry neither.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Phone        string    `db:"phone" json:"phone"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	Doctor  *DoctorProfile  `json:"doctor,omitempty"`
	Patient *PatientProfile `json:"patient,omitempty"`
}

// DoctorProfile holds doctor-only attributes. AvailableTimeSlots is an
// ordered set of time-of-day labels ("09:00") replaced wholesale on update.
type DoctorProfile struct {
	Specialization     string         `db:"specialization" json:"specialization"`
	LicenseNumber      string         `db:"license_number" json:"license_number"`
	ExperienceYears    int            `db:"experience_years" json:"experience_years"`
	AvailableTimeSlots pq.StringArray `db:"available_time_slots" json:"available_time_slots"`
	ApprovedByAdmin    bool           `db:"approved_by_admin" json:"approved_by_admin"`
}

type PatientProfile struct {
	DateOfBirth      *time.Time     `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender           string         `db:"gender" json:"gender"`
	MedicalHistory   pq.StringArray `db:"medical_history" json:"medical_history"`
	EmergencyContact string         `db:"emergency_contact" json:"emergency_contact"`
}

// Bookable reports whether patients may book this user: doctors only, and
// only when approved and active.
func (u *User) Bookable() bool {
	return u.Role == RoleDoctor && u.IsActive && u.Doctor != nil && u.Doctor.ApprovedByAdmin
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// CreateUserRequest covers patient signup and admin-initiated doctor creation.
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      Role   `json:"role" binding:"required,oneof=admin doctor patient"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`

	// Doctor fields
	Specialization     string   `json:"specialization"`
	LicenseNumber      string   `json:"license_number"`
	ExperienceYears    int      `json:"experience_years"`
	AvailableTimeSlots []string `json:"available_time_slots"`

	// Patient fields
	DateOfBirth      *time.Time `json:"date_of_birth"`
	Gender           string     `json:"gender"`
	MedicalHistory   []string   `json:"medical_history"`
	EmergencyContact string     `json:"emergency_contact"`
}

type UpdateTimeSlotsRequest struct {
	TimeSlots []string `json:"time_slots" binding:"required"`
}

// DoctorSummary is the public doctor listing entry shown to patients.
type DoctorSummary struct {
	ID                 uuid.UUID `json:"id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Specialization     string    `json:"specialization"`
	ExperienceYears    int       `json:"experience_years"`
	AvailableTimeSlots []string  `json:"available_time_slots"`
}
