package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusApproved  AppointmentStatus = "approved"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted. Terminal
// appointments do not occupy a slot.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case AppointmentStatusRejected, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:  {AppointmentStatusApproved, AppointmentStatusRejected, AppointmentStatusCancelled},
	AppointmentStatusApproved: {AppointmentStatusCompleted, AppointmentStatusCancelled},
}

// CanTransitionTo reports whether the workflow allows moving from s to next.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type AppointmentPriority string

const (
	PriorityNormal    AppointmentPriority = "normal"
	PriorityUrgent    AppointmentPriority = "urgent"
	PriorityEmergency AppointmentPriority = "emergency"
)

func (p AppointmentPriority) Valid() bool {
	switch p {
	case PriorityNormal, PriorityUrgent, PriorityEmergency:
		return true
	}
	return false
}

// Appointment references its doctor and patient by id only; user lifecycle
// is independent and reads must tolerate orphaned references.
type Appointment struct {
	ID              uuid.UUID           `db:"id" json:"id"`
	PatientID       uuid.UUID           `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID           `db:"doctor_id" json:"doctor_id"`
	AppointmentDate time.Time           `db:"appointment_date" json:"appointment_date"`
	TimeSlot        string              `db:"time_slot" json:"time_slot"`
	Reason          string              `db:"reason" json:"reason"`
	Symptoms        string              `db:"symptoms" json:"symptoms"`
	Notes           string              `db:"notes" json:"notes"`
	DoctorNotes     string              `db:"doctor_notes" json:"doctor_notes"`
	Priority        AppointmentPriority `db:"priority" json:"priority"`
	Status          AppointmentStatus   `db:"status" json:"status"`
	CreatedAt       time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `db:"updated_at" json:"updated_at"`
}

// PersonSummary is the minimal participant view joined onto listings.
// Never includes credentials.
type PersonSummary struct {
	ID             uuid.UUID `db:"id" json:"id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Specialization string    `db:"specialization" json:"specialization,omitempty"`
}

// AppointmentDetail is an appointment joined with participant summaries.
type AppointmentDetail struct {
	Appointment
	Doctor  PersonSummary `db:"doctor" json:"doctor"`
	Patient PersonSummary `db:"patient" json:"patient"`
}

type BookAppointmentRequest struct {
	DoctorID        uuid.UUID           `json:"doctor_id" binding:"required"`
	AppointmentDate string              `json:"appointment_date" binding:"required"`
	TimeSlot        string              `json:"time_slot" binding:"required"`
	Reason          string              `json:"reason" binding:"required"`
	Symptoms        string              `json:"symptoms"`
	Notes           string              `json:"notes"`
	Priority        AppointmentPriority `json:"priority"`
}

type StatusChangeRequest struct {
	Notes string `json:"notes"`
}
