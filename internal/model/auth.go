package model

import (
	"time"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role" binding:"required,oneof=admin doctor patient"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type SignupRequest struct {
	Email            string     `json:"email" binding:"required,email"`
	Password         string     `json:"password" binding:"required,min=8"`
	FirstName        string     `json:"first_name" binding:"required"`
	LastName         string     `json:"last_name" binding:"required"`
	Phone            string     `json:"phone" binding:"required"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	Gender           string     `json:"gender"`
	EmergencyContact string     `json:"emergency_contact"`
}

// Actor is the authenticated caller as established by the identity layer.
// A zero Actor means the request was not authenticated.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) Authenticated() bool {
	return a.ID != uuid.Nil && a.Role.Valid()
}
