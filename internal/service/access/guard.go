package access

import (
	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/pkg/errors"
)

// Guard decides whether a caller may perform an operation on a resource.
// Pure functions of (actor, resource). Authorization failures surface as
// Forbidden, never NotFound: record existence is not hidden.

// Require rejects unauthenticated callers and, when roles are given,
// callers outside the allowed set.
func Require(actor model.Actor, roles ...model.Role) error {
	if !actor.Authenticated() {
		return errors.Unauthenticated("")
	}
	if len(roles) == 0 {
		return nil
	}
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	return errors.Forbidden("")
}

// CanReadAppointment allows admins, the appointment's doctor, and the
// appointment's patient.
func CanReadAppointment(actor model.Actor, apt *model.Appointment) error {
	if !actor.Authenticated() {
		return errors.Unauthenticated("")
	}
	switch actor.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleDoctor:
		if apt.DoctorID == actor.ID {
			return nil
		}
	case model.RolePatient:
		if apt.PatientID == actor.ID {
			return nil
		}
	}
	return errors.Forbidden("")
}

// CanDecideAppointment covers doctor-side transitions: approve, reject,
// complete. Admins bypass ownership but not the state machine.
func CanDecideAppointment(actor model.Actor, apt *model.Appointment) error {
	if !actor.Authenticated() {
		return errors.Unauthenticated("")
	}
	switch actor.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleDoctor:
		if apt.DoctorID == actor.ID {
			return nil
		}
	}
	return errors.Forbidden("")
}

// CanCancelAppointment allows admins and the owning patient. Status rules
// are enforced by the ledger, not here.
func CanCancelAppointment(actor model.Actor, apt *model.Appointment) error {
	if !actor.Authenticated() {
		return errors.Unauthenticated("")
	}
	switch actor.Role {
	case model.RoleAdmin:
		return nil
	case model.RolePatient:
		if apt.PatientID == actor.ID {
			return nil
		}
	}
	return errors.Forbidden("")
}

// CanReadPrediction allows admins, the owning patient, and the assigned
// doctor.
func CanReadPrediction(actor model.Actor, pred *model.Prediction) error {
	if !actor.Authenticated() {
		return errors.Unauthenticated("")
	}
	switch actor.Role {
	case model.RoleAdmin:
		return nil
	case model.RolePatient:
		if pred.PatientID == actor.ID {
			return nil
		}
	case model.RoleDoctor:
		if pred.DoctorID != nil && *pred.DoctorID == actor.ID {
			return nil
		}
	}
	return errors.Forbidden("")
}

// CanReviewPrediction allows only the assigned doctor (or an admin).
func CanReviewPrediction(actor model.Actor, pred *model.Prediction) error {
	if !actor.Authenticated() {
		return errors.Unauthenticated("")
	}
	switch actor.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleDoctor:
		if pred.DoctorID != nil && *pred.DoctorID == actor.ID {
			return nil
		}
	}
	return errors.Forbidden("")
}
