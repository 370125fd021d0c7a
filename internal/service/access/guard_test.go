package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/pkg/errors"
)

func TestRequire(t *testing.T) {
	admin := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}
	doctor := model.Actor{ID: uuid.New(), Role: model.RoleDoctor}

	assert.NoError(t, Require(admin))
	assert.NoError(t, Require(admin, model.RoleAdmin))
	assert.NoError(t, Require(doctor, model.RoleDoctor, model.RoleAdmin))

	err := Require(doctor, model.RoleAdmin)
	assert.Equal(t, errors.ErrForbidden, errors.Code(err))

	err = Require(model.Actor{}, model.RoleAdmin)
	assert.Equal(t, errors.ErrUnauthenticated, errors.Code(err))

	// A role outside the known set is not authenticated.
	err = Require(model.Actor{ID: uuid.New(), Role: model.Role("root")})
	assert.Equal(t, errors.ErrUnauthenticated, errors.Code(err))
}

func TestAppointmentGuards(t *testing.T) {
	doctorID := uuid.New()
	patientID := uuid.New()
	apt := &model.Appointment{ID: uuid.New(), DoctorID: doctorID, PatientID: patientID}

	admin := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}
	owningDoctor := model.Actor{ID: doctorID, Role: model.RoleDoctor}
	otherDoctor := model.Actor{ID: uuid.New(), Role: model.RoleDoctor}
	owningPatient := model.Actor{ID: patientID, Role: model.RolePatient}
	otherPatient := model.Actor{ID: uuid.New(), Role: model.RolePatient}

	cases := []struct {
		name  string
		check func(model.Actor, *model.Appointment) error
		actor model.Actor
		want  errors.ErrorCode
	}{
		{"read by admin", CanReadAppointment, admin, 0},
		{"read by owning doctor", CanReadAppointment, owningDoctor, 0},
		{"read by owning patient", CanReadAppointment, owningPatient, 0},
		{"read by other doctor", CanReadAppointment, otherDoctor, errors.ErrForbidden},
		{"read by other patient", CanReadAppointment, otherPatient, errors.ErrForbidden},
		{"read unauthenticated", CanReadAppointment, model.Actor{}, errors.ErrUnauthenticated},

		{"decide by admin", CanDecideAppointment, admin, 0},
		{"decide by owning doctor", CanDecideAppointment, owningDoctor, 0},
		{"decide by other doctor", CanDecideAppointment, otherDoctor, errors.ErrForbidden},
		{"decide by owning patient", CanDecideAppointment, owningPatient, errors.ErrForbidden},

		{"cancel by admin", CanCancelAppointment, admin, 0},
		{"cancel by owning patient", CanCancelAppointment, owningPatient, 0},
		{"cancel by other patient", CanCancelAppointment, otherPatient, errors.ErrForbidden},
		{"cancel by owning doctor", CanCancelAppointment, owningDoctor, errors.ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.check(tc.actor, apt)
			if tc.want == 0 {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tc.want, errors.Code(err))
			}
		})
	}
}

func TestPredictionGuards(t *testing.T) {
	doctorID := uuid.New()
	patientID := uuid.New()
	assigned := &model.Prediction{ID: uuid.New(), PatientID: patientID, DoctorID: &doctorID}
	unassigned := &model.Prediction{ID: uuid.New(), PatientID: patientID}

	admin := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}
	assignedDoctor := model.Actor{ID: doctorID, Role: model.RoleDoctor}
	otherDoctor := model.Actor{ID: uuid.New(), Role: model.RoleDoctor}
	owningPatient := model.Actor{ID: patientID, Role: model.RolePatient}

	assert.NoError(t, CanReadPrediction(admin, assigned))
	assert.NoError(t, CanReadPrediction(owningPatient, assigned))
	assert.NoError(t, CanReadPrediction(assignedDoctor, assigned))
	assert.Equal(t, errors.ErrForbidden, errors.Code(CanReadPrediction(otherDoctor, assigned)))
	assert.Equal(t, errors.ErrForbidden, errors.Code(CanReadPrediction(otherDoctor, unassigned)))

	assert.NoError(t, CanReviewPrediction(admin, assigned))
	assert.NoError(t, CanReviewPrediction(assignedDoctor, assigned))
	assert.Equal(t, errors.ErrForbidden, errors.Code(CanReviewPrediction(owningPatient, assigned)))
	assert.Equal(t, errors.ErrForbidden, errors.Code(CanReviewPrediction(assignedDoctor, unassigned)))
	assert.Equal(t, errors.ErrUnauthenticated, errors.Code(CanReviewPrediction(model.Actor{}, assigned)))
}
