package prediction

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/internal/repository"
	"github.com/neuroscan/clinic-api/internal/service/access"
	"github.com/neuroscan/clinic-api/pkg/errors"
)

// Service runs scans through the classifier and keeps the resulting
// prediction log.
type Service struct {
	predictions repository.PredictionRepository
	users       repository.UserRepository
	classifier  Classifier
}

func NewService(predictions repository.PredictionRepository, users repository.UserRepository, classifier Classifier) *Service {
	return &Service{
		predictions: predictions,
		users:       users,
		classifier:  classifier,
	}
}

// Create classifies the referenced scan and records the verbatim result
// against the acting patient. An optional doctor assignment routes the
// record into that doctor's review queue.
func (s *Service) Create(ctx context.Context, actor model.Actor, req *model.CreatePredictionRequest) (*model.Prediction, error) {
	if err := access.Require(actor, model.RolePatient); err != nil {
		return nil, err
	}
	if req.ImageRef == "" {
		return nil, errors.Validation("image_ref", "image_ref is required")
	}

	if req.DoctorID != nil {
		doctor, err := s.users.GetByID(ctx, *req.DoctorID)
		if err != nil {
			return nil, err
		}
		if doctor.Role != model.RoleDoctor {
			return nil, errors.NotFound("doctor")
		}
	}

	result, err := s.classifier.Classify(ctx, req.ImageRef)
	if err != nil {
		return nil, err
	}

	pred := &model.Prediction{
		ID:              uuid.New(),
		PatientID:       actor.ID,
		DoctorID:        req.DoctorID,
		ImageRef:        req.ImageRef,
		PredictionLabel: result.Label,
		Confidence:      result.Confidence,
		Region:          result.Region,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.predictions.Create(ctx, pred); err != nil {
		return nil, err
	}
	return pred, nil
}

func (s *Service) GetByID(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Prediction, error) {
	pred, err := s.predictions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanReadPrediction(actor, pred); err != nil {
		return nil, err
	}
	return pred, nil
}

func (s *Service) ListForPatient(ctx context.Context, actor model.Actor, patientID uuid.UUID) ([]*model.Prediction, error) {
	if err := access.Require(actor); err != nil {
		return nil, err
	}
	if actor.Role != model.RoleAdmin && actor.ID != patientID {
		return nil, errors.Forbidden("")
	}
	return s.predictions.ListForPatient(ctx, patientID)
}

// ListForDoctor is the doctor's review queue, newest first.
func (s *Service) ListForDoctor(ctx context.Context, actor model.Actor, doctorID uuid.UUID) ([]*model.Prediction, error) {
	if err := access.Require(actor, model.RoleDoctor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if actor.Role == model.RoleDoctor && actor.ID != doctorID {
		return nil, errors.Forbidden("")
	}
	return s.predictions.ListForDoctor(ctx, doctorID)
}

func (s *Service) ListAll(ctx context.Context, actor model.Actor) ([]*model.Prediction, error) {
	if err := access.Require(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	return s.predictions.ListAll(ctx)
}

// Review records the assigned doctor's read of a prediction. A prediction
// is reviewed at most once.
func (s *Service) Review(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.ReviewPredictionRequest) (*model.Prediction, error) {
	pred, err := s.predictions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CanReviewPrediction(actor, pred); err != nil {
		return nil, err
	}
	if pred.ReviewedByDoctor {
		return nil, errors.Conflict("prediction is already reviewed")
	}
	if req.DoctorNotes == "" || req.FinalDiagnosis == "" {
		return nil, errors.Validation("final_diagnosis", "doctor_notes and final_diagnosis are required")
	}

	if err := s.predictions.Review(ctx, id, req.DoctorNotes, req.FinalDiagnosis); err != nil {
		return nil, err
	}

	pred.ReviewedByDoctor = true
	pred.DoctorNotes = req.DoctorNotes
	pred.FinalDiagnosis = req.FinalDiagnosis
	return pred, nil
}
