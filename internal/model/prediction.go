package model

import (
	"time"

	"github.com/google/uuid"
)

// Labels produced by the external classifier service.
const (
	LabelGlioma     = "glioma"
	LabelMeningioma = "meningioma"
	LabelNoTumor    = "notumor"
	LabelPituitary  = "pituitary"
)

func ValidPredictionLabel(label string) bool {
	switch label {
	case LabelGlioma, LabelMeningioma, LabelNoTumor, LabelPituitary:
		return true
	}
	return false
}

// Prediction records a classifier output verbatim plus doctor review
// metadata added afterwards.
type Prediction struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	PatientID        uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID         *uuid.UUID `db:"doctor_id" json:"doctor_id,omitempty"`
	ImageRef         string     `db:"image_ref" json:"image_ref"`
	PredictionLabel  string     `db:"prediction_label" json:"prediction_label"`
	Confidence       float64    `db:"confidence" json:"confidence"`
	Region           string     `db:"region" json:"region"`
	ReviewedByDoctor bool       `db:"reviewed_by_doctor" json:"reviewed_by_doctor"`
	DoctorNotes      string     `db:"doctor_notes" json:"doctor_notes"`
	FinalDiagnosis   string     `db:"final_diagnosis" json:"final_diagnosis"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// ClassifierResult is the unmodified output of the external classifier.
type ClassifierResult struct {
	Label      string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
	Region     string  `json:"region"`
}

type CreatePredictionRequest struct {
	ImageRef string     `json:"image_ref" binding:"required"`
	DoctorID *uuid.UUID `json:"doctor_id"`
}

type ReviewPredictionRequest struct {
	DoctorNotes    string `json:"doctor_notes" binding:"required"`
	FinalDiagnosis string `json:"final_diagnosis" binding:"required"`
}

// PredictionStats buckets prediction totals by label for the admin dashboard.
type PredictionStats struct {
	Total    int            `json:"total"`
	ByLabel  map[string]int `json:"by_label"`
	Reviewed int            `json:"reviewed"`
}
