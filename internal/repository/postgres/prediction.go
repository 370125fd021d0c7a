package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/pkg/errors"
)

const predictionColumns = `
	id, patient_id, doctor_id, image_ref, prediction_label, confidence,
	region, reviewed_by_doctor, doctor_notes, final_diagnosis, created_at
`

func (r *predictionRepository) Create(ctx context.Context, pred *model.Prediction) error {
	query := `
		INSERT INTO predictions (
			id, patient_id, doctor_id, image_ref, prediction_label,
			confidence, region, reviewed_by_doctor, doctor_notes,
			final_diagnosis, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		pred.ID,
		pred.PatientID,
		pred.DoctorID,
		pred.ImageRef,
		pred.PredictionLabel,
		pred.Confidence,
		pred.Region,
		pred.ReviewedByDoctor,
		pred.DoctorNotes,
		pred.FinalDiagnosis,
		pred.CreatedAt,
	)
	if err != nil {
		return translateError(err, "prediction")
	}
	return nil
}

func (r *predictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = $1`

	var pred model.Prediction
	if err := r.db.GetContext(ctx, &pred, query, id); err != nil {
		return nil, translateError(err, "prediction")
	}
	return &pred, nil
}

func (r *predictionRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE patient_id = $1 ORDER BY created_at DESC`

	var preds []*model.Prediction
	if err := r.db.SelectContext(ctx, &preds, query, patientID); err != nil {
		return nil, translateError(err, "predictions")
	}
	return preds, nil
}

func (r *predictionRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE doctor_id = $1 ORDER BY created_at DESC`

	var preds []*model.Prediction
	if err := r.db.SelectContext(ctx, &preds, query, doctorID); err != nil {
		return nil, translateError(err, "predictions")
	}
	return preds, nil
}

func (r *predictionRepository) ListAll(ctx context.Context) ([]*model.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions ORDER BY created_at DESC`

	var preds []*model.Prediction
	if err := r.db.SelectContext(ctx, &preds, query); err != nil {
		return nil, translateError(err, "predictions")
	}
	return preds, nil
}

// Review marks the prediction reviewed. The unreviewed guard lives in the
// UPDATE itself so two concurrent reviews cannot both succeed; callers
// resolve existence before calling, so zero rows means the prediction was
// already reviewed.
func (r *predictionRepository) Review(ctx context.Context, id uuid.UUID, doctorNotes, finalDiagnosis string) error {
	query := `
		UPDATE predictions
		SET reviewed_by_doctor = TRUE, doctor_notes = $2, final_diagnosis = $3
		WHERE id = $1 AND reviewed_by_doctor = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, id, doctorNotes, finalDiagnosis)
	if err != nil {
		return translateError(err, "prediction")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Internal(err)
	}
	if rows == 0 {
		return errors.Conflict("prediction is already reviewed")
	}
	return nil
}

func (r *predictionRepository) RecentForPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]model.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2`

	var preds []model.Prediction
	if err := r.db.SelectContext(ctx, &preds, query, patientID, limit); err != nil {
		return nil, translateError(err, "predictions")
	}
	return preds, nil
}

func (r *predictionRepository) CountPendingReviewForDoctor(ctx context.Context, doctorID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM predictions WHERE doctor_id = $1 AND reviewed_by_doctor = FALSE`
	if err := r.db.GetContext(ctx, &count, query, doctorID); err != nil {
		return 0, translateError(err, "predictions")
	}
	return count, nil
}

func (r *predictionRepository) Stats(ctx context.Context) (*model.PredictionStats, error) {
	query := `
		SELECT prediction_label AS label, COUNT(*) AS count
		FROM predictions
		GROUP BY prediction_label
	`

	var rows []struct {
		Label string `db:"label"`
		Count int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, translateError(err, "predictions")
	}

	stats := &model.PredictionStats{ByLabel: make(map[string]int, len(rows))}
	for _, row := range rows {
		stats.ByLabel[row.Label] = row.Count
		stats.Total += row.Count
	}

	var reviewed int
	if err := r.db.GetContext(ctx, &reviewed, `SELECT COUNT(*) FROM predictions WHERE reviewed_by_doctor = TRUE`); err != nil {
		return nil, translateError(err, "predictions")
	}
	stats.Reviewed = reviewed

	return stats, nil
}
