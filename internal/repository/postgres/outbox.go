package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/pkg/errors"
)

func (r *outboxRepository) CreateEvent(ctx context.Context, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Internal(err)
	}

	query := `
		INSERT INTO outbox_events (id, event_type, payload, status, retry_count, created_at)
		VALUES ($1, $2, $3, $4, 0, $5)
	`

	_, err = r.db.ExecContext(ctx, query,
		uuid.New(),
		eventType,
		body,
		model.OutboxStatusPending,
		time.Now().UTC(),
	)
	if err != nil {
		return translateError(err, "outbox event")
	}
	return nil
}

// GetPendingEvents reads a batch of pending events, oldest first. SKIP
// LOCKED keeps overlapping polls from blocking on each other's rows; the
// locks last only for the statement, so delivery stays at-least-once and
// handlers downstream must tolerate a duplicate.
func (r *outboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		SELECT id, event_type, payload, status, error_message, retry_count, created_at, processed_at
		FROM outbox_events
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`

	var events []*model.OutboxEvent
	if err := r.db.SelectContext(ctx, &events, query, model.OutboxStatusPending, limit); err != nil {
		return nil, translateError(err, "outbox events")
	}
	return events, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE outbox_events SET status = $2, processed_at = $3 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, model.OutboxStatusProcessed, time.Now().UTC())
	if err != nil {
		return translateError(err, "outbox event")
	}
	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	query := `
		UPDATE outbox_events
		SET status = $2, error_message = $3, retry_count = retry_count + 1
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, model.OutboxStatusFailed, errMsg)
	if err != nil {
		return translateError(err, "outbox event")
	}
	return nil
}
