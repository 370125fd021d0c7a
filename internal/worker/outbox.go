package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/neuroscan/clinic-api/internal/email"
	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/internal/repository"
	"github.com/neuroscan/clinic-api/pkg/logger"
	"github.com/neuroscan/clinic-api/pkg/messaging"
	"github.com/neuroscan/clinic-api/pkg/metrics"
)

const eventsChannel = "clinic.events"

// OutboxProcessor drains pending outbox events: each event is published on
// the broker and, where a recipient exists, mailed out. An event is marked
// processed only after both deliveries.
type OutboxProcessor struct {
	outbox  repository.OutboxRepository
	users   repository.UserRepository
	broker  messaging.Broker
	sender  email.Sender
	logger  *logger.Logger
	metrics *metrics.Metrics

	pollInterval time.Duration
	batchSize    int
}

func NewOutboxProcessor(
	outbox repository.OutboxRepository,
	users repository.UserRepository,
	broker messaging.Broker,
	sender email.Sender,
	log *logger.Logger,
	m *metrics.Metrics,
	pollInterval time.Duration,
	batchSize int,
) *OutboxProcessor {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &OutboxProcessor{
		outbox:       outbox,
		users:        users,
		broker:       broker,
		sender:       sender,
		logger:       log,
		metrics:      m,
		pollInterval: pollInterval,
		batchSize:    batchSize,
	}
}

// Run polls until the context is cancelled.
func (p *OutboxProcessor) Run(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor stopping")
			return
		case <-ticker.C:
			if err := p.ProcessBatch(ctx); err != nil {
				p.logger.Error(err, "outbox batch failed")
			}
		}
	}
}

// ProcessBatch handles one poll cycle. Per-event failures are recorded on
// the event and do not abort the batch.
func (p *OutboxProcessor) ProcessBatch(ctx context.Context) error {
	events, err := p.outbox.GetPendingEvents(ctx, p.batchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		start := time.Now()
		if err := p.processEvent(ctx, event); err != nil {
			p.metrics.OutboxEventsFailed.Inc()
			p.logger.Error(err, "failed to process outbox event", "event_id", event.ID, "event_type", event.EventType)
			if markErr := p.outbox.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				p.logger.Error(markErr, "failed to mark outbox event failed", "event_id", event.ID)
			}
			continue
		}

		p.metrics.OutboxEventsProcessed.Inc()
		p.metrics.OutboxProcessingLatency.Observe(time.Since(start).Seconds())
		if err := p.outbox.MarkProcessed(ctx, event.ID); err != nil {
			p.logger.Error(err, "failed to mark outbox event processed", "event_id", event.ID)
		}
	}
	return nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) error {
	if err := p.broker.Publish(ctx, eventsChannel, messaging.Message{
		Type:    event.EventType,
		Payload: json.RawMessage(event.Payload),
	}); err != nil {
		return err
	}
	return p.notify(ctx, event)
}

// notify emails the party affected by the event. A missing or deactivated
// recipient is logged, not retried.
func (p *OutboxProcessor) notify(ctx context.Context, event *model.OutboxEvent) error {
	switch event.EventType {
	case model.EventDoctorApproved:
		var payload struct {
			DoctorID uuid.UUID `json:"doctor_id"`
		}
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return err
		}
		doctor, err := p.users.GetByID(ctx, payload.DoctorID)
		if err != nil {
			p.logger.Warn("doctor for approval notice not found", "doctor_id", payload.DoctorID)
			return nil
		}
		subject, body := email.DoctorApprovedMessage()
		return p.sender.Send(doctor.Email, subject, body)

	default:
		var payload model.AppointmentEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return err
		}
		subject, body := email.AppointmentMessage(event.EventType, payload)
		if subject == "" {
			return nil
		}
		patient, err := p.users.GetByID(ctx, payload.PatientID)
		if err != nil {
			p.logger.Warn("patient for notification not found", "patient_id", payload.PatientID)
			return nil
		}
		return p.sender.Send(patient.Email, subject, body)
	}
}
