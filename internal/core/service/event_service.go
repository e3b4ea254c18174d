package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/ghost-admin/internal/core/domain"
	"github.com/99minutos/ghost-admin/internal/core/ports"
	"github.com/99minutos/ghost-admin/internal/metrics"
)

type eventService struct {
	eventRepo ports.EventRepository
	dedup     ports.DedupChecker
	log       zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(eventRepo ports.EventRepository, dedup ports.DedupChecker, log zerolog.Logger) ports.EventService {
	return &eventService{
		eventRepo: eventRepo,
		dedup:     dedup,
		log:       log,
	}
}

// Process deduplicates and records a single webhook delivery.
func (s *eventService) Process(ctx context.Context, in ports.WebhookEventInput) error {
	start := time.Now()
	err := s.process(ctx, in)

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.EventProcessingDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	return err
}

func (s *eventService) process(ctx context.Context, in ports.WebhookEventInput) error {
	if !domain.IsWebhookEvent(in.Event) {
		return fmt.Errorf("process event %q: %w", in.Event, domain.ErrUnknownEvent)
	}

	// Idempotency check; duplicates are skipped silently.
	isDup, err := s.dedup.IsDuplicate(ctx, in.Event, in.ResourceID, in.SignedAt)
	switch {
	case err != nil:
		metrics.EventsDedupTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Str("resource_id", in.ResourceID).Msg("dedup check failed, processing anyway")
	case isDup:
		metrics.EventsDedupTotal.WithLabelValues("duplicate").Inc()
		s.log.Debug().Str("event", in.Event).Str("resource_id", in.ResourceID).Msg("duplicate event skipped")
		return nil
	default:
		metrics.EventsDedupTotal.WithLabelValues("new").Inc()
	}

	// Mark before writing so a redelivery during the insert is skipped.
	if markErr := s.dedup.Mark(ctx, in.Event, in.ResourceID, in.SignedAt); markErr != nil {
		s.log.Warn().Err(markErr).Str("resource_id", in.ResourceID).Msg("failed to set dedup key")
	}

	receivedAt := in.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}
	audit := &domain.WebhookEvent{
		ID:         uuid.NewString(),
		Event:      in.Event,
		Resource:   domain.ResourceKind(in.Event),
		ResourceID: in.ResourceID,
		SignedAt:   in.SignedAt,
		ReceivedAt: receivedAt,
		Payload:    in.Payload,
	}
	// Audit trail failures are not fatal.
	if err := s.eventRepo.InsertEvent(ctx, audit); err != nil {
		s.log.Warn().Err(err).Str("resource_id", in.ResourceID).Msg("failed to insert audit event")
	}

	metrics.EventsProcessedTotal.WithLabelValues(in.Event).Inc()
	s.log.Info().
		Str("event", in.Event).
		Str("resource_id", in.ResourceID).
		Str("audit_id", audit.ID).
		Msg("event processed")

	return nil
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// List returns audit trail entries, newest first.
func (s *eventService) List(ctx context.Context, filter ports.EventFilter) ([]*domain.WebhookEvent, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultListLimit
	case filter.Limit > maxListLimit:
		filter.Limit = maxListLimit
	}
	events, err := s.eventRepo.ListEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
