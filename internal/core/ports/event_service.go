package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/99minutos/ghost-admin/internal/core/domain"
)

// WebhookEventInput is the DTO passed from the transport layer to EventService.
type WebhookEventInput struct {
	Event      string
	ResourceID string
	SignedAt   time.Time
	ReceivedAt time.Time
	Payload    json.RawMessage
}

// EventService processes incoming webhook deliveries.
type EventService interface {
	Process(ctx context.Context, event WebhookEventInput) error
	List(ctx context.Context, filter EventFilter) ([]*domain.WebhookEvent, error)
}
