package ports

import (
	"context"

	"github.com/99minutos/ghost-admin/internal/core/domain"
)

// EventFilter narrows an audit trail query. Zero values match everything.
type EventFilter struct {
	Event      string
	ResourceID string
	Limit      int64
}

// EventRepository persists received webhook deliveries to the audit trail.
type EventRepository interface {
	InsertEvent(ctx context.Context, event *domain.WebhookEvent) error
	ListEvents(ctx context.Context, filter EventFilter) ([]*domain.WebhookEvent, error)
	Ping(ctx context.Context) error
}
