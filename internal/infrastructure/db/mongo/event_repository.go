package mongo

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/ghost-admin/internal/core/domain"
	"github.com/99minutos/ghost-admin/internal/core/ports"
)

const collectionWebhookEvents = "webhook_events"

// eventDocument is the stored shape of a webhook delivery. The payload is
// kept as a BSON document when it parses, otherwise as the raw string.
type eventDocument struct {
	ID         string    `bson:"_id"`
	Event      string    `bson:"event"`
	Resource   string    `bson:"resource"`
	ResourceID string    `bson:"resource_id"`
	SignedAt   time.Time `bson:"signed_at"`
	ReceivedAt time.Time `bson:"received_at"`
	Payload    any       `bson:"payload,omitempty"`
}

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionWebhookEvents)}
}

var _ ports.EventRepository = (*EventRepository)(nil)

// InsertEvent persists a delivery to the webhook_events audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.WebhookEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, toDocument(event))
	return err
}

// ListEvents returns matching deliveries, most recently received first.
func (r *EventRepository) ListEvents(ctx context.Context, f ports.EventFilter) ([]*domain.WebhookEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Event != "" {
		filter["event"] = f.Event
	}
	if f.ResourceID != "" {
		filter["resource_id"] = f.ResourceID
	}
	opts := options.Find().SetSort(bson.D{{Key: "received_at", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []eventDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	events := make([]*domain.WebhookEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, fromDocument(d))
	}
	return events, nil
}

// Ping checks the connection backing the collection.
func (r *EventRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.Database().Client().Ping(ctx, nil)
}

// EnsureIndexes creates the lookup indexes on the audit collection.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "resource_id", Value: 1}, {Key: "received_at", Value: -1}}},
		{Keys: bson.D{{Key: "event", Value: 1}}},
		{Keys: bson.D{{Key: "received_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func toDocument(e *domain.WebhookEvent) eventDocument {
	doc := eventDocument{
		ID:         e.ID,
		Event:      e.Event,
		Resource:   e.Resource,
		ResourceID: e.ResourceID,
		SignedAt:   e.SignedAt.UTC(),
		ReceivedAt: e.ReceivedAt.UTC(),
	}
	if len(e.Payload) > 0 {
		var payload bson.M
		if err := bson.UnmarshalExtJSON(e.Payload, false, &payload); err == nil {
			doc.Payload = payload
		} else {
			doc.Payload = string(e.Payload)
		}
	}
	return doc
}

func fromDocument(d eventDocument) *domain.WebhookEvent {
	e := &domain.WebhookEvent{
		ID:         d.ID,
		Event:      d.Event,
		Resource:   d.Resource,
		ResourceID: d.ResourceID,
		SignedAt:   d.SignedAt,
		ReceivedAt: d.ReceivedAt,
	}
	switch p := d.Payload.(type) {
	case string:
		if json.Valid([]byte(p)) {
			e.Payload = json.RawMessage(p)
		} else {
			e.Payload, _ = json.Marshal(p)
		}
	case nil:
	default:
		if raw, err := bson.MarshalExtJSON(p, false, false); err == nil {
			e.Payload = raw
		}
	}
	return e
}
