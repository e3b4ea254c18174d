package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/ghost-admin/internal/core/domain"
	"github.com/99minutos/ghost-admin/internal/core/ports"
)

const defaultDedupTTL = 24 * time.Hour

// DedupChecker provides idempotency checks backed by Redis.
// Keys come from domain.DedupKey.
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client. A
// ttl <= 0 uses a day.
func NewDedupChecker(client *redis.Client, ttl time.Duration) *DedupChecker {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &DedupChecker{client: client, ttl: ttl}
}

var _ ports.DedupChecker = (*DedupChecker)(nil)

// IsDuplicate reports whether this exact delivery has already been processed.
func (d *DedupChecker) IsDuplicate(ctx context.Context, event, resourceID string, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, domain.DedupKey(event, resourceID, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this delivery has been processed.
func (d *DedupChecker) Mark(ctx context.Context, event, resourceID string, ts time.Time) error {
	return d.client.Set(ctx, domain.DedupKey(event, resourceID, ts), "1", d.ttl).Err()
}

func (d *DedupChecker) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}
