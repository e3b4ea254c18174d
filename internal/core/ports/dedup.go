package ports

import (
	"context"
	"time"
)

// DedupChecker abstracts the idempotency store (redis or in-memory).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, event, resourceID string, ts time.Time) (bool, error)
	Mark(ctx context.Context, event, resourceID string, ts time.Time) error
	Ping(ctx context.Context) error
}
