// Package memory holds in-process stores used when no external backend is
// configured.
package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/99minutos/ghost-admin/internal/core/domain"
	"github.com/99minutos/ghost-admin/internal/core/ports"
)

const defaultTTL = 24 * time.Hour

// DedupChecker keeps processed delivery keys in an expiring in-memory cache.
// State is lost on restart and is not shared between replicas.
type DedupChecker struct {
	cache *cache.Cache
}

// NewDedupChecker returns a checker whose keys expire after ttl (a day when
// ttl <= 0).
func NewDedupChecker(ttl time.Duration) *DedupChecker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &DedupChecker{cache: cache.New(ttl, ttl/2)}
}

var _ ports.DedupChecker = (*DedupChecker)(nil)

func (d *DedupChecker) IsDuplicate(_ context.Context, event, resourceID string, ts time.Time) (bool, error) {
	_, found := d.cache.Get(domain.DedupKey(event, resourceID, ts))
	return found, nil
}

func (d *DedupChecker) Mark(_ context.Context, event, resourceID string, ts time.Time) error {
	d.cache.SetDefault(domain.DedupKey(event, resourceID, ts), struct{}{})
	return nil
}

// Ping always succeeds.
func (d *DedupChecker) Ping(context.Context) error {
	return nil
}
