package ghost

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/99minutos/ghost-admin/internal/core/domain"
)

const activityPubPrefix = "/.ghost/activitypub/"

// GetActivityPubStats reads follower and following totals from the public
// ActivityPub collections. Each side fails independently to zero; the call
// itself never fails.
func (c *Client) GetActivityPubStats(ctx context.Context) domain.ActivityPubStats {
	var stats domain.ActivityPubStats

	var g errgroup.Group
	g.Go(func() error {
		stats.Followers = c.collectionTotal(ctx, "followers")
		return nil
	})
	g.Go(func() error {
		stats.Following = c.collectionTotal(ctx, "following")
		return nil
	})
	_ = g.Wait()

	return stats
}

func (c *Client) collectionTotal(ctx context.Context, collection string) int {
	n, err := c.fetchCollectionTotal(ctx, collection)
	if err != nil {
		c.log.Debug().Err(err).Str("collection", collection).Msg("activitypub collection not available")
		return 0
	}
	return n
}

func (c *Client) fetchCollectionTotal(ctx context.Context, collection string) (int, error) {
	target := c.baseURL + activityPubPrefix + collection + "/index"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/activity+json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.session().Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("status %d", resp.StatusCode)
	}

	var body struct {
		TotalItems int `json:"totalItems"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode collection: %w", err)
	}
	return body.TotalItems, nil
}
