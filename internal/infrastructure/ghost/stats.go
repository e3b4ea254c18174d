package ghost

import (
	"context"
	"net/http"
	"net/url"

	"github.com/99minutos/ghost-admin/internal/core/domain"
)

const (
	sitePath         = adminPrefix + "/site/"
	memberCountPath  = adminPrefix + "/members/stats/count/"
	mrrPath          = adminPrefix + "/members/stats/mrr/"
	newslettersPath  = adminPrefix + "/newsletters/"
	commentsPath     = adminPrefix + "/comments/"
	tiersPath        = adminPrefix + "/tiers/"
	latestEmailLimit = "10"
)

// GetSite returns the site object, or a zero Site when it is absent.
func (c *Client) GetSite(ctx context.Context) (domain.Site, error) {
	var env struct {
		Site *domain.Site `json:"site"`
	}
	if err := c.request(ctx, http.MethodGet, sitePath, nil, nil, &env); err != nil {
		return domain.Site{}, err
	}
	if env.Site == nil {
		return domain.Site{}, nil
	}
	return *env.Site, nil
}

// ValidateCredentials reports whether the site endpoint accepts the key. The
// cause of a failure is not distinguished.
func (c *Client) ValidateCredentials(ctx context.Context) bool {
	if _, err := c.GetSite(ctx); err != nil {
		c.log.Debug().Err(err).Msg("credential validation failed")
		return false
	}
	return true
}

// GetMembersCount returns the total and the breakdown from the last history
// entry; the breakdown is zero when there is no history.
func (c *Client) GetMembersCount(ctx context.Context) (domain.MemberCounts, error) {
	var env struct {
		Total int `json:"total"`
		Data  []struct {
			Paid   int `json:"paid"`
			Free   int `json:"free"`
			Comped int `json:"comped"`
		} `json:"data"`
	}
	if err := c.request(ctx, http.MethodGet, memberCountPath, nil, nil, &env); err != nil {
		return domain.MemberCounts{}, err
	}

	counts := domain.MemberCounts{Total: env.Total}
	if n := len(env.Data); n > 0 {
		latest := env.Data[n-1]
		counts.Paid, counts.Free, counts.Comped = latest.Paid, latest.Free, latest.Comped
	}
	return counts, nil
}

// GetMRR returns the current MRR per currency: the last point of each series.
// Currencies with an empty series are left out.
func (c *Client) GetMRR(ctx context.Context) (domain.MRR, error) {
	var env struct {
		Data []struct {
			Currency string `json:"currency"`
			Data     []struct {
				Value int64 `json:"value"`
			} `json:"data"`
		} `json:"data"`
	}
	if err := c.request(ctx, http.MethodGet, mrrPath, nil, nil, &env); err != nil {
		return nil, err
	}

	mrr := domain.MRR{}
	for _, series := range env.Data {
		n := len(series.Data)
		if n == 0 {
			continue
		}
		currency := series.Currency
		if currency == "" {
			currency = "usd"
		}
		mrr[currency] = series.Data[n-1].Value
	}
	return mrr, nil
}

// GetNewsletters lists newsletters with their member counts.
func (c *Client) GetNewsletters(ctx context.Context) ([]domain.Newsletter, error) {
	var env struct {
		Newsletters []domain.Newsletter `json:"newsletters"`
	}
	q := url.Values{"include": {"count.members"}}
	if err := c.request(ctx, http.MethodGet, newslettersPath, q, nil, &env); err != nil {
		return nil, err
	}
	return env.Newsletters, nil
}

// GetLatestEmail scans the ten most recent published posts in order and
// returns the stats of the first one that was sent by email, or nil.
func (c *Client) GetLatestEmail(ctx context.Context) (*domain.EmailStats, error) {
	var env postsEnvelope
	q := url.Values{
		"limit":   {latestEmailLimit},
		"order":   {"published_at desc"},
		"filter":  {"status:published"},
		"include": {"email,count.clicks"},
	}
	if err := c.request(ctx, http.MethodGet, postsPath, q, nil, &env); err != nil {
		return nil, err
	}
	for _, p := range env.Posts {
		if stats := domain.BuildEmailStats(p); stats != nil {
			return stats, nil
		}
	}
	return nil, nil
}

// GetCommentsCount returns the total number of comments.
func (c *Client) GetCommentsCount(ctx context.Context) (int, error) {
	var env struct {
		Meta listMeta `json:"meta"`
	}
	q := url.Values{"limit": {"1"}}
	if err := c.request(ctx, http.MethodGet, commentsPath, q, nil, &env); err != nil {
		return 0, err
	}
	return env.Meta.Pagination.Total, nil
}

func (c *Client) GetTiers(ctx context.Context) ([]domain.Tier, error) {
	var env struct {
		Tiers []domain.Tier `json:"tiers"`
	}
	if err := c.request(ctx, http.MethodGet, tiersPath, nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Tiers, nil
}
