package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/ghost-admin/internal/core/domain"
	"github.com/99minutos/ghost-admin/internal/core/ports"
)

// Dashboard aggregates the site statistics shown by the stats command.
type Dashboard struct {
	Site        domain.Site             `json:"site" yaml:"site"`
	Posts       domain.PostCounts       `json:"posts" yaml:"posts"`
	Members     domain.MemberCounts     `json:"members" yaml:"members"`
	MRR         domain.MRR              `json:"mrr" yaml:"mrr"`
	Newsletters []domain.Newsletter     `json:"newsletters" yaml:"newsletters"`
	LatestEmail *domain.EmailStats      `json:"latest_email" yaml:"latest_email"`
	Comments    int                     `json:"comments" yaml:"comments"`
	Tiers       []domain.Tier           `json:"tiers" yaml:"tiers"`
	SocialWeb   domain.ActivityPubStats `json:"social_web" yaml:"social_web"`
}

// DashboardService collects a Dashboard.
type DashboardService struct {
	api ports.StatsReader
	log zerolog.Logger
}

func NewDashboardService(api ports.StatsReader, log zerolog.Logger) *DashboardService {
	return &DashboardService{api: api, log: log}
}

// Collect reads every statistic in sequence and stops at the first failure.
// Social web counts never fail.
func (s *DashboardService) Collect(ctx context.Context) (Dashboard, error) {
	var (
		d   Dashboard
		err error
	)

	if d.Site, err = s.api.GetSite(ctx); err != nil {
		return d, fmt.Errorf("get site: %w", err)
	}
	if d.Posts, err = s.api.GetPostsCount(ctx); err != nil {
		return d, fmt.Errorf("get posts count: %w", err)
	}
	if d.Members, err = s.api.GetMembersCount(ctx); err != nil {
		return d, fmt.Errorf("get members count: %w", err)
	}
	if d.MRR, err = s.api.GetMRR(ctx); err != nil {
		return d, fmt.Errorf("get mrr: %w", err)
	}
	if d.Newsletters, err = s.api.GetNewsletters(ctx); err != nil {
		return d, fmt.Errorf("get newsletters: %w", err)
	}
	if d.LatestEmail, err = s.api.GetLatestEmail(ctx); err != nil {
		return d, fmt.Errorf("get latest email: %w", err)
	}
	if d.Comments, err = s.api.GetCommentsCount(ctx); err != nil {
		return d, fmt.Errorf("get comments count: %w", err)
	}
	if d.Tiers, err = s.api.GetTiers(ctx); err != nil {
		return d, fmt.Errorf("get tiers: %w", err)
	}
	d.SocialWeb = s.api.GetActivityPubStats(ctx)

	s.log.Debug().Str("site", d.Site.Title).Int("members", d.Members.Total).Msg("dashboard collected")
	return d, nil
}
