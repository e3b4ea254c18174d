package ports

import (
	"context"

	"github.com/99minutos/ghost-admin/internal/core/domain"
)

// PostWriter is the slice of the Admin API the batch service drives.
type PostWriter interface {
	CreatePost(ctx context.Context, in domain.PostInput) (domain.Post, error)
	// UpdatePost returns nil when the post does not exist.
	UpdatePost(ctx context.Context, id string, in domain.PostUpdate) (*domain.Post, error)
	// DeletePost returns false when the post does not exist.
	DeletePost(ctx context.Context, id string) (bool, error)
	// GetPost returns nil when the post does not exist.
	GetPost(ctx context.Context, id string) (*domain.Post, error)
}

// SiteReader is what the connection check needs.
type SiteReader interface {
	GetSite(ctx context.Context) (domain.Site, error)
	GetPostsCount(ctx context.Context) (domain.PostCounts, error)
	GetLatestPost(ctx context.Context) (*domain.Post, error)
}

// StatsReader groups the dashboard reads.
type StatsReader interface {
	SiteReader
	GetMembersCount(ctx context.Context) (domain.MemberCounts, error)
	GetMRR(ctx context.Context) (domain.MRR, error)
	GetNewsletters(ctx context.Context) ([]domain.Newsletter, error)
	GetLatestEmail(ctx context.Context) (*domain.EmailStats, error)
	GetCommentsCount(ctx context.Context) (int, error)
	GetTiers(ctx context.Context) ([]domain.Tier, error)
	GetActivityPubStats(ctx context.Context) domain.ActivityPubStats
}

// AdminAPI is the full client surface.
type AdminAPI interface {
	PostWriter
	StatsReader
	CreateWebhook(ctx context.Context, in domain.WebhookInput) (domain.Webhook, error)
	DeleteWebhook(ctx context.Context, id string) error
	ValidateCredentials(ctx context.Context) bool
	Close() error
}
