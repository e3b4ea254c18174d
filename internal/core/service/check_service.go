package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/ghost-admin/internal/core/domain"
	"github.com/99minutos/ghost-admin/internal/core/ports"
)

// CheckReport is the outcome of a connection check.
type CheckReport struct {
	Site       domain.Site       `json:"site" yaml:"site"`
	PostCounts domain.PostCounts `json:"posts" yaml:"posts"`
	LatestPost *domain.Post      `json:"latest_post" yaml:"latest_post"`
}

// RoundTripReport is the outcome of a post create/read/update smoke test.
type RoundTripReport struct {
	PostID       string `json:"post_id" yaml:"post_id"`
	Read         bool   `json:"read" yaml:"read"`
	UpdatedTitle string `json:"updated_title" yaml:"updated_title"`
}

var ErrRoundTrip = errors.New("post round trip failed")

type checkAPI interface {
	ports.SiteReader
	ports.PostWriter
}

// CheckService verifies that a site and key work end to end.
type CheckService struct {
	api checkAPI
	log zerolog.Logger
}

func NewCheckService(api checkAPI, log zerolog.Logger) *CheckService {
	return &CheckService{api: api, log: log}
}

// Check reads the site, the post counts and the latest post. The first
// failure is returned wrapped with the step that failed.
func (s *CheckService) Check(ctx context.Context) (CheckReport, error) {
	var report CheckReport

	site, err := s.api.GetSite(ctx)
	if err != nil {
		return report, fmt.Errorf("get site: %w", err)
	}
	report.Site = site

	counts, err := s.api.GetPostsCount(ctx)
	if err != nil {
		return report, fmt.Errorf("get posts count: %w", err)
	}
	report.PostCounts = counts

	latest, err := s.api.GetLatestPost(ctx)
	if err != nil {
		return report, fmt.Errorf("get latest post: %w", err)
	}
	report.LatestPost = latest

	s.log.Info().Str("site", site.Title).Int("published", counts.Published).Msg("connection check passed")
	return report, nil
}

// PostRoundTrip creates a published post, reads it back and updates it. The
// post is left on the site.
func (s *CheckService) PostRoundTrip(ctx context.Context, title, content string) (RoundTripReport, error) {
	var report RoundTripReport

	created, err := s.api.CreatePost(ctx, domain.PostInput{
		Title:   title,
		Content: content,
		Status:  domain.PostStatusPublished,
	})
	if err != nil {
		return report, fmt.Errorf("create post: %w", err)
	}
	report.PostID = created.ID

	fetched, err := s.api.GetPost(ctx, created.ID)
	if err != nil {
		return report, fmt.Errorf("read post: %w", err)
	}
	if fetched == nil {
		return report, fmt.Errorf("read post %s: %w", created.ID, ErrRoundTrip)
	}
	report.Read = true

	newTitle := title + " (Updated)"
	newContent := content + "\n\n**Updated content!**"
	updated, err := s.api.UpdatePost(ctx, created.ID, domain.PostUpdate{Title: &newTitle, Content: &newContent})
	if err != nil {
		return report, fmt.Errorf("update post: %w", err)
	}
	if updated == nil {
		return report, fmt.Errorf("update post %s: %w", created.ID, ErrRoundTrip)
	}
	report.UpdatedTitle = updated.Title

	s.log.Info().Str("post_id", created.ID).Msg("post round trip passed")
	return report, nil
}
