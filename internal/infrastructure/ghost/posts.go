package ghost

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/99minutos/ghost-admin/internal/core/domain"
)

const postsPath = adminPrefix + "/posts/"

type pagination struct {
	Total int `json:"total"`
}

type listMeta struct {
	Pagination pagination `json:"pagination"`
}

type postsEnvelope struct {
	Posts []domain.Post `json:"posts"`
	Meta  listMeta      `json:"meta"`
}

type postsRequest struct {
	Posts []domain.PostPayload `json:"posts"`
}

func postPath(id string) string {
	return postsPath + url.PathEscape(id) + "/"
}

// GetPostsCount fetches published, draft and scheduled totals concurrently.
// Any failing request fails the whole call.
func (c *Client) GetPostsCount(ctx context.Context) (domain.PostCounts, error) {
	statuses := []domain.PostStatus{
		domain.PostStatusPublished,
		domain.PostStatusDraft,
		domain.PostStatusScheduled,
	}
	totals := make([]int, len(statuses))

	var g errgroup.Group
	for i, status := range statuses {
		i, status := i, status
		g.Go(func() error {
			var env postsEnvelope
			q := url.Values{"limit": {"1"}, "filter": {"status:" + string(status)}}
			if err := c.request(ctx, http.MethodGet, postsPath, q, nil, &env); err != nil {
				return err
			}
			totals[i] = env.Meta.Pagination.Total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.PostCounts{}, err
	}

	return domain.PostCounts{
		Published: totals[0],
		Drafts:    totals[1],
		Scheduled: totals[2],
	}, nil
}

// GetLatestPost returns the most recently published post, or nil.
func (c *Client) GetLatestPost(ctx context.Context) (*domain.Post, error) {
	var env postsEnvelope
	q := url.Values{
		"limit":  {"1"},
		"order":  {"published_at desc"},
		"filter": {"status:published"},
	}
	if err := c.request(ctx, http.MethodGet, postsPath, q, nil, &env); err != nil {
		return nil, err
	}
	return first(env.Posts), nil
}

// GetPost returns the post with the given id, or nil when it does not exist.
func (c *Client) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	var env postsEnvelope
	if err := c.request(ctx, http.MethodGet, postPath(id), nil, nil, &env); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return first(env.Posts), nil
}

// CreatePost creates a post. The content is sent as a single HTML card.
func (c *Client) CreatePost(ctx context.Context, in domain.PostInput) (domain.Post, error) {
	var env postsEnvelope
	body := postsRequest{Posts: []domain.PostPayload{in.Payload()}}
	if err := c.request(ctx, http.MethodPost, postsPath, nil, body, &env); err != nil {
		return domain.Post{}, err
	}
	if p := first(env.Posts); p != nil {
		return *p, nil
	}
	return domain.Post{}, nil
}

// UpdatePost applies a partial update. It returns nil when the post does not
// exist.
func (c *Client) UpdatePost(ctx context.Context, id string, in domain.PostUpdate) (*domain.Post, error) {
	var env postsEnvelope
	body := postsRequest{Posts: []domain.PostPayload{in.Payload()}}
	if err := c.request(ctx, http.MethodPut, postPath(id), nil, body, &env); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return first(env.Posts), nil
}

// DeletePost reports false instead of failing when the post does not exist.
func (c *Client) DeletePost(ctx context.Context, id string) (bool, error) {
	if err := c.request(ctx, http.MethodDelete, postPath(id), nil, nil, nil); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func first[T any](items []T) *T {
	if len(items) == 0 {
		return nil
	}
	return &items[0]
}
