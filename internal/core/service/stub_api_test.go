package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/99minutos/ghost-admin/internal/core/domain"
)

// stubAPI is an in-memory Admin API. Calls are safe for concurrent use.
type stubAPI struct {
	mu sync.Mutex

	posts     map[string]domain.Post
	nextID    int
	created   []domain.PostInput
	updated   map[string]domain.PostUpdate
	failTitle string // CreatePost fails for this title
	failID    string // UpdatePost/DeletePost fail for this id

	site      domain.Site
	counts    domain.PostCounts
	siteErr   error
	countsErr error
	mrrErr    error
}

func newStubAPI() *stubAPI {
	return &stubAPI{
		posts:   map[string]domain.Post{},
		updated: map[string]domain.PostUpdate{},
	}
}

var errStub = domain.NewAPIError(500, "stub failure")

func (a *stubAPI) CreatePost(_ context.Context, in domain.PostInput) (domain.Post, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failTitle != "" && in.Title == a.failTitle {
		return domain.Post{}, errStub
	}
	a.nextID++
	p := domain.Post{ID: "p" + strconv.Itoa(a.nextID), Title: in.Title, Status: in.Status}
	a.posts[p.ID] = p
	a.created = append(a.created, in)
	return p, nil
}

func (a *stubAPI) UpdatePost(_ context.Context, id string, in domain.PostUpdate) (*domain.Post, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failID != "" && id == a.failID {
		return nil, errStub
	}
	p, ok := a.posts[id]
	if !ok {
		return nil, nil
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	a.posts[id] = p
	a.updated[id] = in
	return &p, nil
}

func (a *stubAPI) DeletePost(_ context.Context, id string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failID != "" && id == a.failID {
		return false, errStub
	}
	if _, ok := a.posts[id]; !ok {
		return false, nil
	}
	delete(a.posts, id)
	return true, nil
}

func (a *stubAPI) GetPost(_ context.Context, id string) (*domain.Post, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.posts[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (a *stubAPI) GetSite(context.Context) (domain.Site, error) {
	return a.site, a.siteErr
}

func (a *stubAPI) GetPostsCount(context.Context) (domain.PostCounts, error) {
	return a.counts, a.countsErr
}

func (a *stubAPI) GetLatestPost(context.Context) (*domain.Post, error) {
	return &domain.Post{ID: "latest", Title: "Latest"}, nil
}

func (a *stubAPI) GetMembersCount(context.Context) (domain.MemberCounts, error) {
	return domain.MemberCounts{Total: 50}, nil
}

func (a *stubAPI) GetMRR(context.Context) (domain.MRR, error) {
	if a.mrrErr != nil {
		return nil, a.mrrErr
	}
	return domain.MRR{"usd": 12284}, nil
}

func (a *stubAPI) GetNewsletters(context.Context) ([]domain.Newsletter, error) {
	return []domain.Newsletter{{ID: "n1", Name: "Weekly"}}, nil
}

func (a *stubAPI) GetLatestEmail(context.Context) (*domain.EmailStats, error) {
	return nil, nil
}

func (a *stubAPI) GetCommentsCount(context.Context) (int, error) {
	return 17, nil
}

func (a *stubAPI) GetTiers(context.Context) ([]domain.Tier, error) {
	return nil, nil
}

func (a *stubAPI) GetActivityPubStats(context.Context) domain.ActivityPubStats {
	return domain.ActivityPubStats{Followers: 3}
}
