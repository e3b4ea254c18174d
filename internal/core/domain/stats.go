package domain

import (
	"math"
	"time"
)

// Site is the public site information returned by the site endpoint.
type Site struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	URL         string `json:"url" yaml:"url"`
	Logo        string `json:"logo,omitempty" yaml:"logo,omitempty"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
}

// MemberCounts is the latest member breakdown.
type MemberCounts struct {
	Total  int `json:"total" yaml:"total"`
	Paid   int `json:"paid" yaml:"paid"`
	Free   int `json:"free" yaml:"free"`
	Comped int `json:"comped" yaml:"comped"`
}

// MRR maps a lower-case currency code to monthly recurring revenue in cents.
type MRR map[string]int64

// Newsletter is a Ghost newsletter with its member count.
type Newsletter struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Status      string `json:"status" yaml:"status"`
	Count       struct {
		Members int `json:"members" yaml:"members"`
	} `json:"count" yaml:"count"`
}

// Tier is a membership tier.
type Tier struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Slug         string `json:"slug" yaml:"slug"`
	Type         string `json:"type" yaml:"type"`
	Active       bool   `json:"active" yaml:"active"`
	Visibility   string `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	MonthlyPrice *int   `json:"monthly_price,omitempty" yaml:"monthly_price,omitempty"`
	YearlyPrice  *int   `json:"yearly_price,omitempty" yaml:"yearly_price,omitempty"`
	Currency     string `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// ActivityPubStats are the social web follower counts. Unavailable endpoints
// count as zero.
type ActivityPubStats struct {
	Followers int `json:"followers" yaml:"followers"`
	Following int `json:"following" yaml:"following"`
}

// EmailStats summarises the newsletter email sent for a post.
type EmailStats struct {
	Title          string     `json:"title" yaml:"title"`
	Slug           string     `json:"slug" yaml:"slug"`
	PublishedAt    *time.Time `json:"published_at" yaml:"published_at"`
	Subject        string     `json:"subject" yaml:"subject"`
	SubmittedAt    *time.Time `json:"submitted_at" yaml:"submitted_at"`
	EmailCount     int        `json:"email_count" yaml:"email_count"`
	DeliveredCount int        `json:"delivered_count" yaml:"delivered_count"`
	OpenedCount    int        `json:"opened_count" yaml:"opened_count"`
	ClickedCount   int        `json:"clicked_count" yaml:"clicked_count"`
	FailedCount    int        `json:"failed_count" yaml:"failed_count"`
	OpenRate       int        `json:"open_rate" yaml:"open_rate"`
	ClickRate      int        `json:"click_rate" yaml:"click_rate"`
}

// BuildEmailStats reshapes a post carrying an email record. It returns nil
// when the post has no email or an empty one.
func BuildEmailStats(p Post) *EmailStats {
	if p.Email == nil || *p.Email == (PostEmail{}) {
		return nil
	}
	clicked := 0
	if p.Count != nil && p.Count.Clicks != nil {
		clicked = *p.Count.Clicks
	}
	e := p.Email
	return &EmailStats{
		Title:          p.Title,
		Slug:           p.Slug,
		PublishedAt:    p.PublishedAt,
		Subject:        e.Subject,
		SubmittedAt:    e.SubmittedAt,
		EmailCount:     e.EmailCount,
		DeliveredCount: e.DeliveredCount,
		OpenedCount:    e.OpenedCount,
		ClickedCount:   clicked,
		FailedCount:    e.FailedCount,
		OpenRate:       percent(e.OpenedCount, e.EmailCount),
		ClickRate:      percent(clicked, e.EmailCount),
	}
}

// percent rounds half to even; zero when nothing was sent.
func percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.RoundToEven(float64(n) / float64(total) * 100))
}
