package domain

import (
	"encoding/json"
	"time"
)

// PostStatus is the publication state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusScheduled PostStatus = "scheduled"
)

// Tag is a post tag as returned by the Admin API.
type Tag struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug,omitempty" yaml:"slug,omitempty"`
}

// PostEmail is the newsletter email attached to a published post.
type PostEmail struct {
	Subject        string     `json:"subject"`
	EmailCount     int        `json:"email_count"`
	DeliveredCount int        `json:"delivered_count"`
	OpenedCount    int        `json:"opened_count"`
	FailedCount    int        `json:"failed_count"`
	SubmittedAt    *time.Time `json:"submitted_at"`
}

// PostCount holds the optional count.* includes of a post.
type PostCount struct {
	Clicks *int `json:"clicks"`
}

// Post is a Ghost post.
type Post struct {
	ID            string     `json:"id" yaml:"id"`
	UUID          string     `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	Title         string     `json:"title" yaml:"title"`
	Slug          string     `json:"slug" yaml:"slug"`
	Status        PostStatus `json:"status" yaml:"status"`
	URL           string     `json:"url,omitempty" yaml:"url,omitempty"`
	Excerpt       string     `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	CustomExcerpt string     `json:"custom_excerpt,omitempty" yaml:"custom_excerpt,omitempty"`
	FeatureImage  string     `json:"feature_image,omitempty" yaml:"feature_image,omitempty"`
	Tags          []Tag      `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty" yaml:"published_at,omitempty"`
	Email         *PostEmail `json:"email,omitempty" yaml:"-"`
	Count         *PostCount `json:"count,omitempty" yaml:"-"`
}

// PostCounts is the number of posts per status.
type PostCounts struct {
	Published int `json:"published" yaml:"published"`
	Drafts    int `json:"drafts" yaml:"drafts"`
	Scheduled int `json:"scheduled" yaml:"scheduled"`
}

// PostInput carries the fields of a new post. Empty optional fields are not
// sent. Status defaults to draft.
type PostInput struct {
	Title        string
	Content      string
	Status       PostStatus
	Slug         string
	Excerpt      string
	FeatureImage string
	Tags         []string
	PublishedAt  string
}

// PostUpdate carries a partial update. Only non-nil fields are sent, so an
// explicit empty string clears the remote value.
type PostUpdate struct {
	Title        *string
	Content      *string
	Status       *PostStatus
	Slug         *string
	Excerpt      *string
	FeatureImage *string
	Tags         []string
	PublishedAt  *string
	// UpdatedAt is echoed back for Ghost's edit collision check when set.
	UpdatedAt *time.Time
}

// PostPayload is the wire shape of a post in create/update requests. Every
// field is optional and absent fields are omitted by the same encoding rule.
type PostPayload struct {
	Title         *string    `json:"title,omitempty"`
	Mobiledoc     *string    `json:"mobiledoc,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Slug          *string    `json:"slug,omitempty"`
	CustomExcerpt *string    `json:"custom_excerpt,omitempty"`
	FeatureImage  *string    `json:"feature_image,omitempty"`
	Tags          []Tag      `json:"tags,omitempty"`
	PublishedAt   *string    `json:"published_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// Payload converts a new post into its wire shape.
func (in PostInput) Payload() PostPayload {
	status := in.Status
	if status == "" {
		status = PostStatusDraft
	}
	p := PostPayload{
		Title:         &in.Title,
		Mobiledoc:     ptr(Mobiledoc(in.Content)),
		Status:        ptr(string(status)),
		Slug:          nonEmpty(in.Slug),
		CustomExcerpt: nonEmpty(in.Excerpt),
		FeatureImage:  nonEmpty(in.FeatureImage),
		PublishedAt:   nonEmpty(in.PublishedAt),
	}
	if len(in.Tags) > 0 {
		p.Tags = tagRefs(in.Tags)
	}
	return p
}

// Payload converts a partial update into its wire shape.
func (u PostUpdate) Payload() PostPayload {
	p := PostPayload{
		Title:         u.Title,
		Slug:          u.Slug,
		CustomExcerpt: u.Excerpt,
		FeatureImage:  u.FeatureImage,
		PublishedAt:   u.PublishedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	if u.Content != nil {
		p.Mobiledoc = ptr(Mobiledoc(*u.Content))
	}
	if u.Status != nil {
		p.Status = ptr(string(*u.Status))
	}
	if u.Tags != nil {
		p.Tags = tagRefs(u.Tags)
	}
	return p
}

// Mobiledoc wraps content into a single HTML card document, serialised as the
// JSON string Ghost expects in the mobiledoc field.
func Mobiledoc(content string) string {
	doc := struct {
		Version  string  `json:"version"`
		Markups  []any   `json:"markups"`
		Atoms    []any   `json:"atoms"`
		Cards    [][]any `json:"cards"`
		Sections [][]int `json:"sections"`
	}{
		Version:  "0.3.1",
		Markups:  []any{},
		Atoms:    []any{},
		Cards:    [][]any{{"html", map[string]string{"html": content}}},
		Sections: [][]int{{10, 0}},
	}
	b, _ := json.Marshal(doc)
	return string(b)
}

func tagRefs(names []string) []Tag {
	tags := make([]Tag, 0, len(names))
	for _, n := range names {
		tags = append(tags, Tag{Name: n})
	}
	return tags
}

func ptr[T any](v T) *T {
	return &v
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
