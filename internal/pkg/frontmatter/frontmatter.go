// Package frontmatter splits Markdown files into a flat key/value header and
// a body.
package frontmatter

import (
	"strings"

	"github.com/99minutos/ghost-admin/internal/core/domain"
)

const delimiter = "---"

// Metadata holds the header fields. Values are plain strings; no YAML typing
// is applied.
type Metadata map[string]string

// Parse returns the header and the remaining body. Content without an opening
// or closing delimiter has no metadata and is returned whole as the body.
func Parse(content string) (Metadata, string) {
	lines := strings.Split(content, "\n")
	if !strings.HasPrefix(lines[0], delimiter) {
		return Metadata{}, content
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == delimiter {
			end = i
			break
		}
	}
	if end == -1 {
		return Metadata{}, content
	}

	meta := Metadata{}
	for _, line := range lines[1:end] {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		meta[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return meta, strings.Join(lines[end+1:], "\n")
}

// Get returns the value of key and whether it was set to a non-empty value.
func (m Metadata) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok && v != ""
}

// Tags splits the comma-separated tags field. Blank entries are dropped.
func (m Metadata) Tags() []string {
	raw, ok := m.Get("tags")
	if !ok {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ToPostInput builds a new post. The title falls back to fallbackTitle and
// the status to draft.
func ToPostInput(meta Metadata, body, fallbackTitle string) domain.PostInput {
	title, ok := meta.Get("title")
	if !ok {
		title = fallbackTitle
	}
	status := domain.PostStatusDraft
	if s, ok := meta.Get("status"); ok {
		status = domain.PostStatus(s)
	}
	return domain.PostInput{
		Title:        title,
		Content:      body,
		Status:       status,
		Slug:         meta["slug"],
		Excerpt:      meta["excerpt"],
		FeatureImage: meta["feature_image"],
		Tags:         meta.Tags(),
		PublishedAt:  meta["published_at"],
	}
}

// ToPostUpdate builds a partial update. The body always replaces the content;
// header fields are sent only when present.
func ToPostUpdate(meta Metadata, body string) domain.PostUpdate {
	u := domain.PostUpdate{
		Title:        optional(meta, "title"),
		Content:      &body,
		Slug:         optional(meta, "slug"),
		Excerpt:      optional(meta, "excerpt"),
		FeatureImage: optional(meta, "feature_image"),
		Tags:         meta.Tags(),
		PublishedAt:  optional(meta, "published_at"),
	}
	if s, ok := meta.Get("status"); ok {
		status := domain.PostStatus(s)
		u.Status = &status
	}
	return u
}

func optional(meta Metadata, key string) *string {
	v, ok := meta.Get(key)
	if !ok {
		return nil
	}
	return &v
}
