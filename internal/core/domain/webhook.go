package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Webhook is a webhook registered in Ghost.
type Webhook struct {
	ID            string     `json:"id" yaml:"id"`
	Event         string     `json:"event" yaml:"event"`
	TargetURL     string     `json:"target_url" yaml:"target_url"`
	Name          string     `json:"name,omitempty" yaml:"name,omitempty"`
	Secret        string     `json:"secret,omitempty" yaml:"-"`
	APIVersion    string     `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	IntegrationID string     `json:"integration_id,omitempty" yaml:"integration_id,omitempty"`
	Status        string     `json:"status,omitempty" yaml:"status,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// WebhookInput describes a webhook to create. Ghost attaches it to the
// integration owning the API key.
type WebhookInput struct {
	Event     string `json:"event"`
	TargetURL string `json:"target_url"`
	Name      string `json:"name,omitempty"`
	Secret    string `json:"secret,omitempty"`
}

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrUnknownEvent     = errors.New("unknown webhook event")
)

// WebhookEvents lists the events Ghost can deliver.
var WebhookEvents = []string{
	"site.changed",
	"post.added", "post.deleted", "post.edited", "post.published",
	"post.published.edited", "post.unpublished", "post.scheduled",
	"post.unscheduled", "post.rescheduled",
	"page.added", "page.deleted", "page.edited", "page.published",
	"page.published.edited", "page.unpublished", "page.scheduled",
	"page.unscheduled", "page.rescheduled",
	"tag.added", "tag.edited", "tag.deleted",
	"post.tag.attached", "post.tag.detached",
	"page.tag.attached", "page.tag.detached",
	"member.added", "member.edited", "member.deleted",
}

// IsWebhookEvent reports whether name is a known Ghost webhook event.
func IsWebhookEvent(name string) bool {
	for _, e := range WebhookEvents {
		if e == name {
			return true
		}
	}
	return false
}

// ResourceKind returns the resource part of an event name ("post" for
// "post.published", "site" for "site.changed").
func ResourceKind(event string) string {
	kind, _, _ := strings.Cut(event, ".")
	return kind
}

// WebhookEvent is a delivery received from Ghost.
type WebhookEvent struct {
	ID         string
	Event      string
	Resource   string
	ResourceID string
	SignedAt   time.Time
	ReceivedAt time.Time
	Payload    json.RawMessage
}

// DedupKey identifies one delivery. Ghost signs with millisecond timestamps
// so the key keeps millisecond precision.
func DedupKey(event, resourceID string, signedAt time.Time) string {
	return fmt.Sprintf("dedup:%s:%s:%d", event, resourceID, signedAt.UnixMilli())
}
