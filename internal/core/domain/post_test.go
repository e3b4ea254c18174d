package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payloadKeys(t *testing.T, p PostPayload) map[string]any {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestPostInput_Payload_Defaults(t *testing.T) {
	m := payloadKeys(t, PostInput{Title: "Hello", Content: "<p>x</p>"}.Payload())

	assert.Equal(t, "Hello", m["title"])
	assert.Equal(t, "draft", m["status"])
	assert.Contains(t, m, "mobiledoc")
	for _, k := range []string{"slug", "custom_excerpt", "feature_image", "tags", "published_at", "updated_at"} {
		assert.NotContains(t, m, k)
	}
}

func TestPostInput_Payload_AllFields(t *testing.T) {
	m := payloadKeys(t, PostInput{
		Title:        "Hello",
		Content:      "body",
		Status:       PostStatusScheduled,
		Slug:         "hello",
		Excerpt:      "short",
		FeatureImage: "https://img.example.com/a.png",
		Tags:         []string{"a", "b"},
		PublishedAt:  "2030-01-01T00:00:00.000Z",
	}.Payload())

	assert.Equal(t, "scheduled", m["status"])
	assert.Equal(t, "hello", m["slug"])
	assert.Equal(t, "short", m["custom_excerpt"])
	assert.Equal(t, "https://img.example.com/a.png", m["feature_image"])
	assert.Equal(t, "2030-01-01T00:00:00.000Z", m["published_at"])
	assert.Equal(t, []any{map[string]any{"name": "a"}, map[string]any{"name": "b"}}, m["tags"])
}

func TestPostUpdate_Payload_OnlySetFields(t *testing.T) {
	assert.Empty(t, payloadKeys(t, PostUpdate{}.Payload()))

	empty := ""
	status := PostStatusPublished
	updated := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	m := payloadKeys(t, PostUpdate{
		Excerpt:   &empty,
		Status:    &status,
		UpdatedAt: &updated,
	}.Payload())

	assert.Equal(t, "published", m["status"])
	assert.Equal(t, "2024-05-01T10:00:00Z", m["updated_at"])
	assert.NotContains(t, m, "title")
	assert.NotContains(t, m, "mobiledoc")
	// an explicit empty string is sent so the remote value is cleared
	assert.Equal(t, "", m["custom_excerpt"])
}

func TestPostUpdate_Payload_Content(t *testing.T) {
	content := "<h1>new</h1>"
	p := PostUpdate{Content: &content}.Payload()
	require.NotNil(t, p.Mobiledoc)
	assert.Equal(t, Mobiledoc(content), *p.Mobiledoc)
}

func TestMobiledoc(t *testing.T) {
	var doc struct {
		Version  string  `json:"version"`
		Cards    [][]any `json:"cards"`
		Sections [][]int `json:"sections"`
	}
	require.NoError(t, json.Unmarshal([]byte(Mobiledoc(`<p>"quoted" & <b>bold</b></p>`)), &doc))

	assert.Equal(t, "0.3.1", doc.Version)
	require.Len(t, doc.Cards, 1)
	assert.Equal(t, "html", doc.Cards[0][0])
	assert.Equal(t, map[string]any{"html": `<p>"quoted" & <b>bold</b></p>`}, doc.Cards[0][1])
	assert.Equal(t, [][]int{{10, 0}}, doc.Sections)
}

func TestBuildEmailStats(t *testing.T) {
	assert.Nil(t, BuildEmailStats(Post{Title: "no email"}))

	var empty Post
	require.NoError(t, json.Unmarshal([]byte(`{"title":"empty","email":{}}`), &empty))
	assert.Nil(t, BuildEmailStats(empty))

	clicks := 1
	stats := BuildEmailStats(Post{
		Title: "Issue",
		Slug:  "issue",
		Email: &PostEmail{Subject: "s", EmailCount: 4, DeliveredCount: 4, OpenedCount: 2, FailedCount: 1},
		Count: &PostCount{Clicks: &clicks},
	})
	require.NotNil(t, stats)
	assert.Equal(t, 50, stats.OpenRate)
	assert.Equal(t, 25, stats.ClickRate)
	assert.Equal(t, 1, stats.ClickedCount)
	assert.Equal(t, 1, stats.FailedCount)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, percent(5, 0))
	assert.Equal(t, 12, percent(1, 8))
	assert.Equal(t, 38, percent(3, 8))
	assert.Equal(t, 100, percent(3, 3))
	assert.Equal(t, 33, percent(1, 3))
}
