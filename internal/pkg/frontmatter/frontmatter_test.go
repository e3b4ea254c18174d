package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/ghost-admin/internal/core/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantMeta Metadata
		wantBody string
	}{
		{
			name:     "header and body",
			content:  "---\ntitle: Hello\nstatus: published\n---\n# Heading\nText",
			wantMeta: Metadata{"title": "Hello", "status": "published"},
			wantBody: "# Heading\nText",
		},
		{
			name:     "no header",
			content:  "# Just markdown",
			wantMeta: Metadata{},
			wantBody: "# Just markdown",
		},
		{
			name:     "unterminated header",
			content:  "---\ntitle: Hello\nbody",
			wantMeta: Metadata{},
			wantBody: "---\ntitle: Hello\nbody",
		},
		{
			name:     "value with colon keeps remainder",
			content:  "---\nfeature_image: https://img.example.com/a.png\n---\n",
			wantMeta: Metadata{"feature_image": "https://img.example.com/a.png"},
			wantBody: "",
		},
		{
			name:     "lines without colon are ignored and keys trimmed",
			content:  "---\n  slug :  my-post  \njust words\n---\nbody",
			wantMeta: Metadata{"slug": "my-post"},
			wantBody: "body",
		},
		{
			name:     "opening line only needs the prefix",
			content:  "--- yaml\ntitle: X\n---\nbody",
			wantMeta: Metadata{"title": "X"},
			wantBody: "body",
		},
		{
			name:     "closing delimiter must match exactly",
			content:  "---\ntitle: X\n--- \n---\nbody",
			wantMeta: Metadata{"title": "X"},
			wantBody: "body",
		},
		{
			name:     "empty content",
			content:  "",
			wantMeta: Metadata{},
			wantBody: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body := Parse(tt.content)
			assert.Equal(t, tt.wantMeta, meta)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestMetadata_Tags(t *testing.T) {
	assert.Nil(t, Metadata{}.Tags())
	assert.Nil(t, Metadata{"tags": ""}.Tags())
	assert.Equal(t, []string{"news", "go"}, Metadata{"tags": "news, go,, "}.Tags())
}

func TestToPostInput(t *testing.T) {
	in := ToPostInput(Metadata{"tags": "a,b", "slug": "s"}, "body", "file-stem")

	assert.Equal(t, "file-stem", in.Title)
	assert.Equal(t, domain.PostStatusDraft, in.Status)
	assert.Equal(t, "body", in.Content)
	assert.Equal(t, "s", in.Slug)
	assert.Equal(t, []string{"a", "b"}, in.Tags)
	assert.Empty(t, in.Excerpt)

	in = ToPostInput(Metadata{"title": "Real", "status": "published"}, "", "stem")
	assert.Equal(t, "Real", in.Title)
	assert.Equal(t, domain.PostStatusPublished, in.Status)
}

func TestToPostUpdate(t *testing.T) {
	u := ToPostUpdate(Metadata{"title": "New", "status": "scheduled", "excerpt": ""}, "text")

	require.NotNil(t, u.Title)
	assert.Equal(t, "New", *u.Title)
	require.NotNil(t, u.Status)
	assert.Equal(t, domain.PostStatusScheduled, *u.Status)
	require.NotNil(t, u.Content)
	assert.Equal(t, "text", *u.Content)
	assert.Nil(t, u.Excerpt)
	assert.Nil(t, u.Slug)
	assert.Nil(t, u.Tags)
}
