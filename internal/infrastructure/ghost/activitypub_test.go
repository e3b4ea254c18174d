package ghost

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/ghost-admin/internal/core/domain"
)

func TestClient_GetActivityPubStats(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/activity+json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/.ghost/activitypub/followers/index":
			writeJSON(w, http.StatusOK, `{"totalItems":7}`)
		case "/.ghost/activitypub/following/index":
			writeJSON(w, http.StatusOK, `{"totalItems":3}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	stats := c.GetActivityPubStats(context.Background())
	assert.Equal(t, domain.ActivityPubStats{Followers: 7, Following: 3}, stats)
}

func TestClient_GetActivityPubStats_BranchesFailIndependently(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/.ghost/activitypub/followers/index":
			writeJSON(w, http.StatusOK, `{"totalItems":12}`)
		default:
			writeJSON(w, http.StatusInternalServerError, `down`)
		}
	}))

	stats := c.GetActivityPubStats(context.Background())
	assert.Equal(t, domain.ActivityPubStats{Followers: 12}, stats)
}

func TestClient_GetActivityPubStats_NeverFails(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not installed", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }},
		{"redirect status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotModified) }},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, `<html>`) }},
		{"missing field", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, `{}`) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.handler)
			assert.Equal(t, domain.ActivityPubStats{}, c.GetActivityPubStats(context.Background()))
		})
	}
}

func TestClient_GetActivityPubStats_Unreachable(t *testing.T) {
	srv := httptest.NewTLSServer(http.NotFoundHandler())
	hc := srv.Client()
	base := srv.URL
	srv.Close()

	c, err := New(base, "not-even-a-key", WithHTTPClient(hc))
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityPubStats{}, c.GetActivityPubStats(context.Background()))
}
