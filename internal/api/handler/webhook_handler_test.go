package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/ghost-admin/internal/api/middleware"
	"github.com/99minutos/ghost-admin/internal/core/domain"
	"github.com/99minutos/ghost-admin/internal/core/ports"
)

type stubDispatcher struct {
	got []ports.WebhookEventInput
	err error
}

func (s *stubDispatcher) Enqueue(_ context.Context, ev ports.WebhookEventInput) error {
	if s.err != nil {
		return s.err
	}
	s.got = append(s.got, ev)
	return nil
}

type stubEventService struct {
	listFn func(ctx context.Context, f ports.EventFilter) ([]*domain.WebhookEvent, error)
}

func (s *stubEventService) Process(context.Context, ports.WebhookEventInput) error { return nil }

func (s *stubEventService) List(ctx context.Context, f ports.EventFilter) ([]*domain.WebhookEvent, error) {
	return s.listFn(ctx, f)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func receive(t *testing.T, h *WebhookHandler, event, body string, signedAt *time.Time) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := newEcho()
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/"+event, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("event")
	c.SetParamValues(event)
	if signedAt != nil {
		c.Set(middleware.ContextSignedAt, *signedAt)
	}
	return rec, h.Receive(c)
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestWebhookHandler_Receive_Accepted(t *testing.T) {
	disp := &stubDispatcher{}
	h := NewWebhookHandler(disp, nil)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }
	signed := now.Add(-2 * time.Second)

	body := `{"post":{"current":{"id":"p1","title":"Hello"},"previous":{}}}`
	rec, err := receive(t, h, "post.published", body, &signed)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}

	var resp acceptedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Event != "post.published" || resp.ResourceID != "p1" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if len(disp.got) != 1 {
		t.Fatalf("expected 1 enqueued event, got %d", len(disp.got))
	}
	ev := disp.got[0]
	if !ev.SignedAt.Equal(signed) || !ev.ReceivedAt.Equal(now) {
		t.Fatalf("unexpected timestamps: signed=%v received=%v", ev.SignedAt, ev.ReceivedAt)
	}
	if string(ev.Payload) != body {
		t.Fatalf("payload not forwarded verbatim: %s", ev.Payload)
	}
}

func TestWebhookHandler_Receive_DeletedUsesPrevious(t *testing.T) {
	disp := &stubDispatcher{}
	h := NewWebhookHandler(disp, nil)

	_, err := receive(t, h, "tag.deleted", `{"tag":{"current":{},"previous":{"id":"t9"}}}`, nil)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(disp.got) != 1 || disp.got[0].ResourceID != "t9" {
		t.Fatalf("unexpected enqueued events: %+v", disp.got)
	}
	if disp.got[0].SignedAt.IsZero() {
		t.Fatalf("signed_at should default to receive time")
	}
}

func TestWebhookHandler_Receive_SiteChanged(t *testing.T) {
	disp := &stubDispatcher{}
	h := NewWebhookHandler(disp, nil)

	if _, err := receive(t, h, "site.changed", `{}`, nil); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(disp.got) != 1 || disp.got[0].ResourceID != "site" {
		t.Fatalf("unexpected enqueued events: %+v", disp.got)
	}
}

func TestWebhookHandler_Receive_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		event string
		body  string
		want  int
	}{
		{"not json", "post.published", `not-json`, http.StatusBadRequest},
		{"resource not an object", "post.published", `{"post":"p1"}`, http.StatusBadRequest},
		{"unknown event", "invoice.paid", `{"invoice":{"current":{"id":"i1"}}}`, http.StatusUnprocessableEntity},
		{"missing resource", "member.added", `{"post":{"current":{"id":"p1"}}}`, http.StatusUnprocessableEntity},
		{"missing id", "member.added", `{"member":{"current":{}}}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disp := &stubDispatcher{}
			_, err := receive(t, NewWebhookHandler(disp, nil), tt.event, tt.body, nil)
			if code := httpCode(t, err); code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, code)
			}
			if len(disp.got) != 0 {
				t.Fatalf("nothing should be enqueued")
			}
		})
	}
}

func TestWebhookHandler_Receive_QueueUnavailable(t *testing.T) {
	h := NewWebhookHandler(&stubDispatcher{err: context.Canceled}, nil)

	_, err := receive(t, h, "post.added", `{"post":{"current":{"id":"p1"}}}`, nil)
	if code := httpCode(t, err); code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
}

func TestWebhookHandler_List(t *testing.T) {
	received := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := &stubEventService{
		listFn: func(_ context.Context, f ports.EventFilter) ([]*domain.WebhookEvent, error) {
			if f.Event != "post.published" || f.ResourceID != "p1" || f.Limit != 10 {
				t.Fatalf("unexpected filter: %+v", f)
			}
			return []*domain.WebhookEvent{{
				ID:         "e1",
				Event:      "post.published",
				Resource:   "post",
				ResourceID: "p1",
				ReceivedAt: received,
				Payload:    json.RawMessage(`{"post":{}}`),
			}}, nil
		},
	}
	h := NewWebhookHandler(&stubDispatcher{}, svc)

	e := newEcho()
	req := httptest.NewRequest(http.MethodGet, "/v1/events?event=post.published&resource_id=p1&limit=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp listEventsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Count != 1 || resp.Events[0].ID != "e1" || string(resp.Events[0].Payload) != `{"post":{}}` {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestWebhookHandler_List_InvalidFilter(t *testing.T) {
	svc := &stubEventService{
		listFn: func(context.Context, ports.EventFilter) ([]*domain.WebhookEvent, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewWebhookHandler(&stubDispatcher{}, svc)

	for _, q := range []string{"event=nope", "limit=-1", "limit=501"} {
		e := newEcho()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/events?"+q, nil), httptest.NewRecorder())
		if code := httpCode(t, h.List(c)); code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d", q, code)
		}
	}
}

func TestWebhookHandler_List_ServiceError(t *testing.T) {
	boom := errors.New("mongo down")
	svc := &stubEventService{
		listFn: func(context.Context, ports.EventFilter) ([]*domain.WebhookEvent, error) {
			return nil, boom
		},
	}
	h := NewWebhookHandler(&stubDispatcher{}, svc)

	e := newEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/events", nil), httptest.NewRecorder())
	if err := h.List(c); !errors.Is(err, boom) {
		t.Fatalf("expected service error to propagate, got %v", err)
	}
}
