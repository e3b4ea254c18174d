package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/ghost-admin/internal/api/middleware"
	"github.com/99minutos/ghost-admin/internal/core/domain"
	"github.com/99minutos/ghost-admin/internal/core/ports"
	"github.com/99minutos/ghost-admin/internal/metrics"
)

// siteResourceID keys site.changed deliveries, which carry no resource.
const siteResourceID = "site"

// EventDispatcher is the interface the handler uses to enqueue events.
type EventDispatcher interface {
	Enqueue(ctx context.Context, event ports.WebhookEventInput) error
}

// WebhookHandler handles Ghost webhook deliveries and the audit trail.
type WebhookHandler struct {
	dispatcher EventDispatcher
	events     ports.EventService
	now        func() time.Time
}

// NewWebhookHandler creates a WebhookHandler backed by the given dispatcher.
func NewWebhookHandler(dispatcher EventDispatcher, events ports.EventService) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, events: events, now: time.Now}
}

// Receive handles POST /v1/webhooks/:event, enqueues the delivery and returns 202.
//
// @Summary      Receive a Ghost webhook delivery
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        event  path      string  true  "Ghost event name, e.g. post.published"
// @Param        X-Ghost-Signature  header  string  true  "sha256=<hex>, t=<unix-ms>"
// @Success      202    {object}  acceptedResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Failure      422    {object}  errorResponse
// @Failure      503    {object}  errorResponse
// @Router       /v1/webhooks/{event} [post]
func (h *WebhookHandler) Receive(c echo.Context) error {
	event := c.Param("event")
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}

	resourceID, err := extractResourceID(event, body)
	if err != nil {
		metrics.WebhooksRejectedTotal.WithLabelValues("payload").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	req := webhookRequest{Event: event, ResourceID: resourceID}
	if err := c.Validate(&req); err != nil {
		reason := "payload"
		if !domain.IsWebhookEvent(event) {
			reason = "unknown_event"
		}
		metrics.WebhooksRejectedTotal.WithLabelValues(reason).Inc()
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	now := h.now()
	signedAt, ok := c.Get(middleware.ContextSignedAt).(time.Time)
	if !ok {
		signedAt = now
	}

	in := ports.WebhookEventInput{
		Event:      event,
		ResourceID: resourceID,
		SignedAt:   signedAt,
		ReceivedAt: now,
		Payload:    json.RawMessage(body),
	}
	if err := h.dispatcher.Enqueue(c.Request().Context(), in); err != nil {
		metrics.WebhooksRejectedTotal.WithLabelValues("queue").Inc()
		return echo.NewHTTPError(http.StatusServiceUnavailable, "queue unavailable")
	}

	metrics.WebhooksReceivedTotal.WithLabelValues(event).Inc()
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message:    "event accepted",
		Event:      event,
		ResourceID: resourceID,
	})
}

// List handles GET /v1/events and returns the newest audited deliveries.
//
// @Summary      List received webhook deliveries
// @Tags         events
// @Produce      json
// @Security     GhostAdminToken
// @Param        event        query     string  false  "Filter by event name"
// @Param        resource_id  query     string  false  "Filter by resource id"
// @Param        limit        query     int     false  "Maximum results (1-500, default 50)"
// @Success      200          {object}  listEventsResponse
// @Failure      401          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /v1/events [get]
func (h *WebhookHandler) List(c echo.Context) error {
	var q listEventsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	events, err := h.events.List(c.Request().Context(), ports.EventFilter{
		Event:      q.Event,
		ResourceID: q.ResourceID,
		Limit:      q.Limit,
	})
	if err != nil {
		return err
	}

	out := make([]eventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, eventResponse{
			ID:         ev.ID,
			Event:      ev.Event,
			Resource:   ev.Resource,
			ResourceID: ev.ResourceID,
			SignedAt:   ev.SignedAt,
			ReceivedAt: ev.ReceivedAt,
			Payload:    ev.Payload,
		})
	}
	return c.JSON(http.StatusOK, listEventsResponse{Events: out, Count: len(out)})
}

// extractResourceID reads the id from {"<kind>": {"current": {...}, "previous": {...}}}.
// Deleted resources only carry the previous snapshot.
func extractResourceID(event string, body []byte) (string, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", err
	}

	kind := domain.ResourceKind(event)
	if kind == siteResourceID {
		return siteResourceID, nil
	}

	raw, ok := envelope[kind]
	if !ok {
		return "", nil
	}
	var snap resourceSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return "", fmt.Errorf("%s snapshot: %w", kind, err)
	}
	if snap.Current.ID != "" {
		return snap.Current.ID, nil
	}
	return snap.Previous.ID, nil
}
