package handler

import (
	"encoding/json"
	"time"
)

// webhookRequest is the part of a Ghost delivery the receiver validates.
type webhookRequest struct {
	Event      string `validate:"required,ghost_event"`
	ResourceID string `validate:"required"`
}

// resourceSnapshot is the {"current": {...}, "previous": {...}} object Ghost
// sends under the resource key.
type resourceSnapshot struct {
	Current struct {
		ID string `json:"id"`
	} `json:"current"`
	Previous struct {
		ID string `json:"id"`
	} `json:"previous"`
}

type listEventsQuery struct {
	Event      string `query:"event"       validate:"omitempty,ghost_event"`
	ResourceID string `query:"resource_id"`
	Limit      int64  `query:"limit"       validate:"omitempty,min=1,max=500"`
}

type acceptedResponse struct {
	Message    string `json:"message"`
	Event      string `json:"event"`
	ResourceID string `json:"resource_id"`
}

type eventResponse struct {
	ID         string          `json:"id"`
	Event      string          `json:"event"`
	Resource   string          `json:"resource"`
	ResourceID string          `json:"resource_id"`
	SignedAt   time.Time       `json:"signed_at"`
	ReceivedAt time.Time       `json:"received_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
	Count  int             `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}
