package ghost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/99minutos/ghost-admin/internal/core/domain"
	"github.com/99minutos/ghost-admin/internal/metrics"
)

const adminPrefix = "/ghost/api/admin"

// request is the single chokepoint for authenticated Admin API calls. The
// decoded body is written into out when out is non-nil.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body, out any) error {
	start := time.Now()
	status, err := c.roundTrip(ctx, method, path, query, body, out)

	metrics.AdminRequestsTotal.WithLabelValues(method, outcome(err)).Inc()
	metrics.AdminRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	ev := c.log.Debug()
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("took", time.Since(start)).
		Msg("ghost admin request")

	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out any) (int, error) {
	hc := c.session()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	token, err := c.GenerateToken()
	if err != nil {
		return 0, err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Accept-Version", c.apiVersion)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return 0, domain.NewConnectionError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, domain.NewConnectionError(err)
	}

	if err := classifyResponse(resp.StatusCode, path, raw); err != nil {
		return resp.StatusCode, err
	}
	return resp.StatusCode, decodeBody(resp.StatusCode, raw, out)
}

// classifyResponse maps a status code and body to the error taxonomy. The
// checks run in order and the first match wins; nil means success.
func classifyResponse(status int, path string, body []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		return domain.NewAuthError(status, "authentication failed")
	case status == http.StatusNotFound:
		return domain.NewNotFoundError(path)
	case status == http.StatusUnprocessableEntity:
		return domain.NewValidationError(validationMessage(body))
	case status >= 400:
		return domain.NewAPIError(status, string(body))
	}
	return nil
}

func validationMessage(body []byte) string {
	var env struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Errors) == 0 || env.Errors[0].Message == "" {
		return "validation failed"
	}
	return env.Errors[0].Message
}

func decodeBody(status int, raw []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.Error{
			Kind:    domain.ErrAPI,
			Status:  status,
			Message: fmt.Sprintf("api error %d: invalid json body: %v", status, err),
			Err:     err,
		}
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAuth):
		return "auth"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrConnection):
		return "connection"
	default:
		return "api"
	}
}
