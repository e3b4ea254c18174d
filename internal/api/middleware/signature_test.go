package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

const testSecret = "whsec"

var fixedNow = time.UnixMilli(1_700_000_000_000)

func runSignature(t *testing.T, cfg SignatureConfig, body, header string) (*httptest.ResponseRecorder, string, bool) {
	t.Helper()
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return fixedNow }
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if header != "" {
		req.Header.Set(SignatureHeader, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	called := false
	handler := Signature(cfg)(func(c echo.Context) error {
		called = true
		b, err := io.ReadAll(c.Request().Body)
		if err != nil {
			t.Fatalf("read restored body: %v", err)
		}
		seen = string(b)
		signedAt, ok := c.Get(ContextSignedAt).(time.Time)
		if !ok || !signedAt.Equal(fixedNow) {
			t.Fatalf("signed_at not set, got %v", c.Get(ContextSignedAt))
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, seen, called
}

func TestSignature_Valid(t *testing.T) {
	body := `{"post":{"current":{"id":"p1"}}}`
	header := SignPayload(testSecret, []byte(body), fixedNow)

	rec, seen, called := runSignature(t, SignatureConfig{Secret: testSecret, MaxAge: 5 * time.Minute}, body, header)
	if !called {
		t.Fatalf("next not called, status %d", rec.Code)
	}
	if seen != body {
		t.Fatalf("body not restored: %q", seen)
	}
}

func TestSignPayload_Format(t *testing.T) {
	got := SignPayload(testSecret, []byte("{}"), fixedNow)
	if !strings.HasPrefix(got, "sha256=") || !strings.HasSuffix(got, ", t=1700000000000") {
		t.Fatalf("unexpected header %q", got)
	}
	// 64 hex chars between the prefix and the separator.
	if len(got) != len("sha256=")+64+len(", t=1700000000000") {
		t.Fatalf("unexpected digest length in %q", got)
	}
}

func TestSignature_Rejections(t *testing.T) {
	body := `{"post":{"current":{"id":"p1"}}}`
	valid := SignPayload(testSecret, []byte(body), fixedNow)

	tests := []struct {
		name   string
		cfg    SignatureConfig
		body   string
		header string
		want   int
	}{
		{"missing header", SignatureConfig{Secret: testSecret}, body, "", http.StatusUnauthorized},
		{"no timestamp", SignatureConfig{Secret: testSecret}, body, "sha256=abcd", http.StatusUnauthorized},
		{"bad hex", SignatureConfig{Secret: testSecret}, body, "sha256=zz, t=1", http.StatusUnauthorized},
		{"bad timestamp", SignatureConfig{Secret: testSecret}, body, "sha256=abcd, t=soon", http.StatusUnauthorized},
		{"wrong secret", SignatureConfig{Secret: "other"}, body, valid, http.StatusUnauthorized},
		{"tampered body", SignatureConfig{Secret: testSecret}, body + " ", valid, http.StatusUnauthorized},
		{
			"expired",
			SignatureConfig{Secret: testSecret, MaxAge: time.Minute, Now: func() time.Time { return fixedNow.Add(2 * time.Minute) }},
			body, valid, http.StatusUnauthorized,
		},
		{
			"signed in the future",
			SignatureConfig{Secret: testSecret, MaxAge: time.Minute, Now: func() time.Time { return fixedNow.Add(-2 * time.Minute) }},
			body, valid, http.StatusUnauthorized,
		},
		{"too large", SignatureConfig{Secret: testSecret, MaxBody: 8}, body, valid, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, called := runSignature(t, tt.cfg, tt.body, tt.header)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestSignature_MaxAgeDisabled(t *testing.T) {
	body := `{}`
	header := SignPayload(testSecret, []byte(body), fixedNow)
	cfg := SignatureConfig{Secret: testSecret, Now: func() time.Time { return fixedNow.Add(48 * time.Hour) }}

	rec, _, called := runSignature(t, cfg, body, header)
	if !called {
		t.Fatalf("expected delivery to pass without max age, status %d", rec.Code)
	}
}
