package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/ghost-admin/internal/core/domain"
	"github.com/99minutos/ghost-admin/internal/metrics"
)

const (
	// SignatureHeader is the header Ghost signs webhook deliveries with.
	SignatureHeader = "X-Ghost-Signature"
	// ContextSignedAt holds the delivery timestamp as a time.Time.
	ContextSignedAt = "ghost_signed_at"

	defaultMaxBody = 1 << 20
)

// SignatureConfig configures webhook signature verification.
type SignatureConfig struct {
	Secret string
	// MaxAge rejects deliveries whose timestamp is further than this from
	// Now, in either direction. Zero disables it.
	MaxAge  time.Duration
	MaxBody int64
	Now     func() time.Time
}

// Signature verifies "X-Ghost-Signature: sha256=<hex>, t=<unix-ms>", where the
// digest is HMAC-SHA256(secret, body + t). The body is restored for handlers.
func Signature(cfg SignatureConfig) echo.MiddlewareFunc {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = defaultMaxBody
	}
	secret := []byte(cfg.Secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			digest, ts, err := parseSignature(c.Request().Header.Get(SignatureHeader))
			if err != nil {
				return reject("malformed", err.Error())
			}

			body, err := io.ReadAll(io.LimitReader(c.Request().Body, cfg.MaxBody+1))
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
			}
			if int64(len(body)) > cfg.MaxBody {
				return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "payload too large")
			}

			if !hmac.Equal(digest, computeDigest(secret, body, ts)) {
				return reject("mismatch", domain.ErrInvalidSignature.Error())
			}

			signedAt := time.UnixMilli(ts)
			if cfg.MaxAge > 0 && absDuration(cfg.Now().Sub(signedAt)) > cfg.MaxAge {
				return reject("expired", "signature expired")
			}

			c.Request().Body = io.NopCloser(bytes.NewReader(body))
			c.Set(ContextSignedAt, signedAt)
			return next(c)
		}
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// SignPayload returns the header value Ghost would send for body at t.
func SignPayload(secret string, body []byte, t time.Time) string {
	ts := t.UnixMilli()
	return fmt.Sprintf("sha256=%s, t=%d", hex.EncodeToString(computeDigest([]byte(secret), body, ts)), ts)
}

func computeDigest(secret, body []byte, ts int64) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	return mac.Sum(nil)
}

func parseSignature(header string) ([]byte, int64, error) {
	if header == "" {
		return nil, 0, fmt.Errorf("missing %s header", SignatureHeader)
	}
	var (
		digest []byte
		ts     int64
		haveTS bool
	)
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "sha256":
			d, err := hex.DecodeString(v)
			if err != nil {
				return nil, 0, errors.New("invalid signature digest")
			}
			digest = d
		case "t":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, 0, errors.New("invalid signature timestamp")
			}
			ts, haveTS = n, true
		}
	}
	if digest == nil || !haveTS {
		return nil, 0, fmt.Errorf("incomplete %s header", SignatureHeader)
	}
	return digest, ts, nil
}

func reject(reason, msg string) error {
	metrics.WebhooksRejectedTotal.WithLabelValues(reason).Inc()
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}
