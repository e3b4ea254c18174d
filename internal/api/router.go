package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/ghost-admin/docs"
	"github.com/99minutos/ghost-admin/internal/api/handler"
	"github.com/99minutos/ghost-admin/internal/api/middleware"
	"github.com/99minutos/ghost-admin/internal/core/ports"
)

// Deps wires the receiver's routes.
type Deps struct {
	Log        zerolog.Logger
	Dispatcher handler.EventDispatcher
	Events     ports.EventService
	// Health is pinged by the readiness probe, keyed by dependency name.
	Health map[string]handler.Pinger

	WebhookSecret   string
	SignatureMaxAge time.Duration
	// AdminKey enables GET /v1/events for callers holding a matching admin token.
	AdminKey string

	// Registry receives the HTTP metrics. A private registry is used when nil.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "ghost",
		Subsystem:  "receiver",
		Registerer: reg,
	}))

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Health)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Webhooks ---
	webhookHandler := handler.NewWebhookHandler(d.Dispatcher, d.Events)
	v1 := e.Group("/v1")
	v1.POST("/webhooks/:event", webhookHandler.Receive, middleware.Signature(middleware.SignatureConfig{
		Secret: d.WebhookSecret,
		MaxAge: d.SignatureMaxAge,
	}))

	if d.AdminKey != "" {
		adminToken, err := middleware.AdminToken(d.AdminKey)
		if err != nil {
			return nil, err
		}
		v1.GET("/events", webhookHandler.List, adminToken)
	}

	return e, nil
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= 500:
				evt = log.Error().Err(v.Error)
			case v.Status >= 400:
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
