// Command ghost-webhooks receives signed Ghost webhook deliveries, dedups them
// and records them in a MongoDB audit trail.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/99minutos/ghost-admin/internal/api"
	"github.com/99minutos/ghost-admin/internal/api/handler"
	"github.com/99minutos/ghost-admin/internal/core/ports"
	"github.com/99minutos/ghost-admin/internal/core/service"
	"github.com/99minutos/ghost-admin/internal/infrastructure/config"
	"github.com/99minutos/ghost-admin/internal/infrastructure/db/memory"
	mongodb "github.com/99minutos/ghost-admin/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/ghost-admin/internal/infrastructure/db/redis"
	"github.com/99minutos/ghost-admin/internal/infrastructure/queue"
	"github.com/99minutos/ghost-admin/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ghost-webhooks:", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadDotEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadReceiver(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty,
		Service: "ghost-webhooks",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "ghost-webhooks",
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	eventRepo := mongodb.NewEventRepository(db)
	if err := eventRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	var dedup ports.DedupChecker
	switch cfg.DedupBackend {
	case "redis":
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		dedup = redisdb.NewDedupChecker(rdb, cfg.DedupTTL)
	default:
		dedup = memory.NewDedupChecker(cfg.DedupTTL)
	}

	events := service.NewEventService(eventRepo, dedup, logger.Component("events"))

	// Workers outlive the signal context. After the HTTP server stops, Stop
	// closes the queues and the workers drain what was already accepted.
	// workerCtx is only cancelled to abort processing once the drain times out.
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	dispatcher := queue.NewDispatcher(cfg.Workers, events, logger.Component("dispatcher"))
	dispatcher.Start(workerCtx)

	e, err := api.NewRouter(api.Deps{
		Log:        logger.Component("http"),
		Dispatcher: dispatcher,
		Events:     events,
		Health: map[string]handler.Pinger{
			"mongodb": eventRepo,
			"dedup":   dedup,
		},
		WebhookSecret:   cfg.WebhookSecret,
		SignatureMaxAge: cfg.WebhookMaxAge,
		AdminKey:        cfg.AdminAPIKey,
	})
	if err != nil {
		dispatcher.Stop()
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("dedup", cfg.DedupBackend).
			Int("workers", cfg.Workers).
			Bool("audit_endpoint", cfg.AdminAPIKey != "").
			Msg("receiver listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			dispatcher.Stop()
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	dispatcher.Stop()
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelDrain()
	if err := dispatcher.Wait(drainCtx); err != nil {
		log.Error().Err(err).Msg("queued deliveries not drained before timeout")
		cancelWorkers()
	}
	log.Info().Msg("receiver stopped")
	return nil
}
