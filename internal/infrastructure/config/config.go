// Package config loads process settings from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// ErrMissingCredentials is returned when the Ghost site or key is not set.
var ErrMissingCredentials = errors.New("missing required environment variables: GHOST_API_URL, GHOST_ADMIN_API_KEY")

type LogConfig struct {
	Level  string `env:"LOG_LEVEL,  default=info"`
	Pretty bool   `env:"LOG_PRETTY, default=false"`
}

type GhostConfig struct {
	APIURL      string `env:"GHOST_API_URL"`
	AdminAPIKey string `env:"GHOST_ADMIN_API_KEY"`
	APIVersion  string `env:"GHOST_API_VERSION, default=v5.0"`
}

// Validate reports ErrMissingCredentials when the URL or key is empty.
func (g GhostConfig) Validate() error {
	if strings.TrimSpace(g.APIURL) == "" || strings.TrimSpace(g.AdminAPIKey) == "" {
		return ErrMissingCredentials
	}
	return nil
}

// CLIConfig is read by ghostctl.
type CLIConfig struct {
	Ghost            GhostConfig
	Log              LogConfig
	BatchConcurrency int `env:"BATCH_CONCURRENCY, default=4"`
}

// ReceiverConfig is read by ghost-webhooks.
type ReceiverConfig struct {
	Port          string        `env:"PORT,                 default=8080"`
	WebhookSecret string        `env:"GHOST_WEBHOOK_SECRET, required"`
	WebhookMaxAge time.Duration `env:"WEBHOOK_MAX_AGE,      default=5m"`
	Workers       int           `env:"WORKERS,              default=8"`
	DedupBackend  string        `env:"DEDUP_BACKEND,        default=memory"`
	DedupTTL      time.Duration `env:"DEDUP_TTL,            default=24h"`

	// AdminAPIKey, when set, enables the audit trail endpoint for holders of
	// tokens signed with the same key.
	AdminAPIKey     string        `env:"GHOST_ADMIN_API_KEY"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Log   LogConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ghost_webhooks"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// LoadDotEnv preloads .env files into the environment. Missing files are
// ignored and variables already set win.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// LoadCLI reads CLIConfig from the process environment.
func LoadCLI(ctx context.Context) (*CLIConfig, error) {
	var cfg CLIConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadReceiver reads ReceiverConfig from the process environment.
func LoadReceiver(ctx context.Context) (*ReceiverConfig, error) {
	return loadReceiver(ctx, envconfig.OsLookuper())
}

func loadReceiver(ctx context.Context, l envconfig.Lookuper) (*ReceiverConfig, error) {
	var cfg ReceiverConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	switch cfg.DedupBackend {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("config: unknown DEDUP_BACKEND %q", cfg.DedupBackend)
	}
	return &cfg, nil
}
