package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/99minutos/ghost-admin/internal/core/domain"
	"github.com/99minutos/ghost-admin/internal/infrastructure/config"
	"github.com/99minutos/ghost-admin/internal/infrastructure/ghost"
	"github.com/99minutos/ghost-admin/pkg/logger"
)

const userAgent = "ghostctl/1.0"

// errBatchFailed makes the process exit non-zero after a partially failed batch.
var errBatchFailed = errors.New("one or more batch items failed")

type app struct {
	stdin  io.Reader
	stdout io.Writer

	out     string
	envFile string

	cfg *config.CLIConfig
	log zerolog.Logger

	// clientOpts are appended to every Admin API client.
	clientOpts []ghost.Option
}

func newApp(stdin io.Reader, stdout io.Writer) *app {
	return &app{stdin: stdin, stdout: stdout, out: "text", envFile: ".env", log: zerolog.Nop()}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "ghostctl",
		Short:         "Ghost Admin API command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.Context())
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)

	root.PersistentFlags().StringVar(&a.out, "out", a.out, "Output format: text|json|yaml")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", a.envFile, "Dotenv file preloaded before reading the environment")

	root.AddCommand(
		newCheckCmd(a),
		newStatsCmd(a),
		newPostsCmd(a),
		newWebhooksCmd(a),
		newEventsCmd(a),
		newSetupCmd(a),
	)
	return root
}

func (a *app) load(ctx context.Context) error {
	switch a.out {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", a.out)
	}

	config.LoadDotEnv(a.envFile)
	cfg, err := config.LoadCLI(ctx)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.Init(logger.Options{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty,
		Service: "ghostctl",
	})
	return nil
}

// withClient runs fn with a client that owns its session and is closed after.
func (a *app) withClient(fn func(c *ghost.Client) error) error {
	if err := a.cfg.Ghost.Validate(); err != nil {
		return err
	}
	opts := append([]ghost.Option{
		ghost.WithAPIVersion(a.cfg.Ghost.APIVersion),
		ghost.WithUserAgent(userAgent),
		ghost.WithLogger(a.log.With().Str("component", "ghost").Logger()),
	}, a.clientOpts...)
	return ghost.With(a.cfg.Ghost.APIURL, a.cfg.Ghost.AdminAPIKey, fn, opts...)
}

// renderError turns a failure into an operator message with a hint.
func renderError(err error) string {
	var b strings.Builder
	switch {
	case errors.Is(err, config.ErrMissingCredentials):
		b.WriteString("[ERROR] " + err.Error() + "\n")
		b.WriteString("  Run `ghostctl setup` or create a .env file with GHOST_API_URL and GHOST_ADMIN_API_KEY.")
	case errors.Is(err, domain.ErrAuth):
		b.WriteString("[ERROR] Authentication failed: " + err.Error() + "\n")
		b.WriteString("  Please check your API key (GHOST_ADMIN_API_KEY, format id:secret).")
	case errors.Is(err, domain.ErrConnection):
		b.WriteString("[ERROR] Connection failed: " + err.Error() + "\n")
		b.WriteString("  Please check your API URL and network connection.")
	case errors.Is(err, domain.ErrGhost):
		b.WriteString("[ERROR] API error: " + err.Error())
	default:
		b.WriteString("[ERROR] " + err.Error())
	}
	return b.String()
}
