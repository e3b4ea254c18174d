package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/99minutos/ghost-admin/internal/core/domain"
	"github.com/99minutos/ghost-admin/internal/infrastructure/ghost"
)

var errSetupAborted = errors.New("setup cancelled")

func newSetupCmd(a *app) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Interactively write a .env file with the site URL and Admin API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := &wizard{
				in:       bufio.NewScanner(cmd.InOrStdin()),
				out:      cmd.OutOrStdout(),
				validate: validator.New(),
			}
			if verify {
				w.verify = func(apiURL, key string) bool {
					ok := false
					err := ghost.With(apiURL, key, func(c *ghost.Client) error {
						ok = c.ValidateCredentials(cmd.Context())
						return nil
					}, a.clientOpts...)
					return err == nil && ok
				}
			}
			return w.run(a.envFile)
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "Check the key against the site before saving")
	return cmd
}

type wizard struct {
	in       *bufio.Scanner
	out      io.Writer
	validate *validator.Validate
	verify   func(apiURL, key string) bool
}

func (w *wizard) run(envFile string) error {
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(w.out, rule)
	fmt.Fprintln(w.out, "ghostctl Setup Wizard")
	fmt.Fprintln(w.out, rule)
	fmt.Fprintln(w.out)

	fmt.Fprintln(w.out, "Step 1: Ghost Site URL")
	fmt.Fprintln(w.out, "Your Ghost site URL (e.g., https://your-site.ghost.io). Must use HTTPS.")
	apiURL, err := w.ask("Ghost API URL: ", w.checkURL)
	if err != nil {
		return err
	}
	apiURL = strings.TrimRight(apiURL, "/")
	fmt.Fprintln(w.out)

	fmt.Fprintln(w.out, "Step 2: Admin API Key")
	fmt.Fprintln(w.out, "Get it from Ghost Admin > Settings > Integrations > Add custom integration.")
	fmt.Fprintln(w.out, "The key format is id:secret")
	key, err := w.ask("Admin API Key: ", checkKey)
	if err != nil {
		return err
	}
	fmt.Fprintln(w.out)

	if w.verify != nil {
		if w.verify(apiURL, key) {
			fmt.Fprintln(w.out, "[OK] The site accepted the key")
		} else {
			fmt.Fprintln(w.out, "[WARN] Could not authenticate with this URL and key")
		}
		fmt.Fprintln(w.out)
	}

	fmt.Fprintln(w.out, rule)
	fmt.Fprintln(w.out, "Configuration Summary")
	fmt.Fprintln(w.out, rule)
	fmt.Fprintf(w.out, "API URL:     %s\n", apiURL)
	fmt.Fprintf(w.out, "API Key:     %s\n", maskKey(key))
	fmt.Fprintln(w.out)

	confirm, err := w.line("Save this configuration? (y/n): ")
	if err != nil {
		return err
	}
	if strings.ToLower(confirm) != "y" {
		fmt.Fprintln(w.out, "Setup cancelled.")
		return nil
	}

	env := map[string]string{
		"GHOST_API_URL":       apiURL,
		"GHOST_ADMIN_API_KEY": key,
	}
	if err := godotenv.Write(env, envFile); err != nil {
		return fmt.Errorf("write %s: %w", envFile, err)
	}

	fmt.Fprintln(w.out)
	fmt.Fprintf(w.out, "[OK] Configuration saved to %s\n\n", envFile)
	fmt.Fprintln(w.out, "Next steps:")
	fmt.Fprintln(w.out, "  1. Test your connection:  ghostctl check")
	fmt.Fprintln(w.out, "  2. Create a test post:    ghostctl check --round-trip")
	return nil
}

// ask prompts until check accepts the answer. Each rejection is printed.
func (w *wizard) ask(prompt string, check func(string) error) (string, error) {
	for {
		answer, err := w.line(prompt)
		if err != nil {
			return "", err
		}
		if err := check(answer); err != nil {
			fmt.Fprintf(w.out, "x %s\n", err)
			continue
		}
		return answer, nil
	}
}

func (w *wizard) line(prompt string) (string, error) {
	fmt.Fprint(w.out, prompt)
	if !w.in.Scan() {
		if err := w.in.Err(); err != nil {
			return "", err
		}
		return "", errSetupAborted
	}
	return strings.TrimSpace(w.in.Text()), nil
}

func (w *wizard) checkURL(s string) error {
	if s == "" {
		return errors.New("URL cannot be empty")
	}
	if !strings.HasPrefix(s, "https://") {
		return errors.New("URL must use HTTPS (example: https://your-site.ghost.io)")
	}
	if err := w.validate.Var(s, "url"); err != nil {
		return errors.New("URL is not valid")
	}
	return nil
}

func checkKey(s string) error {
	if s == "" {
		return errors.New("API Key cannot be empty")
	}
	if err := domain.ValidateCredential(s); err != nil {
		return errors.New("invalid API Key format, expected id:secret (hex string for secret)")
	}
	return nil
}

func maskKey(key string) string {
	if len(key) <= 30 {
		return key[:min(len(key), 6)] + "..."
	}
	return key[:20] + "..." + key[len(key)-10:]
}
