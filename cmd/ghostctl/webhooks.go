package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/99minutos/ghost-admin/internal/core/domain"
	"github.com/99minutos/ghost-admin/internal/infrastructure/ghost"
)

func newWebhooksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhooks",
		Short: "Create and delete webhooks on the integration owning the key",
	}

	var in domain.WebhookInput
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Register a webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !domain.IsWebhookEvent(in.Event) {
				return fmt.Errorf("%w: %q", domain.ErrUnknownEvent, in.Event)
			}
			return a.withClient(func(c *ghost.Client) error {
				wh, err := c.CreateWebhook(cmd.Context(), in)
				if err != nil {
					return err
				}
				return a.render(wh, func(w io.Writer) {
					fmt.Fprintf(w, "[OK] Webhook %s created: %s -> %s\n", wh.ID, wh.Event, wh.TargetURL)
				})
			})
		},
	}
	createCmd.Flags().StringVar(&in.Event, "event", "", "Ghost event, e.g. post.published")
	createCmd.Flags().StringVar(&in.TargetURL, "target-url", "", "URL Ghost will POST deliveries to")
	createCmd.Flags().StringVar(&in.Name, "name", "", "Optional display name")
	createCmd.Flags().StringVar(&in.Secret, "secret", "", "Optional signing secret (X-Ghost-Signature)")
	_ = createCmd.MarkFlagRequired("event")
	_ = createCmd.MarkFlagRequired("target-url")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(func(c *ghost.Client) error {
				if err := c.DeleteWebhook(cmd.Context(), args[0]); err != nil {
					return err
				}
				out := map[string]any{"id": args[0], "deleted": true}
				return a.render(out, func(w io.Writer) {
					fmt.Fprintf(w, "[OK] Webhook %s deleted\n", args[0])
				})
			})
		},
	}

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "List the webhook events Ghost can deliver",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(domain.WebhookEvents, func(w io.Writer) {
				for _, e := range domain.WebhookEvents {
					fmt.Fprintln(w, e)
				}
			})
		},
	}

	cmd.AddCommand(createCmd, deleteCmd, eventsCmd)
	return cmd
}
