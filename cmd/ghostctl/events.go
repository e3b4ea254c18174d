package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/99minutos/ghost-admin/internal/infrastructure/ghost"
)

type auditEvent struct {
	ID         string          `json:"id" yaml:"id"`
	Event      string          `json:"event" yaml:"event"`
	Resource   string          `json:"resource" yaml:"resource"`
	ResourceID string          `json:"resource_id" yaml:"resource_id"`
	SignedAt   time.Time       `json:"signed_at" yaml:"signed_at"`
	ReceivedAt time.Time       `json:"received_at" yaml:"received_at"`
	Payload    json.RawMessage `json:"payload,omitempty" yaml:"-"`
}

type auditPage struct {
	Events []auditEvent `json:"events" yaml:"events"`
	Count  int          `json:"count" yaml:"count"`
}

func newEventsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Query the audit trail of a ghost-webhooks receiver",
	}

	var (
		receiver   string
		event      string
		resourceID string
		limit      int
		httpClient = &http.Client{Timeout: 30 * time.Second}
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent deliveries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Ghost.Validate(); err != nil {
				return err
			}
			token, err := ghost.SignAdminToken(a.cfg.Ghost.AdminAPIKey, time.Now())
			if err != nil {
				return err
			}

			q := url.Values{}
			if event != "" {
				q.Set("event", event)
			}
			if resourceID != "" {
				q.Set("resource_id", resourceID)
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			endpoint := strings.TrimRight(receiver, "/") + "/v1/events"
			if len(q) > 0 {
				endpoint += "?" + q.Encode()
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, endpoint, nil)
			if err != nil {
				return err
			}
			req.Header.Set("Authorization", "Ghost "+token)
			req.Header.Set("Accept", "application/json")

			resp, err := httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("receiver: %w", err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode/100 != 2 {
				return fmt.Errorf("receiver: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
			}

			var page auditPage
			if err := json.Unmarshal(body, &page); err != nil {
				return fmt.Errorf("receiver: decode response: %w", err)
			}
			return a.render(page, func(w io.Writer) {
				if page.Count == 0 {
					fmt.Fprintln(w, "No events recorded")
					return
				}
				for _, e := range page.Events {
					fmt.Fprintf(w, "%s  %-24s %-26s %s\n",
						e.ReceivedAt.Format(time.RFC3339), e.Event, e.ResourceID, e.ID)
				}
			})
		},
	}
	listCmd.Flags().StringVar(&receiver, "receiver-url", "http://localhost:8080", "Base URL of the ghost-webhooks receiver")
	listCmd.Flags().StringVar(&event, "event", "", "Filter by event name")
	listCmd.Flags().StringVar(&resourceID, "resource-id", "", "Filter by resource id")
	listCmd.Flags().IntVar(&limit, "limit", 0, "Maximum results (receiver default 50)")

	cmd.AddCommand(listCmd)
	return cmd
}
