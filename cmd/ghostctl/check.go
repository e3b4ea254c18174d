package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/99minutos/ghost-admin/internal/core/service"
	"github.com/99minutos/ghost-admin/internal/infrastructure/ghost"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		roundTrip bool
		title     string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the site URL and Admin API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(func(c *ghost.Client) error {
				svc := service.NewCheckService(c, a.log)

				report, err := svc.Check(cmd.Context())
				if err != nil {
					return err
				}
				if !roundTrip {
					return a.render(report, func(w io.Writer) { printCheck(w, c.BaseURL(), report) })
				}

				rt, err := svc.PostRoundTrip(cmd.Context(), title, "<p>This post was created by <code>ghostctl check --round-trip</code>.</p>")
				if err != nil {
					return err
				}
				out := struct {
					service.CheckReport `yaml:",inline"`
					RoundTrip           service.RoundTripReport `json:"round_trip" yaml:"round_trip"`
				}{report, rt}
				return a.render(out, func(w io.Writer) {
					printCheck(w, c.BaseURL(), report)
					fmt.Fprintln(w)
					fmt.Fprintf(w, "[OK] Created post %s\n", rt.PostID)
					fmt.Fprintln(w, "[OK] Read it back")
					fmt.Fprintf(w, "[OK] Updated title to %q\n", rt.UpdatedTitle)
				})
			})
		},
	}
	cmd.Flags().BoolVar(&roundTrip, "round-trip", false, "Also create, read and update a published test post")
	cmd.Flags().StringVar(&title, "title", "Test Post from ghostctl", "Title of the round-trip test post")
	return cmd
}

func printCheck(w io.Writer, url string, r service.CheckReport) {
	fmt.Fprintf(w, "API URL: %s\n", url)
	fmt.Fprintln(w, "[OK] Connection successful!")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Site:  %s\n", orNA(r.Site.Title))
	fmt.Fprintf(w, "URL:   %s\n", orNA(r.Site.URL))
	fmt.Fprintf(w, "Desc:  %s\n", truncate(orNA(r.Site.Description), 50))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Posts:")
	fmt.Fprintf(w, "  Published: %d\n", r.PostCounts.Published)
	fmt.Fprintf(w, "  Drafts:    %d\n", r.PostCounts.Drafts)
	fmt.Fprintf(w, "  Scheduled: %d\n", r.PostCounts.Scheduled)
	fmt.Fprintln(w)
	if r.LatestPost != nil {
		fmt.Fprintf(w, "Latest post: %s\n", orNA(strings.TrimSpace(r.LatestPost.Title)))
	} else {
		fmt.Fprintln(w, "No published posts yet")
	}
}
