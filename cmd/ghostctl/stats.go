package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/99minutos/ghost-admin/internal/core/service"
	"github.com/99minutos/ghost-admin/internal/infrastructure/ghost"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the site dashboard: posts, members, revenue, newsletters and more",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(func(c *ghost.Client) error {
				d, err := service.NewDashboardService(c, a.log).Collect(cmd.Context())
				if err != nil {
					return err
				}
				return a.render(d, func(w io.Writer) { printDashboard(w, d) })
			})
		},
	}
}

func printDashboard(w io.Writer, d service.Dashboard) {
	fmt.Fprintf(w, "%s (%s)\n\n", orNA(d.Site.Title), orNA(d.Site.URL))

	fmt.Fprintln(w, "Posts:")
	fmt.Fprintf(w, "  Published: %d\n", d.Posts.Published)
	fmt.Fprintf(w, "  Drafts:    %d\n", d.Posts.Drafts)
	fmt.Fprintf(w, "  Scheduled: %d\n\n", d.Posts.Scheduled)

	fmt.Fprintln(w, "Members:")
	fmt.Fprintf(w, "  Total:  %d\n", d.Members.Total)
	fmt.Fprintf(w, "  Paid:   %d\n", d.Members.Paid)
	fmt.Fprintf(w, "  Free:   %d\n", d.Members.Free)
	fmt.Fprintf(w, "  Comped: %d\n\n", d.Members.Comped)

	fmt.Fprintln(w, "MRR:")
	if len(d.MRR) == 0 {
		fmt.Fprintln(w, "  none")
	}
	currencies := make([]string, 0, len(d.MRR))
	for cur := range d.MRR {
		currencies = append(currencies, cur)
	}
	slices.Sort(currencies)
	for _, cur := range currencies {
		fmt.Fprintf(w, "  %s\n", money(d.MRR[cur], cur))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Newsletters:")
	for _, n := range d.Newsletters {
		fmt.Fprintf(w, "  %s [%s]: %d members\n", n.Name, n.Status, n.Count.Members)
	}
	fmt.Fprintln(w)

	if e := d.LatestEmail; e != nil {
		fmt.Fprintf(w, "Latest email: %s\n", orNA(e.Subject))
		fmt.Fprintf(w, "  Sent:      %d\n", e.EmailCount)
		fmt.Fprintf(w, "  Delivered: %d\n", e.DeliveredCount)
		fmt.Fprintf(w, "  Opened:    %d (%d%%)\n", e.OpenedCount, e.OpenRate)
		fmt.Fprintf(w, "  Clicked:   %d (%d%%)\n\n", e.ClickedCount, e.ClickRate)
	} else {
		fmt.Fprintln(w, "No newsletter emails sent yet")
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Comments: %d\n\n", d.Comments)

	fmt.Fprintln(w, "Tiers:")
	for _, t := range d.Tiers {
		state := "active"
		if !t.Active {
			state = "archived"
		}
		fmt.Fprintf(w, "  %s (%s, %s)\n", t.Name, t.Type, state)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Social web:")
	fmt.Fprintf(w, "  Followers: %d\n", d.SocialWeb.Followers)
	fmt.Fprintf(w, "  Following: %d\n", d.SocialWeb.Following)
}
