package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/99minutos/ghost-admin/internal/core/domain"
	"github.com/99minutos/ghost-admin/internal/core/service"
	"github.com/99minutos/ghost-admin/internal/infrastructure/ghost"
)

func newPostsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Batch operations on posts from Markdown files",
	}

	var (
		dir     string
		pattern string
		dryRun  bool
		ids     []string
	)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create one post per Markdown file in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBatch(func(svc *service.BatchService) (domain.BatchReport, error) {
				return svc.CreateFromDir(cmd.Context(), dir, pattern, dryRun)
			})
		},
	}
	createCmd.Flags().StringVar(&dir, "dir", "", "Directory containing Markdown files")
	createCmd.Flags().StringVar(&pattern, "pattern", "*.md", "Glob pattern for files")
	createCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without doing it")
	_ = createCmd.MarkFlagRequired("dir")

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update posts from Markdown files, matched to ids in sorted file order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBatch(func(svc *service.BatchService) (domain.BatchReport, error) {
				return svc.UpdateFromDir(cmd.Context(), dir, ids, pattern, dryRun)
			})
		},
	}
	updateCmd.Flags().StringVar(&dir, "dir", "", "Directory containing Markdown files")
	updateCmd.Flags().StringSliceVar(&ids, "ids", nil, "Post ids, comma separated")
	updateCmd.Flags().StringVar(&pattern, "pattern", "*.md", "Glob pattern for files")
	updateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without doing it")
	_ = updateCmd.MarkFlagRequired("dir")

	deleteCmd := &cobra.Command{
		Use:   "delete [id...]",
		Short: "Delete posts by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBatch(func(svc *service.BatchService) (domain.BatchReport, error) {
				return svc.Delete(cmd.Context(), args, dryRun), nil
			})
		},
	}
	deleteCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without doing it")

	cmd.AddCommand(createCmd, updateCmd, deleteCmd)
	return cmd
}

// withBatch runs a batch, prints its report and fails when any item failed.
func (a *app) withBatch(run func(svc *service.BatchService) (domain.BatchReport, error)) error {
	return a.withClient(func(c *ghost.Client) error {
		svc := service.NewBatchService(c, a.cfg.BatchConcurrency, a.log)
		report, err := run(svc)
		if err != nil {
			return err
		}
		if err := a.render(report, func(w io.Writer) { printBatch(w, report) }); err != nil {
			return err
		}
		if report.Failed() {
			return errBatchFailed
		}
		return nil
	})
}

func printBatch(w io.Writer, r domain.BatchReport) {
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warn)
	}
	if len(r.Items) == 0 {
		fmt.Fprintln(w, "Nothing to do")
		return
	}
	for _, it := range r.Items {
		fmt.Fprintf(w, "%s %s\n", resultMark(it.Result), describeItem(r.Op, it))
	}
	fmt.Fprintf(w, "\n%s: %d ok, %d not found, %d failed, %d dry run\n",
		r.Op, r.Count(domain.ResultOK), r.Count(domain.ResultNotFound),
		r.Count(domain.ResultFailed), r.Count(domain.ResultDryRun))
}

func resultMark(r domain.ItemResult) string {
	switch r {
	case domain.ResultOK:
		return "[OK]"
	case domain.ResultDryRun:
		return "[DRY RUN]"
	case domain.ResultNotFound:
		return "[NOT FOUND]"
	default:
		return "[ERROR]"
	}
}

func describeItem(op domain.BatchOp, it domain.BatchItem) string {
	var s string
	switch op {
	case domain.BatchCreate:
		s = fmt.Sprintf("%s -> %q", it.Source, it.Title)
		if it.PostID != "" {
			s += " (" + it.PostID + ")"
		}
	case domain.BatchUpdate:
		s = fmt.Sprintf("%s -> %s", it.Source, it.PostID)
	default:
		s = it.PostID
	}
	if it.Error != "" {
		s += ": " + it.Error
	}
	return s
}
