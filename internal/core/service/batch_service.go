package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/ghost-admin/internal/core/domain"
	"github.com/99minutos/ghost-admin/internal/core/ports"
	"github.com/99minutos/ghost-admin/internal/metrics"
	"github.com/99minutos/ghost-admin/internal/pkg/frontmatter"
)

// BatchService creates, updates and deletes posts in bulk. Items run
// concurrently and a failing item never aborts the batch.
type BatchService struct {
	posts       ports.PostWriter
	concurrency int
	log         zerolog.Logger
}

// NewBatchService returns a BatchService. A concurrency <= 0 means no limit.
func NewBatchService(posts ports.PostWriter, concurrency int, log zerolog.Logger) *BatchService {
	return &BatchService{posts: posts, concurrency: concurrency, log: log}
}

// CreateFromDir creates one post per file in dir matching pattern.
func (s *BatchService) CreateFromDir(ctx context.Context, dir, pattern string, dryRun bool) (domain.BatchReport, error) {
	report := domain.BatchReport{Op: domain.BatchCreate}

	files, err := matchFiles(dir, pattern)
	if err != nil {
		return report, err
	}
	report.Items = make([]domain.BatchItem, len(files))

	s.run(len(files), func(i int) {
		report.Items[i] = s.createOne(ctx, files[i], dryRun)
	})
	return report, nil
}

// UpdateFromDir updates ids[i] from the i-th matching file. A count mismatch
// is reported as a warning and only the overlapping prefix is processed.
func (s *BatchService) UpdateFromDir(ctx context.Context, dir string, ids []string, pattern string, dryRun bool) (domain.BatchReport, error) {
	report := domain.BatchReport{Op: domain.BatchUpdate}

	files, err := matchFiles(dir, pattern)
	if err != nil || len(files) == 0 {
		return report, err
	}
	if len(ids) == 0 {
		return report, domain.ErrNoPostIDs
	}

	if len(files) != len(ids) {
		warning := fmt.Sprintf("file count (%d) doesn't match post id count (%d)", len(files), len(ids))
		report.Warnings = append(report.Warnings, warning)
		s.log.Warn().Int("files", len(files)).Int("ids", len(ids)).Msg("batch update count mismatch")
	}

	n := min(len(files), len(ids))
	report.Items = make([]domain.BatchItem, n)
	s.run(n, func(i int) {
		report.Items[i] = s.updateOne(ctx, ids[i], files[i], dryRun)
	})
	return report, nil
}

// Delete removes each post id.
func (s *BatchService) Delete(ctx context.Context, ids []string, dryRun bool) domain.BatchReport {
	report := domain.BatchReport{
		Op:    domain.BatchDelete,
		Items: make([]domain.BatchItem, len(ids)),
	}
	s.run(len(ids), func(i int) {
		report.Items[i] = s.deleteOne(ctx, ids[i], dryRun)
	})
	return report
}

func (s *BatchService) run(n int, fn func(i int)) {
	var g errgroup.Group
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *BatchService) createOne(ctx context.Context, path string, dryRun bool) domain.BatchItem {
	item := domain.BatchItem{Source: path}

	content, err := os.ReadFile(path)
	if err != nil {
		return s.finish(domain.BatchCreate, item, err)
	}
	meta, body := frontmatter.Parse(string(content))
	in := frontmatter.ToPostInput(meta, body, stem(path))
	item.Title, item.Status = in.Title, in.Status

	if dryRun {
		item.Result = domain.ResultDryRun
		return s.finish(domain.BatchCreate, item, nil)
	}

	post, err := s.posts.CreatePost(ctx, in)
	if err != nil {
		return s.finish(domain.BatchCreate, item, err)
	}
	item.PostID = post.ID
	item.Result = domain.ResultOK
	return s.finish(domain.BatchCreate, item, nil)
}

func (s *BatchService) updateOne(ctx context.Context, id, path string, dryRun bool) domain.BatchItem {
	item := domain.BatchItem{Source: path, PostID: id}

	content, err := os.ReadFile(path)
	if err != nil {
		return s.finish(domain.BatchUpdate, item, err)
	}
	meta, body := frontmatter.Parse(string(content))
	update := frontmatter.ToPostUpdate(meta, body)
	if update.Title != nil {
		item.Title = *update.Title
	}

	if dryRun {
		item.Result = domain.ResultDryRun
		return s.finish(domain.BatchUpdate, item, nil)
	}

	post, err := s.posts.UpdatePost(ctx, id, update)
	switch {
	case err != nil:
		return s.finish(domain.BatchUpdate, item, err)
	case post == nil:
		item.Result = domain.ResultNotFound
	default:
		item.Title = post.Title
		item.Status = post.Status
		item.Result = domain.ResultOK
	}
	return s.finish(domain.BatchUpdate, item, nil)
}

func (s *BatchService) deleteOne(ctx context.Context, id string, dryRun bool) domain.BatchItem {
	item := domain.BatchItem{PostID: id}
	if dryRun {
		item.Result = domain.ResultDryRun
		return s.finish(domain.BatchDelete, item, nil)
	}

	deleted, err := s.posts.DeletePost(ctx, id)
	switch {
	case err != nil:
		return s.finish(domain.BatchDelete, item, err)
	case !deleted:
		item.Result = domain.ResultNotFound
	default:
		item.Result = domain.ResultOK
	}
	return s.finish(domain.BatchDelete, item, nil)
}

// finish records the outcome in logs and metrics. A non-nil err marks the
// item failed.
func (s *BatchService) finish(op domain.BatchOp, item domain.BatchItem, err error) domain.BatchItem {
	if err != nil {
		item.Result = domain.ResultFailed
		item.Error = err.Error()
	}
	metrics.BatchItemsTotal.WithLabelValues(string(op), string(item.Result)).Inc()

	ev := s.log.Info()
	if err != nil {
		ev = s.log.Warn().Err(err)
	}
	ev.Str("op", string(op)).
		Str("source", item.Source).
		Str("post_id", item.PostID).
		Str("result", string(item.Result)).
		Msg("batch item")
	return item
}

// matchFiles returns the sorted regular files in dir matching pattern.
func matchFiles(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrDirectoryNotFound, dir)
	}
	if pattern == "" {
		pattern = "*.md"
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("match %q: %w", pattern, err)
	}
	files := matches[:0]
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	slices.Sort(files)
	return files, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
