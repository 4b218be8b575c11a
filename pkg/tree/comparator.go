// Package tree walks two directory trees in lock-step and reports, level by
// level, what exists on one side only, what is identical and what differs.
//
// The walk is depth-first pre-order: a level's subtree_entered event comes
// before its own entries, and a level's entries come before any of its
// subdirectories. Pending levels are kept on an explicit stack, so tree depth
// is not bounded by the goroutine stack.
//
// Any filesystem failure during the walk aborts the run with the error;
// nothing is skipped and no partial result is guaranteed.
package tree

import (
	"context"
	"fmt"
	"sync"

	"github.com/sdejongh/dirdiff/pkg/compare"
	"github.com/sdejongh/dirdiff/pkg/logging"
	"github.com/sdejongh/dirdiff/pkg/models"
	"github.com/sdejongh/dirdiff/pkg/storage"
)

// Sink receives report events in traversal order
type Sink interface {
	Emit(ctx context.Context, ev models.Event) error
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(ctx context.Context, ev models.Event) error

// Emit calls f
func (f SinkFunc) Emit(ctx context.Context, ev models.Event) error {
	return f(ctx, ev)
}

// Options configures a tree Comparator
type Options struct {
	// Ignore holds patterns for entries left out on both sides
	Ignore []string

	// Workers bounds concurrent file comparisons within one level.
	// Values below 2 compare files sequentially.
	Workers int
}

// Comparator orchestrates the comparison of two directory trees
type Comparator struct {
	files   compare.Comparator
	ignore  *Matcher
	workers int
	logger  logging.Logger
}

// NewComparator creates a tree comparator.
// files decides the result for each pair of common files.
func NewComparator(files compare.Comparator, opts Options, logger logging.Logger) *Comparator {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Comparator{
		files:   files,
		ignore:  NewMatcher(opts.Ignore),
		workers: workers,
		logger:  logger,
	}
}

// Compare walks both trees from their roots and emits every event to sink.
// Both backends must already be rooted at existing directories.
func (c *Comparator) Compare(ctx context.Context, left, right storage.Backend, sink Sink) error {
	stack := []string{""}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		subdirs, err := c.compareLevel(ctx, left, right, dir, sink)
		if err != nil {
			return err
		}

		// Push in reverse so the first subdirectory is visited next
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, left.Join(dir, subdirs[i]))
		}
	}

	return nil
}

// compareLevel emits the events of one directory level and returns its
// common subdirectories
func (c *Comparator) compareLevel(ctx context.Context, left, right storage.Backend, dir string, sink Sink) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	leftEntries, err := c.list(ctx, left, dir)
	if err != nil {
		return nil, err
	}
	rightEntries, err := c.list(ctx, right, dir)
	if err != nil {
		return nil, err
	}

	dc := models.Partition(leftEntries, rightEntries)

	c.logger.Debug(ctx, "comparing directory", logging.Fields{
		"path":         displayPath(dir),
		"left_only":    len(dc.LeftOnly),
		"right_only":   len(dc.RightOnly),
		"common_files": len(dc.CommonFiles),
		"common_dirs":  len(dc.CommonDirs),
		"mismatched":   len(dc.Mismatched),
	})

	emit := func(ev models.Event) error {
		ev.Path = dir
		return sink.Emit(ctx, ev)
	}

	if err := emit(models.Event{Type: models.EventSubtreeEntered}); err != nil {
		return nil, err
	}

	for _, name := range dc.LeftOnly {
		if err := emit(models.Event{Type: models.EventLeftOnly, Name: name}); err != nil {
			return nil, err
		}
	}
	for _, name := range dc.RightOnly {
		if err := emit(models.Event{Type: models.EventRightOnly, Name: name}); err != nil {
			return nil, err
		}
	}
	for _, m := range dc.Mismatched {
		if err := emit(models.Event{
			Type:      models.EventTypeMismatch,
			Name:      m.Name,
			LeftKind:  m.LeftKind,
			RightKind: m.RightKind,
		}); err != nil {
			return nil, err
		}
	}

	results, err := c.compareFiles(ctx, left, right, dir, dc.CommonFiles)
	if err != nil {
		return nil, err
	}
	sizes(results, leftEntries, rightEntries)

	// Differing and identical files are reported as two separate groups
	for _, r := range results {
		if r.Status != models.StatusDiffers {
			continue
		}
		if err := emit(models.Event{Type: models.EventDiffers, Name: r.Name, Result: r}); err != nil {
			return nil, err
		}
		if r.Preview.Truncated {
			if err := emit(models.Event{Type: models.EventTruncated, Name: r.Name, Result: r}); err != nil {
				return nil, err
			}
		}
	}
	for _, r := range results {
		if r.Status != models.StatusIdentical {
			continue
		}
		if err := emit(models.Event{Type: models.EventIdentical, Name: r.Name, Result: r}); err != nil {
			return nil, err
		}
	}

	return dc.CommonDirs, nil
}

// list reads one side of a level and drops ignored entries
func (c *Comparator) list(ctx context.Context, backend storage.Backend, dir string) ([]models.Entry, error) {
	entries, err := backend.ReadDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	if c.ignore.Empty() {
		return entries, nil
	}

	kept := entries[:0]
	for _, e := range entries {
		if c.ignore.Match(backend.Join(dir, e.Name), e.IsDir()) {
			continue
		}
		kept = append(kept, e)
	}
	return kept, nil
}

// compareFiles compares the common files of one level.
// Results are returned in the order of names, whatever the worker count.
func (c *Comparator) compareFiles(ctx context.Context, left, right storage.Backend, dir string, names []string) ([]*models.FileResult, error) {
	results := make([]*models.FileResult, len(names))

	if c.workers < 2 || len(names) < 2 {
		for i, name := range names {
			r, err := c.compareFile(ctx, left, right, dir, name)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		firstErr  error
		semaphore = make(chan struct{}, c.workers)
	)

dispatch:
	for i, name := range names {
		// Acquire semaphore slot
		select {
		case semaphore <- struct{}{}:
		case <-workCtx.Done():
			break dispatch
		}

		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			r, err := c.compareFile(workCtx, left, right, dir, name)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				return
			}
			results[i] = r
		}(i, name)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Comparator) compareFile(ctx context.Context, left, right storage.Backend, dir, name string) (*models.FileResult, error) {
	leftPath := left.Join(dir, name)
	rightPath := right.Join(dir, name)

	r, err := c.files.Compare(ctx, left, right, leftPath, rightPath)
	if err != nil {
		return nil, fmt.Errorf("failed to compare %s: %w", displayPath(leftPath), err)
	}
	r.Name = name

	c.logger.Debug(ctx, "compared file", logging.Fields{
		"path":   leftPath,
		"status": string(r.Status),
		"kind":   string(r.Kind),
	})

	return r, nil
}

// sizes copies entry sizes into the results
func sizes(results []*models.FileResult, left, right []models.Entry) {
	leftSize := make(map[string]int64, len(left))
	for _, e := range left {
		leftSize[e.Name] = e.Size
	}
	rightSize := make(map[string]int64, len(right))
	for _, e := range right {
		rightSize[e.Name] = e.Size
	}
	for _, r := range results {
		r.LeftSize = leftSize[r.Name]
		r.RightSize = rightSize[r.Name]
	}
}

func displayPath(p string) string {
	if p == "" {
		return "."
	}
	return p
}
