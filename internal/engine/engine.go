// Package engine discovers task descriptor files across configured
// pool directories and executes the eligible ones in filename order.
//
// Eligibility for each file is decided by a fixed sequence of checks:
// load, validate, history skip, task-level ShouldRun, tag filter. Every
// per-file fault is isolated and recorded in the run summary; a bad
// task never aborts the rest of the run.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"chorus/internal/history"
	"chorus/internal/task"
)

// ErrInvalidConfiguration is returned by New when the pool list is
// empty or contains a blank entry.
var ErrInvalidConfiguration = errors.New("invalid pool configuration")

// ErrNotFound is returned by RunByName when no pool contains a file
// matching the requested name.
var ErrNotFound = errors.New("task not found")

// Loader resolves a descriptor file into a task. Loading the same path
// twice must be safe.
type Loader interface {
	Load(path string) (task.Task, error)
}

// History is the execution history consulted and updated during a run.
// *history.Store satisfies it.
type History interface {
	HasExecuted(name string) (bool, error)
	LastExecuted(name string) (*time.Time, error)
	MarkExecuted(rec history.Record) error
}

// Engine runs the tasks discovered in its pools. An Engine is not safe
// for concurrent runs; callers needing isolation use separate
// instances.
type Engine struct {
	pools  []string
	loader Loader
	store  History

	track bool
	force bool
}

// New creates an engine over the given pool directories. The pool list
// must be non-empty with no blank entries; pools that do not exist on
// disk are only warned about.
func New(pools []string, loader Loader, store History) (*Engine, error) {
	if len(pools) == 0 {
		return nil, fmt.Errorf("%w: no task pools configured", ErrInvalidConfiguration)
	}
	for _, pool := range pools {
		if strings.TrimSpace(pool) == "" {
			return nil, fmt.Errorf("%w: blank pool path", ErrInvalidConfiguration)
		}
		if _, err := os.Stat(pool); err != nil {
			log.Printf("[engine] warning: pool %s is not readable: %v", pool, err)
		}
	}

	return &Engine{
		pools:  pools,
		loader: loader,
		store:  store,
		track:  true,
	}, nil
}

// SetTracking toggles execution tracking. When off, history is neither
// consulted nor updated. Default on.
func (e *Engine) SetTracking(on bool) { e.track = on }

// SetForce toggles the force flag. When on, run-once tasks with a
// history record execute again. Force does not bypass ShouldRun or tag
// filtering. Default off.
func (e *Engine) SetForce(on bool) { e.force = on }

// Run executes every eligible task across all pools, in lexicographic
// filename order. tagFilter, when non-empty, restricts execution to
// tasks whose tag matches it exactly; untagged tasks never match.
func (e *Engine) Run(ctx context.Context, tagFilter string) *Summary {
	summary := newSummary()
	for _, path := range e.discover() {
		e.processFile(ctx, path, tagFilter, summary)
	}
	summary.FinishedAt = time.Now()
	return summary
}

// RunByName executes a single task identified by filename. The match
// is extension-insensitive: "seed" and "seed.task" resolve to the same
// file. ErrNotFound is returned when no pool contains the file.
func (e *Engine) RunByName(ctx context.Context, name string) (*Summary, error) {
	want := strings.TrimSuffix(filepath.Base(name), task.Extension)

	for _, path := range e.discover() {
		base := strings.TrimSuffix(filepath.Base(path), task.Extension)
		if base == want {
			summary := newSummary()
			e.processFile(ctx, path, "", summary)
			summary.FinishedAt = time.Now()
			return summary, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Discovered returns the task files the engine would process, in
// execution order. It exists for listing surfaces; Run performs its
// own discovery.
func (e *Engine) Discovered() []string {
	return e.discover()
}

// discover lists the descriptor files of every pool, de-duplicated by
// absolute path and sorted by basename. Unreadable pools are skipped.
func (e *Engine) discover() []string {
	seen := make(map[string]bool)
	var files []string

	for _, pool := range e.pools {
		entries, err := os.ReadDir(pool)
		if err != nil {
			log.Printf("[engine] skipping pool %s: %v", pool, err)
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), task.Extension) {
				continue
			}
			path := filepath.Join(pool, entry.Name())
			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			if seen[abs] {
				continue
			}
			seen[abs] = true
			files = append(files, path)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		bi, bj := filepath.Base(files[i]), filepath.Base(files[j])
		if bi != bj {
			return bi < bj
		}
		return files[i] < files[j]
	})

	return files
}

// processFile walks one file through the eligibility checks and, when
// they all pass, executes its lifecycle hooks and records the outcome.
func (e *Engine) processFile(ctx context.Context, path, tagFilter string, summary *Summary) {
	file := filepath.Base(path)

	t, err := e.loader.Load(path)
	if err != nil {
		line := 0
		var loadErr *task.LoadError
		if errors.As(err, &loadErr) {
			line = loadErr.Line
		}
		log.Printf("[engine] failed to load %s: %v", file, err)
		summary.addError(file, err, line)
		return
	}

	if !t.Runnable() {
		// Not a fault and not a skip: the file simply does not define
		// a handle, so it stays out of every summary count.
		log.Printf("[engine] %s does not define a handle, ignoring", file)
		return
	}

	if e.track && !e.force {
		executed, err := e.store.HasExecuted(t.Name())
		if err != nil {
			log.Printf("[engine] warning: history lookup for %s failed: %v", t.Name(), err)
		}
		if executed && t.Type() != task.Always {
			summary.addSkipped(file)
			return
		}
	}

	var lastRun *time.Time
	if e.track {
		lastRun, err = e.store.LastExecuted(t.Name())
		if err != nil {
			log.Printf("[engine] warning: history lookup for %s failed: %v", t.Name(), err)
			lastRun = nil
		}
	}
	if !t.ShouldRun(time.Now(), lastRun) {
		summary.addSkipped(file)
		return
	}

	if tagFilter != "" && t.Tag() != tagFilter {
		summary.addSkipped(file)
		return
	}

	if err := e.execute(ctx, t); err != nil {
		log.Printf("[engine] %s failed: %v", file, err)
		summary.addError(file, err, 0)
		return
	}

	if e.track {
		rec := history.Record{
			Name:        t.Name(),
			Tag:         t.Tag(),
			Description: t.Description(),
			Priority:    t.Priority(),
			Type:        string(t.Type()),
			ExecutedAt:  time.Now(),
		}
		if err := e.store.MarkExecuted(rec); err != nil {
			// The work was done; only the bookkeeping failed.
			log.Printf("[engine] warning: failed to record execution of %s: %v", t.Name(), err)
		}
	}

	summary.addExecuted(file)
}

// execute runs the lifecycle hooks in order. The first fault aborts
// the remaining hooks for this task. A panicking handler is converted
// into an error so it cannot take down the run.
func (e *Engine) execute(ctx context.Context, t task.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	if err := t.Before(ctx); err != nil {
		return fmt.Errorf("before: %w", err)
	}
	if err := t.Handle(ctx); err != nil {
		return err
	}
	if err := t.After(ctx); err != nil {
		return fmt.Errorf("after: %w", err)
	}
	return nil
}
