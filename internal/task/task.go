// Package task defines the unit of work the engine executes.
//
// A task is discovered as a descriptor file in a pool directory and
// resolved into one of two concrete variants: a CommandTask whose steps
// are shell commands, or a HandlerTask whose handle is a Go function
// registered in a Registry. Both variants share the same metadata
// (tag, priority, description, execution type, optional cron schedule)
// and the same lifecycle: Before, Handle, After.
package task

import (
	"context"
	"os"
	"os/exec"
	"time"

	"chorus/internal/cronexpr"
)

// ExecutionType controls history-based skipping. Once tasks are skipped
// after their first recorded completion; Always tasks never are.
type ExecutionType string

const (
	Once   ExecutionType = "once"
	Always ExecutionType = "always"
)

// Task is the contract every runnable unit implements.
type Task interface {
	// Name returns the task's source filename. This is the task's
	// identity for history purposes: renaming the file loses its
	// execution history.
	Name() string

	// Tag returns the free-form grouping label, or "" when untagged.
	Tag() string

	// Priority is an advisory ordering hint (lower = earlier). The
	// engine records it but orders strictly by filename.
	Priority() int

	// Description returns the human-readable description, or "".
	Description() string

	// Type returns the execution type. Descriptors without an explicit
	// type default to Once.
	Type() ExecutionType

	// Schedule returns the 5-field cron expression, or "" when the
	// task is always due.
	Schedule() string

	// Runnable reports whether the task exposes a handle at all.
	// Non-runnable tasks are excluded from a run without counting as
	// executed, skipped or errored.
	Runnable() bool

	// ShouldRun is the task-level veto, independent of the engine's
	// own skip logic. lastRun is the last recorded execution time, or
	// nil when there is none.
	ShouldRun(now time.Time, lastRun *time.Time) bool

	// Lifecycle hooks, executed in order. Before and After may be
	// no-ops; Handle carries the task's actual effect.
	Before(ctx context.Context) error
	Handle(ctx context.Context) error
	After(ctx context.Context) error
}

// Definition holds the metadata shared by every task variant and the
// default ShouldRun policy.
type Definition struct {
	name        string
	tag         string
	description string
	schedule    string
	priority    int
	typ         ExecutionType
}

func (d *Definition) Name() string        { return d.name }
func (d *Definition) Tag() string         { return d.tag }
func (d *Definition) Priority() int       { return d.priority }
func (d *Definition) Description() string { return d.description }
func (d *Definition) Type() ExecutionType { return d.typ }
func (d *Definition) Schedule() string    { return d.schedule }

// ShouldRun returns true for unscheduled tasks. Scheduled tasks run
// when the schedule is currently due and the task has not already run
// within the same schedule period.
func (d *Definition) ShouldRun(now time.Time, lastRun *time.Time) bool {
	if d.schedule == "" {
		return true
	}
	if !cronexpr.IsDue(d.schedule, now) {
		return false
	}
	if lastRun != nil && cronexpr.SamePeriod(d.schedule, *lastRun, now) {
		return false
	}
	return true
}

// CommandTask runs shell commands for its lifecycle steps. The run step
// is the handle; before and after are optional.
type CommandTask struct {
	Definition

	beforeCmd string
	runCmd    string
	afterCmd  string
	dir       string
}

func (t *CommandTask) Runnable() bool { return t.runCmd != "" }

func (t *CommandTask) Before(ctx context.Context) error { return t.run(ctx, t.beforeCmd) }
func (t *CommandTask) Handle(ctx context.Context) error { return t.run(ctx, t.runCmd) }
func (t *CommandTask) After(ctx context.Context) error  { return t.run(ctx, t.afterCmd) }

// run executes a single step via the shell, in the directory the
// descriptor was discovered in. An empty step is a no-op.
func (t *CommandTask) run(ctx context.Context, command string) error {
	if command == "" {
		return nil
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = t.dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Handler is a registered Go implementation of a task's handle.
type Handler func(ctx context.Context) error

// HandlerTask resolves its handle from the handler registry. Before and
// After are no-ops for this variant.
type HandlerTask struct {
	Definition

	handler Handler
}

func (t *HandlerTask) Runnable() bool { return t.handler != nil }

func (t *HandlerTask) Before(ctx context.Context) error { return nil }
func (t *HandlerTask) After(ctx context.Context) error  { return nil }

func (t *HandlerTask) Handle(ctx context.Context) error {
	return t.handler(ctx)
}
