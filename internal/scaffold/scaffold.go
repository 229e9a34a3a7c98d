// Package scaffold generates new task descriptor files.
//
// Generated filenames carry a sortable timestamp prefix so that the
// engine's lexicographic ordering executes tasks in creation order.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"chorus/internal/task"
)

// timestampLayout is the filename prefix format.
const timestampLayout = "2006_01_02_150405"

// Options describes the task file to generate.
type Options struct {
	Name        string
	Description string
	Tag         string
	Priority    int
	Type        task.ExecutionType
	Schedule    string
	Run         string
	Handler     string
}

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Generate writes a new descriptor file into dir and returns its path.
// The schedule, when present, is validated with a standard 5-field
// cron parser before anything is written.
func Generate(dir string, opts Options) (string, error) {
	if !namePattern.MatchString(opts.Name) {
		return "", fmt.Errorf("invalid task name %q: use lowercase letters, digits, _ and -", opts.Name)
	}

	if opts.Schedule != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(opts.Schedule); err != nil {
			return "", fmt.Errorf("invalid cron expression: %w", err)
		}
	}

	if opts.Type == "" {
		opts.Type = task.Once
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create pool directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s%s", time.Now().Format(timestampLayout), opts.Name, task.Extension)
	path := filepath.Join(dir, filename)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("task file already exists: %s", path)
	}

	if err := os.WriteFile(path, []byte(render(opts)), 0644); err != nil {
		return "", fmt.Errorf("failed to write task file: %w", err)
	}

	return path, nil
}

// render builds the descriptor body. Optional fields the caller left
// empty are emitted as commented hints so the file documents itself.
func render(opts Options) string {
	var sb strings.Builder

	if opts.Description != "" {
		fmt.Fprintf(&sb, "description: %s\n", opts.Description)
	} else {
		fmt.Fprintf(&sb, "description: %s\n", strings.ReplaceAll(opts.Name, "_", " "))
	}

	if opts.Tag != "" {
		fmt.Fprintf(&sb, "tag: %s\n", opts.Tag)
	} else {
		sb.WriteString("# tag: group-label\n")
	}

	if opts.Priority != 0 {
		fmt.Fprintf(&sb, "priority: %d\n", opts.Priority)
	}

	fmt.Fprintf(&sb, "type: %s\n", opts.Type)

	if opts.Schedule != "" {
		fmt.Fprintf(&sb, "schedule: %q\n", opts.Schedule)
	} else {
		sb.WriteString("# schedule: \"0 6 * * *\"\n")
	}

	sb.WriteString("\n")

	switch {
	case opts.Handler != "":
		fmt.Fprintf(&sb, "handler: %s\n", opts.Handler)
	case opts.Run != "":
		fmt.Fprintf(&sb, "run: %s\n", opts.Run)
	default:
		sb.WriteString("# before: echo preparing\n")
		sb.WriteString("run: echo replace me\n")
		sb.WriteString("# after: echo done\n")
	}

	return sb.String()
}
