package task

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extension is the filename extension of task descriptor files.
const Extension = ".task"

// descriptor is the YAML shape of a task file.
type descriptor struct {
	Description string `yaml:"description"`
	Tag         string `yaml:"tag"`
	Priority    int    `yaml:"priority"`
	Type        string `yaml:"type"`
	Schedule    string `yaml:"schedule"`
	Before      string `yaml:"before"`
	Run         string `yaml:"run"`
	Handler     string `yaml:"handler"`
	After       string `yaml:"after"`
}

// LoadError reports a descriptor that could not be loaded into a task.
// Line is the source line of the failure when it is known, 0 otherwise.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", filepath.Base(e.Path), e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", filepath.Base(e.Path), e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// yamlLine matches the line number the yaml package embeds in its
// error strings.
var yamlLine = regexp.MustCompile(`line (\d+)`)

func errorLine(err error) int {
	m := yamlLine.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// Loader resolves descriptor files into tasks. Loading is stateless, so
// loading the same path twice is always safe.
type Loader struct {
	registry *Registry
}

// NewLoader creates a loader that resolves handler references against
// the given registry. A nil registry falls back to DefaultRegistry.
func NewLoader(registry *Registry) *Loader {
	if registry == nil {
		registry = DefaultRegistry
	}
	return &Loader{registry: registry}
}

// Load reads a descriptor file and returns the task it defines. The
// returned task may be non-runnable when the descriptor names neither a
// run step nor a handler; callers decide how to treat that. All other
// failures come back as a *LoadError.
func (l *Loader) Load(path string) (Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var desc descriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, &LoadError{Path: path, Line: errorLine(err), Err: err}
	}

	typ, err := parseType(desc.Type)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	def := Definition{
		name:        filepath.Base(path),
		tag:         desc.Tag,
		description: desc.Description,
		schedule:    desc.Schedule,
		priority:    desc.Priority,
		typ:         typ,
	}

	if desc.Handler != "" {
		if desc.Run != "" {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("descriptor sets both run and handler")}
		}
		handler := l.registry.Lookup(desc.Handler)
		if handler == nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("unknown handler %q", desc.Handler)}
		}
		return &HandlerTask{Definition: def, handler: handler}, nil
	}

	return &CommandTask{
		Definition: def,
		beforeCmd:  desc.Before,
		runCmd:     desc.Run,
		afterCmd:   desc.After,
		dir:        filepath.Dir(path),
	}, nil
}

func parseType(s string) (ExecutionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		// Descriptors without an explicit type run once.
		return Once, nil
	case string(Once):
		return Once, nil
	case string(Always):
		return Always, nil
	default:
		return "", fmt.Errorf("unknown execution type %q", s)
	}
}
