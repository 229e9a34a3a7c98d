package task

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps handler names to registered Go handlers. Descriptors
// reference handlers by name, so no task source is ever evaluated at
// runtime.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler to the registry.
// It panics if a handler with the same name is already registered.
func (r *Registry) Register(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		panic(fmt.Sprintf("handler already registered: %s", name))
	}
	r.handlers[name] = handler
}

// Lookup retrieves a handler by name. Returns nil if no handler with
// that name is registered.
func (r *Registry) Lookup(name string) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.handlers[name]
}

// Names returns the names of all registered handlers, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// DefaultRegistry is the registry used by handlers that register
// themselves via init().
var DefaultRegistry = NewRegistry()

// Register adds a handler to the default registry.
func Register(name string, handler Handler) {
	DefaultRegistry.Register(name, handler)
}
