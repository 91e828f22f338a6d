package varsource

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory creates a Source from host configuration.
type Factory func(cfg map[string]any) (Source, error)

// Registry manages source factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, factory Factory) error {
	name = strings.TrimSpace(name)
	if name == "" || factory == nil {
		return ErrInvalidRegistration
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("varsource: source %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Create instantiates the source registered under name.
func (r *Registry) Create(name string, cfg map[string]any) (Source, error) {
	name = strings.TrimSpace(name)

	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}

	return factory(cfg)
}

// CreateAll instantiates every registered source with the same
// configuration. Sources created before a failure are closed.
func (r *Registry) CreateAll(cfg map[string]any) ([]Source, error) {
	names := r.List()
	sources := make([]Source, 0, len(names))
	for _, name := range names {
		s, err := r.Create(name, cfg)
		if err != nil {
			for _, created := range sources {
				_ = created.Close()
			}
			return nil, fmt.Errorf("varsource: create %q: %w", name, err)
		}
		sources = append(sources, s)
	}
	return sources, nil
}

// List returns registered source names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
