package flow

import (
	"sort"
	"sync"

	"github.com/kbukum/actionflow/errors"
)

// RunnerFactory builds the run callable for an action definition.
type RunnerFactory func(def ActionDef) (RunFunc, error)

// Registry provides named runner lookup for workflows loaded from files.
type Registry struct {
	mu      sync.RWMutex
	runners map[string]RunnerFactory
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{runners: make(map[string]RunnerFactory)}
}

// Register adds a runner to the registry, replacing any previous one.
func (r *Registry) Register(name string, factory RunnerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners[name] = factory
}

// Get retrieves a runner by name.
func (r *Registry) Get(name string) (RunnerFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.runners[name]
	return f, ok
}

// List returns sorted names of all registered runners.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.runners))
	for name := range r.runners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the run callable for def with its runner.
func (r *Registry) Build(def ActionDef) (RunFunc, error) {
	factory, ok := r.Get(def.Runner())
	if !ok {
		return nil, errors.NotFound("runner", def.Runner()).WithDetail("action", def.Name)
	}
	run, err := factory(def)
	if err != nil {
		return nil, errors.InvalidAction(def.Name, err.Error()).WithCause(err)
	}
	if run == nil {
		return nil, errors.InvalidAction(def.Name, "runner "+def.Runner()+" returned no run callable")
	}
	return run, nil
}
