package algorithm

import (
	"sort"
	"sync"

	"github.com/kbukum/datakit/errors"
)

// Registry provides named algorithm lookup, e.g. to pick an algorithm from
// configuration at runtime.
type Registry struct {
	mu         sync.RWMutex
	algorithms map[string]*Algorithm
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{algorithms: make(map[string]*Algorithm)}
}

// Register adds a under its name, replacing any algorithm of the same name.
func (r *Registry) Register(a *Algorithm) error {
	if a == nil || a.Name() == "" {
		return errors.InvalidInput("name", "algorithm must have a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.algorithms[a.Name()] = a
	return nil
}

// Get retrieves an algorithm by name.
func (r *Registry) Get(name string) (*Algorithm, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.algorithms[name]
	return a, ok
}

// Lookup retrieves an algorithm by name, failing with MISSING_KEY when it
// is not registered.
func (r *Registry) Lookup(name string) (*Algorithm, error) {
	a, ok := r.Get(name)
	if !ok {
		return nil, errors.MissingKey(name)
	}
	return a, nil
}

// List returns sorted names of all registered algorithms.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.algorithms))
	for name := range r.algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
