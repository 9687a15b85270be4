package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrUnknown is wrapped by Lookup errors for names that were never set.
var ErrUnknown = errors.New("not registered")

// Registry maps names to values of one kind. It is safe for concurrent use.
type Registry[V any] struct {
	kind string

	mu    sync.RWMutex
	items map[string]V
}

// New creates an empty registry. kind names what it holds in Lookup errors,
// such as "store kind".
func New[V any](kind string) *Registry[V] {
	return &Registry[V]{kind: kind, items: map[string]V{}}
}

// Set adds or replaces the value for name.
func (r *Registry[V]) Set(name string, v V) {
	r.mu.Lock()
	r.items[name] = v
	r.mu.Unlock()
}

// Get returns the value for name.
func (r *Registry[V]) Get(name string) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[name]
	return v, ok
}

// Lookup is Get with an error listing the names that do exist.
func (r *Registry[V]) Lookup(name string) (V, error) {
	if v, ok := r.Get(name); ok {
		return v, nil
	}
	var zero V
	return zero, fmt.Errorf("unknown %s %q (available: %s): %w",
		r.kind, name, strings.Join(r.Names(), ", "), ErrUnknown)
}

// Ensure returns the value for name, first storing create() if there is
// none. create runs at most once per name.
func (r *Registry[V]) Ensure(name string, create func() V) V {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.items[name]; ok {
		return v
	}
	v := create()
	r.items[name] = v
	return v
}

// Remove deletes name and reports whether it was present.
func (r *Registry[V]) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[name]
	delete(r.items, name)
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry[V]) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Len returns the number of names.
func (r *Registry[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
