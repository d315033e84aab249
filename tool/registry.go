package tool

import (
	"fmt"
	"sync"
)

// Registry holds the named backend extensions for one tool class.
//
// Registration order is significant: the first successfully registered
// entry is the implicit default used when a caller supplies no extension
// name. Overwriting an existing entry keeps its original position, so
// replacing the default implementation does not change which name is
// "first". Writes happen during initialization; afterwards the registry
// is read-mostly.
type Registry[E any] struct {
	mu      sync.RWMutex
	entries map[string]E
	order   []string
}

// NewRegistry creates an empty extension registry.
func NewRegistry[E any]() *Registry[E] {
	return &Registry[E]{
		entries: make(map[string]E),
	}
}

// Register adds an extension under name. If the name already exists and
// overwrite is false, the call fails with ErrDuplicateExtension naming the
// conflicting key; silent shadowing between optional backends is never
// allowed. With overwrite the entry is replaced in place.
func (r *Registry[E]) Register(name string, ext E, overwrite bool) error {
	if name == "" {
		return fmt.Errorf("tool: extension name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		if !overwrite {
			return fmt.Errorf("%w: %s", ErrDuplicateExtension, name)
		}
	} else {
		r.order = append(r.order, name)
	}
	r.entries[name] = ext
	return nil
}

// Resolve returns the extension registered under name. An empty name
// selects the implicit default (first registered). A missing name is a
// hard failure, never a fallback: asking for a backend that does not
// exist is always a caller mistake.
func (r *Registry[E]) Resolve(name string) (E, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var zero E
	if name != "" {
		ext, ok := r.entries[name]
		if !ok {
			return zero, fmt.Errorf("%w: %s", ErrExtensionNotFound, name)
		}
		return ext, nil
	}

	if len(r.order) == 0 {
		return zero, ErrNoExtensionAvailable
	}
	return r.entries[r.order[0]], nil
}

// Default returns the name of the implicit default extension, if any.
func (r *Registry[E]) Default() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return "", false
	}
	return r.order[0], true
}

// Has returns true if name is registered.
func (r *Registry[E]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Names returns extension names in registration order.
func (r *Registry[E]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered extensions.
func (r *Registry[E]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
