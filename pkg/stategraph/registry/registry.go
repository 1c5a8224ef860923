package registry

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicate indicates a key was registered twice.
var ErrDuplicate = errors.New("key already registered")

// Registry is a thread-safe collection of values indexed by key.
// Keys are registered at most once; re-registering is an error.
// Reads vastly outnumber writes here (compile once, invoke many), so it
// uses an RWMutex.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// New creates an empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		entries: make(map[K]V),
	}
}

// Register adds a value under key. Returns ErrDuplicate if the key is
// already present.
func (r *Registry[K, V]) Register(key K, value V) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("%w: %v", ErrDuplicate, key)
	}
	r.entries[key] = value
	return nil
}

// MustRegister registers a value, panicking on duplicate keys.
// Use during one-time setup where a duplicate is a programming error.
func (r *Registry[K, V]) MustRegister(key K, value V) {
	if err := r.Register(key, value); err != nil {
		panic(err)
	}
}

// Get returns the value for key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// Has reports whether key is registered.
func (r *Registry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Keys returns all registered keys in unspecified order.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of registered entries.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Range calls fn for each entry over a snapshot taken under the read lock.
// Iteration stops when fn returns false.
func (r *Registry[K, V]) Range(fn func(K, V) bool) {
	r.mu.RLock()
	snapshot := make(map[K]V, len(r.entries))
	for k, v := range r.entries {
		snapshot[k] = v
	}
	r.mu.RUnlock()

	for k, v := range snapshot {
		if !fn(k, v) {
			return
		}
	}
}
