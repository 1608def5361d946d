package typedctx

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry is a keyed store of heterogeneous values.
// Each entry holds a value of some concrete type under a unique string key;
// the static type is erased on insert and re-asserted on every typed access.
// It uses sync.RWMutex so typed reads stay cheap under read-heavy workloads.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]any
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]any),
	}
}

// Insert stores value under key.
// It fails with a *DuplicateKeyError if the key is already present; the
// registry is unchanged in that case.
//
// Values are stored and handed back by value: Read returns a copy, and
// WriteWith copies out, mutates, and stores back. Inserting a pointer type
// works but forfeits that isolation, since every copy aliases the same
// pointee.
func (r *Registry) Insert(key string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[key]; ok {
		return &DuplicateKeyError{Key: key}
	}
	r.entries[key] = value
	return nil
}

// Read returns a copy of the entry at key asserted to type T.
// It returns the zero value and false both when the key is missing and when
// the stored concrete type is not T; the two cases are deliberately
// indistinguishable here. Callers that need to know which one happened use
// WriteWith and inspect the returned *AccessError.
//
// Mutating the returned value never affects the stored entry. WriteWith is
// the only way to persist a change.
func Read[T any](r *Registry, key string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// WriteWith locates the entry at key, asserts it to type T, and invokes
// mutate with exclusive access to it. The mutated value is stored back into
// the registry before WriteWith returns; this is the only sanctioned way to
// persist a change to an entry.
//
// It fails with a *AccessError wrapping ErrNotFound when the key is absent,
// or wrapping ErrTypeMismatch (naming the key and both types) when the stored
// concrete type is not T. The mutator is not called on failure.
//
// The registry's write lock is held for the duration of the mutator, so the
// mutator must not call back into the same registry.
func WriteWith[T any](r *Registry, key string, mutate func(*T)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.entries[key]
	if !ok {
		return &AccessError{Key: key, Err: ErrNotFound}
	}
	t, ok := v.(T)
	if !ok {
		return &AccessError{
			Key:      key,
			Expected: typeName[T](),
			Stored:   fmt.Sprintf("%T", v),
			Err:      ErrTypeMismatch,
		}
	}

	mutate(&t)
	r.entries[key] = t
	return nil
}

// Has returns true if the key exists in the registry.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Keys returns all keys in the registry.
// The order is not guaranteed.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of entries in the registry.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Range iterates over all entries in the registry as (key, erased value)
// pairs. If fn returns false, iteration stops.
//
// Range iterates over a snapshot of the registry, so it is safe to call
// Insert during iteration without affecting the current iteration. The
// yielded values are the stored entries; treat them as read-only.
func (r *Registry) Range(fn func(key string, value any) bool) {
	// Take a snapshot under read lock
	r.mu.RLock()
	snapshot := make(map[string]any, len(r.entries))
	for k, v := range r.entries {
		snapshot[k] = v
	}
	r.mu.RUnlock()

	// Iterate over snapshot without holding lock
	for k, v := range snapshot {
		if !fn(k, v) {
			return
		}
	}
}

// typeName returns the display name of T for error messages.
func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
