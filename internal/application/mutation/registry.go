// internal/application/mutation/registry.go
package mutation

import (
	"sync"
	"time"
)

// PendingOperation describes an in-flight optimistic mutation for a key.
type PendingOperation struct {
	Direction Direction `json:"direction"`
	StartedAt time.Time `json:"startedAt"`
}

// RegistryListener observes registry changes for one key.
// op is non-nil when an operation begins and nil when it settles.
type RegistryListener func(key Key, op *PendingOperation)

// Registry tracks which keys currently have an optimistic mutation in
// flight, shared across every control instance that renders the same
// product. It is the keyed replacement for ambient per-product
// "isOptimisticallyAdding/Removing" flags: single-flight is enforced here,
// and watchers subscribe instead of polling.
type Registry struct {
	mu      sync.RWMutex
	ops     map[Key]PendingOperation
	subs    map[int]RegistryListener
	nextSub int
}

func NewRegistry() *Registry {
	return &Registry{
		ops:  map[Key]PendingOperation{},
		subs: map[int]RegistryListener{},
	}
}

// Begin claims the flight for key. It returns false when an operation is
// already in flight (the caller must reject, not queue).
func (r *Registry) Begin(key Key, dir Direction, now time.Time) bool {
	if !key.Valid() {
		return false
	}

	r.mu.Lock()
	if _, exists := r.ops[key]; exists {
		r.mu.Unlock()
		return false
	}
	op := PendingOperation{Direction: dir, StartedAt: now}
	r.ops[key] = op
	listeners := r.listenersLocked()
	r.mu.Unlock()

	notify(listeners, key, &op)
	return true
}

// End settles the flight for key. Ending an absent key is a no-op.
func (r *Registry) End(key Key) {
	r.mu.Lock()
	if _, exists := r.ops[key]; !exists {
		r.mu.Unlock()
		return
	}
	delete(r.ops, key)
	listeners := r.listenersLocked()
	r.mu.Unlock()

	notify(listeners, key, nil)
}

// Pending returns the in-flight operation for key, if any.
func (r *Registry) Pending(key Key) (PendingOperation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[key]
	return op, ok
}

// Subscribe registers a listener for every key. The returned func
// unsubscribes.
func (r *Registry) Subscribe(fn RegistryListener) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// listenersLocked snapshots subscribers so notification happens outside the
// lock (listeners may call back into the registry).
func (r *Registry) listenersLocked() []RegistryListener {
	out := make([]RegistryListener, 0, len(r.subs))
	for _, fn := range r.subs {
		out = append(out, fn)
	}
	return out
}

func notify(listeners []RegistryListener, key Key, op *PendingOperation) {
	for _, fn := range listeners {
		fn(key, op)
	}
}
