// internal/application/mutation/coordinator.go
package mutation

import (
	"context"
	"sync"
)

// Coordinator hands out one Machine per (avatar, product, kind) and applies
// the unauthenticated guard before any slot is touched. It is the single
// entry point handlers call.
type Coordinator struct {
	svc      CollectionService
	gate     OptionGate
	identity IdentityProvider
	reg      *Registry
	sched    scheduler

	mu       sync.Mutex
	machines map[Key]*Machine
}

func NewCoordinator(svc CollectionService, gate OptionGate, identity IdentityProvider, reg *Registry) *Coordinator {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Coordinator{
		svc:      svc,
		gate:     gate,
		identity: identity,
		reg:      reg,
		sched:    realScheduler{},
		machines: map[Key]*Machine{},
	}
}

// Registry exposes the shared pending registry (for watchers and read
// models).
func (c *Coordinator) Registry() *Registry {
	return c.reg
}

// Request enters the state machine for (buyer, productID, kind).
// Returns ErrUnauthenticated without any state change or external call
// when the context carries no authenticated buyer.
func (c *Coordinator) Request(ctx context.Context, productID string, kind Kind, req Request) (State, error) {
	k, err := c.resolveKey(ctx, productID, kind)
	if err != nil {
		return StateIdle, err
	}
	return c.machine(k).Request(ctx, req)
}

// ConfirmOptions resumes a suspended add with the buyer's selection.
func (c *Coordinator) ConfirmOptions(ctx context.Context, productID string, kind Kind, selectedOptions map[string]string) (State, error) {
	k, err := c.resolveKey(ctx, productID, kind)
	if err != nil {
		return StateIdle, err
	}
	m := c.peek(k)
	if m == nil {
		return StateIdle, ErrNoOptionSelection
	}
	return m.ConfirmOptions(ctx, selectedOptions)
}

// CancelOptions abandons a suspended add.
func (c *Coordinator) CancelOptions(ctx context.Context, productID string, kind Kind) error {
	k, err := c.resolveKey(ctx, productID, kind)
	if err != nil {
		return err
	}
	m := c.peek(k)
	if m == nil {
		return ErrNoOptionSelection
	}
	return m.CancelOptions()
}

// StateOf reports the slot's current state (idle when no slot exists yet).
func (c *Coordinator) StateOf(ctx context.Context, productID string, kind Kind) (State, error) {
	k, err := c.resolveKey(ctx, productID, kind)
	if err != nil {
		return StateIdle, err
	}
	m := c.peek(k)
	if m == nil {
		return StateIdle, nil
	}
	return m.State(), nil
}

// Release detaches the slot (consumer torn down). An in-flight collection
// call is allowed to complete; its resolution is dropped.
func (c *Coordinator) Release(ctx context.Context, productID string, kind Kind) error {
	k, err := c.resolveKey(ctx, productID, kind)
	if err != nil {
		return err
	}

	c.mu.Lock()
	m := c.machines[k]
	delete(c.machines, k)
	c.mu.Unlock()

	if m != nil {
		m.release()
	}
	return nil
}

func (c *Coordinator) resolveKey(ctx context.Context, productID string, kind Kind) (Key, error) {
	avatarID, ok := c.identity.AvatarID(ctx)
	if !ok {
		return Key{}, ErrUnauthenticated
	}
	k := NewKey(avatarID, productID, kind)
	if !k.Valid() {
		return Key{}, ErrInvalidKey
	}
	return k, nil
}

func (c *Coordinator) machine(k Key) *Machine {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.machines[k]; ok {
		return m
	}
	m := newMachine(k, c.svc, c.gate, c.reg, c.sched)
	c.machines[k] = m
	return m
}

func (c *Coordinator) peek(k Key) *Machine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machines[k]
}
