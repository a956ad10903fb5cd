// internal/application/mutation/machine.go
package mutation

import (
	"context"
	"log"
	"sync"
	"time"
)

// Machine sequences one key's collection mutation:
//
//	idle -> awaiting-options (add with options, none selected yet)
//	idle -> pending-{add,remove} -> succeeded-{add,remove} -> idle
//
// The succeeded -> idle edge is a scheduled cosmetic expiry; a new request
// cancels it and enters pending directly. Failures reset straight to idle
// (logged, not surfaced). The collection service is the sole source of
// truth for membership; the machine only mirrors it optimistically.
type Machine struct {
	key   Key
	svc   CollectionService
	gate  OptionGate
	reg   *Registry
	delay time.Duration
	sched scheduler

	mu           sync.Mutex
	state        State
	seq          uint64 // bumped on every transition; stale callbacks compare it
	ownsFlight   bool
	cancelExpiry func()
	saved        *Request // request parked while awaiting option selection
	released     bool
}

func newMachine(key Key, svc CollectionService, gate OptionGate, reg *Registry, sched scheduler) *Machine {
	return &Machine{
		key:   key,
		svc:   svc,
		gate:  gate,
		reg:   reg,
		delay: SucceededDisplayDelay(key.Kind),
		sched: sched,
		state: StateIdle,
	}
}

// State returns the current UI-facing state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Request runs one mutation attempt: toggle resolution, option gate,
// optimistic pending, external call, resolution.
//
// The pending state is set before the collection call and is observable
// concurrently. External failures are logged and reset the slot to idle;
// Request does not return them. The only errors returned are rejections
// that happen before any external call (in-flight, released).
func (m *Machine) Request(ctx context.Context, req Request) (State, error) {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return StateIdle, ErrReleased
	}
	if m.state.Pending() {
		st := m.state
		m.mu.Unlock()
		return st, ErrMutationInFlight
	}
	m.mu.Unlock()

	dir := req.Direction
	if dir != DirectionRemove {
		dir = DirectionAdd
	}

	// Toggle resolution: current membership wins over caller intent.
	in, err := m.svc.Contains(ctx, m.key)
	if err != nil {
		// best-effort; keep the caller's direction
		log.Printf("[mutation] membership check failed kind=%s productId=%s err=%v",
			m.key.Kind, m.key.ProductID, err)
	} else if in {
		dir = DirectionRemove
	}

	// Option gate (add only; removes never disambiguate options).
	if dir == DirectionAdd && len(req.SelectedOptions) == 0 {
		has, gerr := m.gate.HasSelectableOptions(ctx, m.key.ProductID)
		if gerr != nil {
			// missing/malformed product data counts as "no options"
			log.Printf("[mutation] option gate lookup failed productId=%s err=%v",
				m.key.ProductID, gerr)
			has = false
		}
		if has {
			return m.suspendForOptions(req)
		}
	}

	return m.execute(ctx, dir, req)
}

// ConfirmOptions resumes a suspended add with the buyer's selection.
func (m *Machine) ConfirmOptions(ctx context.Context, selectedOptions map[string]string) (State, error) {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return StateIdle, ErrReleased
	}
	if m.state != StateAwaitingOptions || m.saved == nil {
		st := m.state
		m.mu.Unlock()
		return st, ErrNoOptionSelection
	}
	req := *m.saved
	req.SelectedOptions = selectedOptions
	m.saved = nil
	m.state = StateIdle
	m.seq++
	m.mu.Unlock()

	return m.execute(ctx, DirectionAdd, req)
}

// CancelOptions abandons a suspended add. No side effect beyond returning
// to idle.
func (m *Machine) CancelOptions() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAwaitingOptions {
		return ErrNoOptionSelection
	}
	m.saved = nil
	m.state = StateIdle
	m.seq++
	return nil
}

func (m *Machine) suspendForOptions(req Request) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return StateIdle, ErrReleased
	}
	if m.state.Pending() {
		return m.state, ErrMutationInFlight
	}
	saved := req
	saved.Direction = DirectionAdd
	m.saved = &saved
	m.cancelExpiryLocked()
	m.state = StateAwaitingOptions
	m.seq++
	return StateAwaitingOptions, nil
}

// execute claims the shared flight, goes optimistically pending, performs
// the collection call, and resolves.
func (m *Machine) execute(ctx context.Context, dir Direction, req Request) (State, error) {
	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}

	// The registry is the single-flight gate across every instance of this
	// key's control. Claim it before transitioning; never queue.
	if !m.reg.Begin(m.key, dir, time.Now().UTC()) {
		return m.State(), ErrMutationInFlight
	}

	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		m.reg.End(m.key)
		return StateIdle, ErrReleased
	}
	m.cancelExpiryLocked() // a fresh request pre-empts the succeeded timer
	if dir == DirectionRemove {
		m.state = StatePendingRemove
	} else {
		m.state = StatePendingAdd
	}
	m.seq++
	seq := m.seq
	m.ownsFlight = true
	m.saved = nil
	m.mu.Unlock()

	var (
		out Outcome
		err error
	)
	if dir == DirectionRemove {
		out, err = m.svc.Remove(ctx, m.key)
	} else {
		out, err = m.svc.Add(ctx, m.key, qty, req.SelectedOptions)
	}

	m.resolve(seq, dir, out, err)
	m.reg.End(m.key)
	return m.State(), nil
}

// resolve applies the collection call's result, unless the slot moved on
// (released or superseded) in which case the resolution is dropped.
func (m *Machine) resolve(seq uint64, dir Direction, out Outcome, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ownsFlight = false

	if m.released || m.seq != seq {
		log.Printf("[mutation] resolution dropped kind=%s productId=%s dir=%s",
			m.key.Kind, m.key.ProductID, dir)
		return
	}

	if err != nil {
		// Failures reset to idle and are only logged; the buyer sees the
		// control return to its resting state.
		log.Printf("[mutation] %s %s failed productId=%s err=%v",
			dir, m.key.Kind, m.key.ProductID, err)
		m.state = StateIdle
		m.seq++
		return
	}

	if dir == DirectionRemove {
		m.state = StateSucceededRemove
	} else {
		m.state = StateSucceededAdd
	}
	m.seq++
	expirySeq := m.seq

	log.Printf("[mutation] %s %s ok productId=%s outcome=%s",
		dir, m.key.Kind, m.key.ProductID, out.Kind)

	m.cancelExpiry = m.sched.AfterFunc(m.delay, func() { m.expire(expirySeq) })
}

// expire returns a succeeded slot to idle after the display delay.
func (m *Machine) expire(seq uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released || m.seq != seq || !m.state.Succeeded() {
		return
	}
	m.state = StateIdle
	m.seq++
	m.cancelExpiry = nil
}

// mirrorPending reflects a flight begun by another instance of the same
// key's control. Called by the watcher on registry begin.
func (m *Machine) mirrorPending(dir Direction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released || m.ownsFlight {
		return
	}
	if m.state == StateAwaitingOptions {
		// keep the buyer's option picker open; reconcile handles settle
		return
	}
	m.cancelExpiryLocked()
	if dir == DirectionRemove {
		m.state = StatePendingRemove
	} else {
		m.state = StatePendingAdd
	}
	m.seq++
}

// reconcile forces a pending slot back to idle when the shared flight
// settled without this machine observing its own resolution. Called by the
// watcher on registry end.
func (m *Machine) reconcile() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released || m.ownsFlight {
		return
	}
	if !m.state.Pending() {
		return
	}
	log.Printf("[mutation] reconciled stale pending state kind=%s productId=%s",
		m.key.Kind, m.key.ProductID)
	m.state = StateIdle
	m.seq++
}

// release detaches the machine (consumer torn down). An in-flight call may
// still complete; its resolution is dropped without panicking.
func (m *Machine) release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = true
	m.saved = nil
	m.cancelExpiryLocked()
	m.state = StateIdle
	m.seq++
}

func (m *Machine) cancelExpiryLocked() {
	if m.cancelExpiry != nil {
		m.cancelExpiry()
		m.cancelExpiry = nil
	}
}
