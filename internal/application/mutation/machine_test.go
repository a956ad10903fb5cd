// internal/application/mutation/machine_test.go
package mutation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// fakes
// -------------------------

type fakeIdentity struct {
	avatarID string
	ok       bool
}

func (f fakeIdentity) AvatarID(ctx context.Context) (string, bool) {
	return f.avatarID, f.ok
}

type fakeGate struct {
	options map[string]bool
	err     error
}

func (f fakeGate) HasSelectableOptions(ctx context.Context, productID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.options[productID], nil
}

type addCall struct {
	key  Key
	qty  int
	opts map[string]string
}

type fakeCollection struct {
	mu          sync.Mutex
	members     map[Key]bool
	addCalls    []addCall
	removeCalls []Key
	addErr      error
	removeErr   error

	// when set, Add/Remove signal started and block until released
	started chan struct{}
	release chan struct{}
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{members: map[Key]bool{}}
}

func (f *fakeCollection) blockCalls() {
	f.started = make(chan struct{}, 8)
	f.release = make(chan struct{})
}

func (f *fakeCollection) Add(ctx context.Context, key Key, qty int, opts map[string]string) (Outcome, error) {
	f.mu.Lock()
	f.addCalls = append(f.addCalls, addCall{key: key, qty: qty, opts: opts})
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}
	if f.addErr != nil {
		return Outcome{}, f.addErr
	}
	f.mu.Lock()
	f.members[key] = true
	f.mu.Unlock()
	return Outcome{Kind: OutcomeAdded}, nil
}

func (f *fakeCollection) Remove(ctx context.Context, key Key) (Outcome, error) {
	f.mu.Lock()
	f.removeCalls = append(f.removeCalls, key)
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}
	if f.removeErr != nil {
		return Outcome{}, f.removeErr
	}
	f.mu.Lock()
	delete(f.members, key)
	f.mu.Unlock()
	return Outcome{Kind: OutcomeRemoved}, nil
}

func (f *fakeCollection) Contains(ctx context.Context, key Key) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members[key], nil
}

func (f *fakeCollection) addCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.addCalls)
}

func (f *fakeCollection) removeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.removeCalls)
}

type scheduled struct {
	fn        func()
	cancelled bool
}

// fakeScheduler collects expiry callbacks; FireAll runs the live ones.
type fakeScheduler struct {
	mu   sync.Mutex
	fns  []*scheduled
	last time.Duration
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) func() {
	s.mu.Lock()
	entry := &scheduled{fn: f}
	s.fns = append(s.fns, entry)
	s.last = d
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		entry.cancelled = true
		s.mu.Unlock()
	}
}

func (s *fakeScheduler) FireAll() {
	s.mu.Lock()
	pending := s.fns
	s.fns = nil
	s.mu.Unlock()
	for _, e := range pending {
		if !e.cancelled {
			e.fn()
		}
	}
}

// -------------------------
// wiring helper
// -------------------------

type fixture struct {
	ctx   context.Context
	coord *Coordinator
	svc   *fakeCollection
	sched *fakeScheduler
	gate  fakeGate
}

func newFixture(t *testing.T, gate fakeGate) *fixture {
	t.Helper()
	svc := newFakeCollection()
	sched := &fakeScheduler{}
	coord := NewCoordinator(svc, gate, fakeIdentity{avatarID: "av-1", ok: true}, nil)
	coord.sched = sched
	return &fixture{ctx: context.Background(), coord: coord, svc: svc, sched: sched, gate: gate}
}

// -------------------------
// tests
// -------------------------

func TestUnauthenticatedGuard(t *testing.T) {
	svc := newFakeCollection()
	coord := NewCoordinator(svc, fakeGate{}, fakeIdentity{ok: false}, nil)

	st, err := coord.Request(context.Background(), "p-1", KindCart, Request{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, StateIdle, st)
	assert.Zero(t, svc.addCount())
	assert.Zero(t, svc.removeCount())
}

func TestAddWithoutOptionsSucceeds(t *testing.T) {
	f := newFixture(t, fakeGate{})

	st, err := f.coord.Request(f.ctx, "p-1", KindCart, Request{})
	require.NoError(t, err)
	assert.Equal(t, StateSucceededAdd, st)
	require.Equal(t, 1, f.svc.addCount())
	assert.Equal(t, 1, f.svc.addCalls[0].qty)

	// display delay matches the kind
	assert.Equal(t, 1500*time.Millisecond, f.sched.last)

	f.sched.FireAll()
	st, err = f.coord.StateOf(f.ctx, "p-1", KindCart)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, st)
}

func TestFavoriteDisplayDelay(t *testing.T) {
	f := newFixture(t, fakeGate{})

	st, err := f.coord.Request(f.ctx, "p-1", KindFavorite, Request{})
	require.NoError(t, err)
	assert.Equal(t, StateSucceededAdd, st)
	assert.Equal(t, 2*time.Second, f.sched.last)
}

func TestGateLawSuspendsWithoutExternalCall(t *testing.T) {
	f := newFixture(t, fakeGate{options: map[string]bool{"p-1": true}})

	st, err := f.coord.Request(f.ctx, "p-1", KindCart, Request{})
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingOptions, st)
	assert.Zero(t, f.svc.addCount())

	_, inFlight := f.coord.Registry().Pending(NewKey("av-1", "p-1", KindCart))
	assert.False(t, inFlight)
}

func TestOptionConfirmationScenario(t *testing.T) {
	// product p-1: no color images, attributes {size: "M,L,XL"}
	f := newFixture(t, fakeGate{options: map[string]bool{"p-1": true}})

	st, err := f.coord.Request(f.ctx, "p-1", KindCart, Request{})
	require.NoError(t, err)
	require.Equal(t, StateAwaitingOptions, st)
	require.Zero(t, f.svc.addCount())

	st, err = f.coord.ConfirmOptions(f.ctx, "p-1", KindCart, map[string]string{"size": "L"})
	require.NoError(t, err)
	assert.Equal(t, StateSucceededAdd, st)

	require.Equal(t, 1, f.svc.addCount())
	call := f.svc.addCalls[0]
	assert.Equal(t, 1, call.qty)
	assert.Equal(t, map[string]string{"size": "L"}, call.opts)

	// visible for the configured delay, then idle
	f.sched.FireAll()
	st, err = f.coord.StateOf(f.ctx, "p-1", KindCart)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, st)
}

func TestOptionCancellationHasNoSideEffect(t *testing.T) {
	f := newFixture(t, fakeGate{options: map[string]bool{"p-1": true}})

	_, err := f.coord.Request(f.ctx, "p-1", KindCart, Request{})
	require.NoError(t, err)

	require.NoError(t, f.coord.CancelOptions(f.ctx, "p-1", KindCart))
	st, err := f.coord.StateOf(f.ctx, "p-1", KindCart)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, st)
	assert.Zero(t, f.svc.addCount())

	// confirming after cancel is rejected
	_, err = f.coord.ConfirmOptions(f.ctx, "p-1", KindCart, map[string]string{"size": "L"})
	assert.ErrorIs(t, err, ErrNoOptionSelection)
}

func TestRemoveSkipsOptionGate(t *testing.T) {
	f := newFixture(t, fakeGate{options: map[string]bool{"p-1": true}})
	key := NewKey("av-1", "p-1", KindCart)
	f.svc.members[key] = true

	st, err := f.coord.Request(f.ctx, "p-1", KindCart, Request{})
	require.NoError(t, err)
	assert.Equal(t, StateSucceededRemove, st)
	assert.Equal(t, 1, f.svc.removeCount())
	assert.Zero(t, f.svc.addCount())
}

func TestToggleLawForcesRemove(t *testing.T) {
	f := newFixture(t, fakeGate{})
	key := NewKey("av-1", "p-1", KindCart)
	f.svc.members[key] = true

	// caller asks for add; membership forces remove
	st, err := f.coord.Request(f.ctx, "p-1", KindCart, Request{Direction: DirectionAdd})
	require.NoError(t, err)
	assert.Equal(t, StateSucceededRemove, st)
	assert.Equal(t, 1, f.svc.removeCount())
	assert.Zero(t, f.svc.addCount())
}

func TestSingleFlightLaw(t *testing.T) {
	f := newFixture(t, fakeGate{})
	f.svc.blockCalls()

	done := make(chan State, 1)
	go func() {
		st, _ := f.coord.Request(f.ctx, "p-1", KindCart, Request{})
		done <- st
	}()

	<-f.svc.started // first call is in flight

	st, err := f.coord.Request(f.ctx, "p-1", KindCart, Request{})
	assert.ErrorIs(t, err, ErrMutationInFlight)
	assert.Equal(t, StatePendingAdd, st)

	close(f.svc.release)
	assert.Equal(t, StateSucceededAdd, <-done)
	assert.Equal(t, 1, f.svc.addCount())
}

func TestExternalFailureResetsToIdle(t *testing.T) {
	f := newFixture(t, fakeGate{})
	f.svc.addErr = errors.New("service unavailable")

	st, err := f.coord.Request(f.ctx, "p-1", KindCart, Request{})
	require.NoError(t, err) // failures are not surfaced, only logged
	assert.Equal(t, StateIdle, st)
	assert.Equal(t, 1, f.svc.addCount())

	// the flight settled; nothing left in the registry
	_, inFlight := f.coord.Registry().Pending(NewKey("av-1", "p-1", KindCart))
	assert.False(t, inFlight)
}

func TestNewRequestPreemptsSucceededTimer(t *testing.T) {
	f := newFixture(t, fakeGate{})

	st, err := f.coord.Request(f.ctx, "p-1", KindCart, Request{})
	require.NoError(t, err)
	require.Equal(t, StateSucceededAdd, st)

	// second toggle while still showing succeeded-add: now a member, so it
	// resolves to remove; the stale expiry must not clobber the new state
	st, err = f.coord.Request(f.ctx, "p-1", KindCart, Request{})
	require.NoError(t, err)
	assert.Equal(t, StateSucceededRemove, st)

	f.sched.FireAll()
	st, err = f.coord.StateOf(f.ctx, "p-1", KindCart)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, st)
}

func TestReleaseDropsLateResolution(t *testing.T) {
	f := newFixture(t, fakeGate{})
	f.svc.blockCalls()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.coord.Request(f.ctx, "p-1", KindCart, Request{})
	}()

	<-f.svc.started
	require.NoError(t, f.coord.Release(f.ctx, "p-1", KindCart))

	close(f.svc.release)
	<-done // must complete without panic

	st, err := f.coord.StateOf(f.ctx, "p-1", KindCart)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, st)
}

func TestCartAndFavoriteSlotsAreIndependent(t *testing.T) {
	f := newFixture(t, fakeGate{})
	f.svc.blockCalls()

	cartDone := make(chan struct{})
	go func() {
		defer close(cartDone)
		_, _ = f.coord.Request(f.ctx, "p-1", KindCart, Request{})
	}()
	<-f.svc.started

	// favorites for the same product is a different key: not rejected
	favErr := make(chan error, 1)
	go func() {
		_, err := f.coord.Request(f.ctx, "p-1", KindFavorite, Request{})
		favErr <- err
	}()
	<-f.svc.started

	close(f.svc.release)
	<-cartDone
	assert.NoError(t, <-favErr)
}
