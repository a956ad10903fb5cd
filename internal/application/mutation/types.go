// internal/application/mutation/types.go
package mutation

import (
	"errors"
	"strings"
	"time"
)

// Kind is the collection a mutation targets.
type Kind string

const (
	KindCart     Kind = "cart"
	KindFavorite Kind = "favorite"
)

func (k Kind) Valid() bool {
	return k == KindCart || k == KindFavorite
}

// Direction is the caller-requested direction. The effective direction is
// resolved against current membership (toggle semantics), so callers
// normally pass DirectionAdd and let the machine flip it.
type Direction string

const (
	DirectionAdd    Direction = "add"
	DirectionRemove Direction = "remove"
)

// State is the per (avatar, product, kind) UI-facing mutation state.
type State string

const (
	StateIdle            State = "idle"
	StateAwaitingOptions State = "awaiting-options"
	StatePendingAdd      State = "pending-add"
	StatePendingRemove   State = "pending-remove"
	StateSucceededAdd    State = "succeeded-add"
	StateSucceededRemove State = "succeeded-remove"
)

func (s State) Pending() bool {
	return s == StatePendingAdd || s == StatePendingRemove
}

func (s State) Succeeded() bool {
	return s == StateSucceededAdd || s == StateSucceededRemove
}

// Key identifies one buyer's mutation slot for one product and collection.
type Key struct {
	AvatarID  string
	ProductID string
	Kind      Kind
}

func NewKey(avatarID, productID string, kind Kind) Key {
	return Key{
		AvatarID:  strings.TrimSpace(avatarID),
		ProductID: strings.TrimSpace(productID),
		Kind:      kind,
	}
}

func (k Key) Valid() bool {
	return k.AvatarID != "" && k.ProductID != "" && k.Kind.Valid()
}

// OutcomeKind tags the structured result of a collection mutation.
// (Replaces the legacy "result string contains Added/Updated/Removed"
// contract.)
type OutcomeKind string

const (
	OutcomeAdded   OutcomeKind = "added"
	OutcomeUpdated OutcomeKind = "updated"
	OutcomeRemoved OutcomeKind = "removed"
)

// Outcome is the structured result of a collection mutation.
type Outcome struct {
	Kind OutcomeKind `json:"kind"`
}

// Request is one mutation attempt entering the state machine.
type Request struct {
	// Direction is optional; empty means add. Membership toggling may
	// override it either way.
	Direction Direction

	// Quantity applies to cart adds; values < 1 are treated as 1.
	Quantity int

	// SelectedOptions must be set (by the option confirmation round-trip)
	// when the product has selectable options and the effective direction
	// is add. Removes never require options.
	SelectedOptions map[string]string
}

// Succeeded display delays: how long succeeded-add / succeeded-remove stays
// visible before the slot returns to idle. Purely cosmetic, but a new
// request pre-empts the timer rather than waiting it out.
const (
	cartSucceededDisplayDelay     = 1500 * time.Millisecond
	favoriteSucceededDisplayDelay = 2 * time.Second
)

// SucceededDisplayDelay returns the per-kind display delay.
func SucceededDisplayDelay(k Kind) time.Duration {
	if k == KindFavorite {
		return favoriteSucceededDisplayDelay
	}
	return cartSucceededDisplayDelay
}

// Errors
var (
	// ErrUnauthenticated aborts a request before any state change; the
	// handler answers with a login redirect, not a failure.
	ErrUnauthenticated = errors.New("mutation: unauthenticated")

	// ErrMutationInFlight rejects a request while one is already pending
	// for the same key. Requests are rejected, never queued.
	ErrMutationInFlight = errors.New("mutation: already in flight")

	// ErrNoOptionSelection rejects an option confirmation when the slot is
	// not awaiting one.
	ErrNoOptionSelection = errors.New("mutation: no option selection pending")

	// ErrReleased rejects use of a slot whose consumer was torn down.
	ErrReleased = errors.New("mutation: slot released")

	ErrInvalidKey = errors.New("mutation: invalid key")
)
