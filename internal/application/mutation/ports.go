// internal/application/mutation/ports.go
package mutation

import (
	"context"
	"time"
)

// CollectionService is the external source of truth for cart/favorites
// membership. The state machine only mirrors it optimistically and never
// persists anything itself.
type CollectionService interface {
	// Add puts the product into the key's collection. qty and
	// selectedOptions apply to carts; favorites implementations may ignore
	// them.
	Add(ctx context.Context, key Key, qty int, selectedOptions map[string]string) (Outcome, error)

	// Remove takes the product out of the key's collection (all option
	// lines; removes never disambiguate options).
	Remove(ctx context.Context, key Key) (Outcome, error)

	// Contains reports current membership. Used for toggle resolution.
	Contains(ctx context.Context, key Key) (bool, error)
}

// OptionGate decides whether an add must go through option selection first.
type OptionGate interface {
	HasSelectableOptions(ctx context.Context, productID string) (bool, error)
}

// IdentityProvider reports the authenticated buyer for a request context.
// ok=false aborts the mutation with ErrUnauthenticated.
type IdentityProvider interface {
	AvatarID(ctx context.Context) (avatarID string, ok bool)
}

// scheduler schedules the succeeded -> idle expiry; swapped in tests.
// The returned cancel stops a timer that has not fired yet.
type scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func())
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}
