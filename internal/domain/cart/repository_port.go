// internal/domain/cart/repository_port.go
package cart

import "context"

// Repository is a persistence port for Cart.
//
// Storage recommendation (Firestore):
// - collection: carts
// - docId: avatarId
// - fields: id, items, createdAt, updatedAt, expiresAt
//
// TTL:
// - Configure Firestore TTL on the "expiresAt" field.
// - expiresAt is refreshed on each cart mutation (handled by domain via touch()).
type Repository interface {
	// GetByAvatarID returns the cart for the avatar, or (nil, nil) when absent.
	GetByAvatarID(ctx context.Context, avatarID string) (*Cart, error)

	// Upsert saves the cart (create or update).
	Upsert(ctx context.Context, c *Cart) error

	// DeleteByAvatarID deletes the cart for the avatar (e.g., after order).
	DeleteByAvatarID(ctx context.Context, avatarID string) error
}
