// internal/domain/order/repository_port.go
package order

import "context"

// Repository is a persistence port for Order.
//
// Storage recommendation (Firestore):
// - collection: orders
// - docId: orderId
// - query index on avatarId
type Repository interface {
	// GetByID returns the order, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Order, error)

	// ListByAvatarID returns the avatar's orders, newest first.
	ListByAvatarID(ctx context.Context, avatarID string, limit int) ([]Order, error)

	// Create persists a new order.
	Create(ctx context.Context, o *Order) error

	// Save updates an existing order (delivery signal reflection).
	Save(ctx context.Context, o *Order) error
}
