// internal/domain/orderItem/repository_port.go
package orderitem

import "context"

// Repository is a persistence port for OrderItem.
//
// Storage recommendation (Firestore):
// - collection: orderItems
// - docId: orderItemId
// - query index on orderId
type Repository interface {
	// GetByID returns the line item, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*OrderItem, error)

	// ListByOrderID returns all line items of the order (empty slice when none).
	ListByOrderID(ctx context.Context, orderID string) ([]OrderItem, error)

	// Upsert saves the line item (create or update).
	Upsert(ctx context.Context, oi *OrderItem) error
}
