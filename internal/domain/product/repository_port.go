// internal/domain/product/repository_port.go
package product

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("product: not found")

// Repository is a persistence port for Product.
//
// Storage recommendation (Firestore):
// - collection: products
// - docId: productId
type Repository interface {
	// GetByID returns the product, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*Product, error)

	// ListActive returns products visible on the storefront.
	ListActive(ctx context.Context, limit int) ([]Product, error)
}
