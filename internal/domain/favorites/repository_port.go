// internal/domain/favorites/repository_port.go
package favorites

import "context"

// Repository is a persistence port for Favorites.
//
// Storage recommendation (Firestore):
// - collection: favorites
// - docId: avatarId
// - fields: id, productIds, createdAt, updatedAt
type Repository interface {
	// GetByAvatarID returns the favorites doc, or (nil, nil) when absent.
	GetByAvatarID(ctx context.Context, avatarID string) (*Favorites, error)

	// Upsert saves the favorites doc (create or update).
	Upsert(ctx context.Context, f *Favorites) error

	// DeleteByAvatarID deletes the favorites doc for the avatar.
	DeleteByAvatarID(ctx context.Context, avatarID string) error
}
