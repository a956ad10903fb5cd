// internal/adapters/out/firestore/favorites_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	favdom "storefront/internal/domain/favorites"
)

// FavoritesRepositoryFS implements favorites.Repository using Firestore.
//
// Collection design:
// - collection: favorites
// - docId: avatarId (docId is the source of truth)
// - fields: productIds(array), createdAt, updatedAt
type FavoritesRepositoryFS struct {
	Client *firestore.Client
}

func NewFavoritesRepositoryFS(client *firestore.Client) *FavoritesRepositoryFS {
	return &FavoritesRepositoryFS{Client: client}
}

func (r *FavoritesRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("favorites")
}

// GetByAvatarID returns (nil, nil) if not found (nil policy).
func (r *FavoritesRepositoryFS) GetByAvatarID(ctx context.Context, avatarID string) (*favdom.Favorites, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("favorites_repository_fs: firestore client is nil")
	}

	aid := strings.TrimSpace(avatarID)
	if aid == "" {
		return nil, errors.New("favorites_repository_fs: avatarID is empty")
	}

	snap, err := r.col().Doc(aid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	var f favdom.Favorites
	if err := snap.DataTo(&f); err != nil {
		return nil, err
	}
	f.ID = aid
	return &f, nil
}

func (r *FavoritesRepositoryFS) Upsert(ctx context.Context, f *favdom.Favorites) error {
	if r == nil || r.Client == nil {
		return errors.New("favorites_repository_fs: firestore client is nil")
	}
	if f == nil {
		return errors.New("favorites_repository_fs: favorites is nil")
	}

	aid := strings.TrimSpace(f.ID)
	if aid == "" {
		return errors.New("favorites_repository_fs: Upsert requires favorites.ID (= avatarId) as docId")
	}

	_, err := r.col().Doc(aid).Set(ctx, f)
	return err
}

func (r *FavoritesRepositoryFS) DeleteByAvatarID(ctx context.Context, avatarID string) error {
	if r == nil || r.Client == nil {
		return errors.New("favorites_repository_fs: firestore client is nil")
	}

	aid := strings.TrimSpace(avatarID)
	if aid == "" {
		return errors.New("favorites_repository_fs: avatarID is empty")
	}

	_, err := r.col().Doc(aid).Delete(ctx)
	return err
}
