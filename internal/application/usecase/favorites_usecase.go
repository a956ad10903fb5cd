// internal/application/usecase/favorites_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	favdom "storefront/internal/domain/favorites"
)

var (
	ErrFavoritesInvalidArgument = errors.New("favorites_usecase: invalid argument")
	ErrFavoritesNotFound        = errors.New("favorites_usecase: not found")
)

// FavoritesUsecase coordinates favorites operations. The doc is created
// lazily on the first Add.
type FavoritesUsecase struct {
	repo  favdom.Repository
	clock Clock
}

func NewFavoritesUsecase(repo favdom.Repository) *FavoritesUsecase {
	return &FavoritesUsecase{
		repo:  repo,
		clock: systemClock{},
	}
}

// NewFavoritesUsecaseWithClock is useful for tests.
func NewFavoritesUsecaseWithClock(repo favdom.Repository, clock Clock) *FavoritesUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &FavoritesUsecase{repo: repo, clock: clock}
}

// Get returns the favorites doc for avatarID.
// If it does not exist, returns (nil, ErrFavoritesNotFound).
func (uc *FavoritesUsecase) Get(ctx context.Context, avatarID string) (*favdom.Favorites, error) {
	aid := strings.TrimSpace(avatarID)
	if aid == "" {
		return nil, ErrFavoritesInvalidArgument
	}

	f, err := uc.repo.GetByAvatarID(ctx, aid)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFavoritesNotFound
	}
	return f, nil
}

// Add marks productID as a favorite. An absent doc is created.
func (uc *FavoritesUsecase) Add(ctx context.Context, avatarID, productID string) (*favdom.Favorites, error) {
	aid := strings.TrimSpace(avatarID)
	pid := strings.TrimSpace(productID)
	if aid == "" || pid == "" {
		return nil, ErrFavoritesInvalidArgument
	}

	now := uc.clock.Now()

	f, err := uc.repo.GetByAvatarID(ctx, aid)
	if err != nil {
		return nil, err
	}
	if f == nil {
		f, err = favdom.NewFavorites(aid, nil, now)
		if err != nil {
			return nil, err
		}
	}

	if err := f.Add(pid, now); err != nil {
		return nil, err
	}
	if err := uc.repo.Upsert(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Remove unmarks productID. Removing from an absent doc is a no-op.
func (uc *FavoritesUsecase) Remove(ctx context.Context, avatarID, productID string) (*favdom.Favorites, error) {
	aid := strings.TrimSpace(avatarID)
	pid := strings.TrimSpace(productID)
	if aid == "" || pid == "" {
		return nil, ErrFavoritesInvalidArgument
	}

	f, err := uc.repo.GetByAvatarID(ctx, aid)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFavoritesNotFound
	}

	now := uc.clock.Now()
	if err := f.Remove(pid, now); err != nil {
		return nil, err
	}
	if err := uc.repo.Upsert(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Contains reports whether productID is a favorite.
// Absent doc counts as "not a favorite".
func (uc *FavoritesUsecase) Contains(ctx context.Context, avatarID, productID string) (bool, error) {
	aid := strings.TrimSpace(avatarID)
	pid := strings.TrimSpace(productID)
	if aid == "" || pid == "" {
		return false, ErrFavoritesInvalidArgument
	}

	f, err := uc.repo.GetByAvatarID(ctx, aid)
	if err != nil {
		return false, err
	}
	return f.Has(pid), nil
}
