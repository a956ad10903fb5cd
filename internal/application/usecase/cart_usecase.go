// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	cartdom "storefront/internal/domain/cart"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
	ErrCartNotFound        = errors.New("cart_usecase: not found")
)

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// CartUsecase coordinates cart operations. Line items are keyed by
// (productId, selectedOptions); adding the same product with a different
// option selection creates a separate line.
type CartUsecase struct {
	repo  cartdom.Repository
	clock Clock
}

func NewCartUsecase(repo cartdom.Repository) *CartUsecase {
	return &CartUsecase{
		repo:  repo,
		clock: systemClock{},
	}
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(repo cartdom.Repository, clock Clock) *CartUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CartUsecase{repo: repo, clock: clock}
}

// Get returns the cart for avatarID.
// If cart does not exist, returns (nil, ErrCartNotFound).
func (uc *CartUsecase) Get(ctx context.Context, avatarID string) (*cartdom.Cart, error) {
	aid := strings.TrimSpace(avatarID)
	if aid == "" {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.repo.GetByAvatarID(ctx, aid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}
	return c, nil
}

// GetOrCreate returns an existing cart; if absent, creates an empty one and persists it.
func (uc *CartUsecase) GetOrCreate(ctx context.Context, avatarID string) (*cartdom.Cart, error) {
	aid := strings.TrimSpace(avatarID)
	if aid == "" {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.repo.GetByAvatarID(ctx, aid)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	now := uc.clock.Now()
	newCart, err := cartdom.NewCart(aid, nil, now)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Upsert(ctx, newCart); err != nil {
		return nil, err
	}
	return newCart, nil
}

// AddItem increments qty for (productID, selectedOptions).
// qty must be >= 1. An absent cart is created.
func (uc *CartUsecase) AddItem(ctx context.Context, avatarID, productID string, selectedOptions map[string]string, qty int) (*cartdom.Cart, error) {
	aid := strings.TrimSpace(avatarID)
	pid := strings.TrimSpace(productID)
	if aid == "" || pid == "" || qty <= 0 {
		return nil, ErrCartInvalidArgument
	}

	now := uc.clock.Now()

	c, err := uc.repo.GetByAvatarID(ctx, aid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c, err = cartdom.NewCart(aid, nil, now)
		if err != nil {
			return nil, err
		}
	}

	if err := c.Add(pid, selectedOptions, qty, now); err != nil {
		return nil, err
	}
	if err := uc.repo.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetItemQty sets qty for (productID, selectedOptions).
// If qty <= 0, it removes the line item.
func (uc *CartUsecase) SetItemQty(ctx context.Context, avatarID, productID string, selectedOptions map[string]string, qty int) (*cartdom.Cart, error) {
	aid := strings.TrimSpace(avatarID)
	pid := strings.TrimSpace(productID)
	if aid == "" || pid == "" {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.repo.GetByAvatarID(ctx, aid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		// policy: cart absent -> create (then apply)
		now := uc.clock.Now()
		c, err = cartdom.NewCart(aid, nil, now)
		if err != nil {
			return nil, err
		}
	}

	now := uc.clock.Now()
	if err := c.SetQty(pid, selectedOptions, qty, now); err != nil {
		return nil, err
	}
	if err := uc.repo.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem removes the exact (productID, selectedOptions) line.
func (uc *CartUsecase) RemoveItem(ctx context.Context, avatarID, productID string, selectedOptions map[string]string) (*cartdom.Cart, error) {
	return uc.SetItemQty(ctx, avatarID, productID, selectedOptions, 0)
}

// RemoveProduct removes every line of productID regardless of options.
// The toggle flow uses this: removal never asks for an option selection.
func (uc *CartUsecase) RemoveProduct(ctx context.Context, avatarID, productID string) (*cartdom.Cart, error) {
	aid := strings.TrimSpace(avatarID)
	pid := strings.TrimSpace(productID)
	if aid == "" || pid == "" {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.repo.GetByAvatarID(ctx, aid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCartNotFound
	}

	now := uc.clock.Now()
	if err := c.RemoveProduct(pid, now); err != nil {
		return nil, err
	}
	if err := uc.repo.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ContainsProduct reports whether any line of productID exists.
// Absent cart counts as "not in cart".
func (uc *CartUsecase) ContainsProduct(ctx context.Context, avatarID, productID string) (bool, error) {
	aid := strings.TrimSpace(avatarID)
	pid := strings.TrimSpace(productID)
	if aid == "" || pid == "" {
		return false, ErrCartInvalidArgument
	}

	c, err := uc.repo.GetByAvatarID(ctx, aid)
	if err != nil {
		return false, err
	}
	return c.HasProduct(pid), nil
}

// Clear deletes the cart doc (useful for "empty cart" UX).
func (uc *CartUsecase) Clear(ctx context.Context, avatarID string) error {
	aid := strings.TrimSpace(avatarID)
	if aid == "" {
		return ErrCartInvalidArgument
	}
	return uc.repo.DeleteByAvatarID(ctx, aid)
}
