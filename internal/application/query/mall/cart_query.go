// internal/application/query/mall/cart_query.go
package mall

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	dto "storefront/internal/application/query/mall/dto"

	cartdom "storefront/internal/domain/cart"
	productdom "storefront/internal/domain/product"
)

// CartQuery assembles the cart screen: cart lines joined with the live
// catalog. A vanished product keeps its line (the buyer decides what to
// do with it) but carries productError instead of a price.
type CartQuery struct {
	CartRepo    cartdom.Repository
	ProductRepo productdom.Repository

	// optional
	Images ImageURLResolver
}

func NewCartQuery(cartRepo cartdom.Repository, productRepo productdom.Repository) *CartQuery {
	return &CartQuery{CartRepo: cartRepo, ProductRepo: productRepo}
}

// Get returns the cart view for avatarID. An absent cart renders as an
// empty one (the screen has no "no cart yet" state).
func (q *CartQuery) Get(ctx context.Context, avatarID string) (*dto.CartDTO, error) {
	aid := strings.TrimSpace(avatarID)
	if aid == "" {
		return nil, ErrNotFound
	}

	c, err := q.CartRepo.GetByAvatarID(ctx, aid)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &dto.CartDTO{AvatarID: aid, Items: []dto.CartItemDTO{}}, nil
	}

	out := &dto.CartDTO{
		AvatarID:  aid,
		Items:     make([]dto.CartItemDTO, 0, len(c.Items)),
		CreatedAt: fmtTime(c.CreatedAt),
		UpdatedAt: fmtTime(c.UpdatedAt),
		ExpiresAt: fmtTime(c.ExpiresAt),
	}

	for _, line := range c.Items {
		item := dto.CartItemDTO{
			ProductID:       line.ProductID,
			SelectedOptions: line.SelectedOptions,
			Qty:             line.Qty,
		}

		p, perr := q.ProductRepo.GetByID(ctx, line.ProductID)
		switch {
		case perr == nil:
			price := p.Price
			item.Name = p.Name
			item.Price = &price
			item.Image = firstImage(ctx, q.Images, p)
			out.Total += price * line.Qty
		case errors.Is(perr, productdom.ErrNotFound):
			item.ProductError = "not_found"
		default:
			item.ProductError = "unavailable"
		}

		out.Items = append(out.Items, item)
	}

	return out, nil
}

// firstImage picks a deterministic thumbnail: the first image of the first
// color in lexical order.
func firstImage(ctx context.Context, images ImageURLResolver, p *productdom.Product) string {
	colors := make([]string, 0, len(p.VariantColorImages))
	for c := range p.VariantColorImages {
		colors = append(colors, c)
	}
	sort.Strings(colors)

	for _, c := range colors {
		refs := p.VariantColorImages[c]
		if len(refs) == 0 {
			continue
		}
		if images == nil {
			return refs[0]
		}
		if url, err := images.ResolveImageURL(ctx, refs[0]); err == nil {
			return url
		}
		return refs[0]
	}
	return ""
}

func fmtTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
