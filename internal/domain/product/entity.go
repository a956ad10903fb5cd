// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
	"time"
)

// Product is the buyer-facing catalog entity (product card + detail).
//
// Variant data:
//   - VariantColorImages: color name -> ordered image URLs.
//     A non-empty map means color is a selectable option.
//   - Attributes: attribute name -> either a comma separated string
//     ("S, M, L") or a list of values. Shape mirrors the catalog document,
//     so values are kept as `any` and parsed tolerantly (see options.go).
type Product struct {
	ID          string `json:"id" firestore:"id"`
	Name        string `json:"name" firestore:"name"`
	Description string `json:"description" firestore:"description"`
	Price       int    `json:"price" firestore:"price"`

	VariantColorImages map[string][]string `json:"variantColorImages" firestore:"variantColorImages"`
	Attributes         map[string]any      `json:"attributes" firestore:"attributes"`

	Active bool `json:"active" firestore:"active"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// Errors
var (
	ErrInvalidID        = errors.New("product: invalid id")
	ErrInvalidName      = errors.New("product: invalid name")
	ErrInvalidPrice     = errors.New("product: invalid price")
	ErrInvalidCreatedAt = errors.New("product: invalid createdAt")
	ErrInvalidUpdatedAt = errors.New("product: invalid updatedAt")
)

// Constructors

func New(
	id, name, description string,
	price int,
	variantColorImages map[string][]string,
	attributes map[string]any,
	active bool,
	createdAt, updatedAt time.Time,
) (Product, error) {
	p := Product{
		ID:          strings.TrimSpace(id),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Price:       price,

		VariantColorImages: normalizeVariantColorImages(variantColorImages),
		Attributes:         attributes,

		Active:    active,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}
	if err := p.validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Validation

func (p Product) validate() error {
	if p.ID == "" {
		return ErrInvalidID
	}
	if p.Name == "" {
		return ErrInvalidName
	}
	if p.Price < 0 {
		return ErrInvalidPrice
	}
	if p.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}
	if p.UpdatedAt.IsZero() || p.UpdatedAt.Before(p.CreatedAt) {
		return ErrInvalidUpdatedAt
	}
	return nil
}

// Helpers

// normalizeVariantColorImages drops empty color keys and empty URL entries.
// A map that ends up empty is kept as nil so "no colors" has one shape.
func normalizeVariantColorImages(src map[string][]string) map[string][]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string][]string, len(src))
	for color, urls := range src {
		c := strings.TrimSpace(color)
		if c == "" {
			continue
		}
		kept := make([]string, 0, len(urls))
		for _, u := range urls {
			u = strings.TrimSpace(u)
			if u != "" {
				kept = append(kept, u)
			}
		}
		out[c] = kept
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
