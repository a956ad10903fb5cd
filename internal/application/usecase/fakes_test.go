// internal/application/usecase/fakes_test.go
package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	cartdom "storefront/internal/domain/cart"
	favdom "storefront/internal/domain/favorites"
	orderdom "storefront/internal/domain/order"
	orderitemdom "storefront/internal/domain/orderItem"
	productdom "storefront/internal/domain/product"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// ---- cart ----

type memCartRepo struct {
	carts map[string]*cartdom.Cart
	err   error
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: map[string]*cartdom.Cart{}}
}

func (r *memCartRepo) GetByAvatarID(ctx context.Context, avatarID string) (*cartdom.Cart, error) {
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.carts[avatarID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCartRepo) Upsert(ctx context.Context, c *cartdom.Cart) error {
	if r.err != nil {
		return r.err
	}
	cp := *c
	r.carts[c.ID] = &cp
	return nil
}

func (r *memCartRepo) DeleteByAvatarID(ctx context.Context, avatarID string) error {
	delete(r.carts, avatarID)
	return nil
}

// ---- favorites ----

type memFavoritesRepo struct {
	docs map[string]*favdom.Favorites
}

func newMemFavoritesRepo() *memFavoritesRepo {
	return &memFavoritesRepo{docs: map[string]*favdom.Favorites{}}
}

func (r *memFavoritesRepo) GetByAvatarID(ctx context.Context, avatarID string) (*favdom.Favorites, error) {
	f, ok := r.docs[avatarID]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (r *memFavoritesRepo) Upsert(ctx context.Context, f *favdom.Favorites) error {
	cp := *f
	r.docs[f.ID] = &cp
	return nil
}

func (r *memFavoritesRepo) DeleteByAvatarID(ctx context.Context, avatarID string) error {
	delete(r.docs, avatarID)
	return nil
}

// ---- product ----

type memProductRepo struct {
	products map[string]*productdom.Product
}

func newMemProductRepo(products ...*productdom.Product) *memProductRepo {
	r := &memProductRepo{products: map[string]*productdom.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *memProductRepo) GetByID(ctx context.Context, id string) (*productdom.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, productdom.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) ListActive(ctx context.Context, limit int) ([]productdom.Product, error) {
	out := make([]productdom.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Active {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---- order ----

type memOrderRepo struct {
	orders map[string]*orderdom.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: map[string]*orderdom.Order{}}
}

func (r *memOrderRepo) GetByID(ctx context.Context, id string) (*orderdom.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, orderdom.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) ListByAvatarID(ctx context.Context, avatarID string, limit int) ([]orderdom.Order, error) {
	out := []orderdom.Order{}
	for _, o := range r.orders {
		if o.AvatarID == avatarID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memOrderRepo) Create(ctx context.Context, o *orderdom.Order) error {
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) Save(ctx context.Context, o *orderdom.Order) error {
	return r.Create(ctx, o)
}

// ---- orderItem ----

type memOrderItemRepo struct {
	items map[string]*orderitemdom.OrderItem
}

func newMemOrderItemRepo() *memOrderItemRepo {
	return &memOrderItemRepo{items: map[string]*orderitemdom.OrderItem{}}
}

func (r *memOrderItemRepo) GetByID(ctx context.Context, id string) (*orderitemdom.OrderItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, orderitemdom.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *memOrderItemRepo) ListByOrderID(ctx context.Context, orderID string) ([]orderitemdom.OrderItem, error) {
	out := []orderitemdom.OrderItem{}
	for _, it := range r.items {
		if it.OrderID == orderID {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memOrderItemRepo) Upsert(ctx context.Context, oi *orderitemdom.OrderItem) error {
	cp := *oi
	r.items[oi.ID] = &cp
	return nil
}

// ---- ids / mail ----

type seqIDs struct{ n int }

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("id-%03d", g.n)
}

type recordingMailer struct {
	sent []string // toEmail
	err  error
}

func (m *recordingMailer) SendOrderConfirmation(ctx context.Context, toEmail string, o orderdom.Order) error {
	m.sent = append(m.sent, toEmail)
	return m.err
}
