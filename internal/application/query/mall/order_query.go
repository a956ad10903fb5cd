// internal/application/query/mall/order_query.go
package mall

import (
	"context"
	"errors"
	"strings"
	"time"

	dto "storefront/internal/application/query/mall/dto"

	orderdom "storefront/internal/domain/order"
	orderitemdom "storefront/internal/domain/orderItem"
	productdom "storefront/internal/domain/product"
)

// OrderQuery assembles the order history / detail screens. Both the order
// status and every per-item status are derived on read from the current
// fulfillment signals.
type OrderQuery struct {
	OrderRepo   orderdom.Repository
	ItemRepo    orderitemdom.Repository
	ProductRepo productdom.Repository // optional; nil skips name/image resolution

	// optional
	Images ImageURLResolver
}

func NewOrderQuery(orderRepo orderdom.Repository, itemRepo orderitemdom.Repository) *OrderQuery {
	return &OrderQuery{OrderRepo: orderRepo, ItemRepo: itemRepo}
}

func NewOrderQueryWithCatalog(orderRepo orderdom.Repository, itemRepo orderitemdom.Repository, productRepo productdom.Repository, images ImageURLResolver) *OrderQuery {
	return &OrderQuery{
		OrderRepo:   orderRepo,
		ItemRepo:    itemRepo,
		ProductRepo: productRepo,
		Images:      images,
	}
}

// Get returns the order detail. Ownership is the caller's concern: pass
// avatarID to enforce "own orders only", or "" to skip the check.
func (q *OrderQuery) Get(ctx context.Context, orderID, avatarID string) (*dto.OrderDTO, error) {
	oid := strings.TrimSpace(orderID)
	if oid == "" {
		return nil, ErrNotFound
	}

	o, err := q.OrderRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, orderdom.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if aid := strings.TrimSpace(avatarID); aid != "" && o.AvatarID != aid {
		return nil, ErrNotFound
	}

	items, err := q.ItemRepo.ListByOrderID(ctx, oid)
	if err != nil {
		return nil, err
	}

	d := q.toDTO(ctx, o, items)
	return &d, nil
}

// ListByAvatar returns the avatar's order history, newest first.
func (q *OrderQuery) ListByAvatar(ctx context.Context, avatarID string, limit int) ([]dto.OrderDTO, error) {
	aid := strings.TrimSpace(avatarID)
	if aid == "" {
		return nil, ErrNotFound
	}

	orders, err := q.OrderRepo.ListByAvatarID(ctx, aid, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.OrderDTO, 0, len(orders))
	for i := range orders {
		o := orders[i]
		items, ierr := q.ItemRepo.ListByOrderID(ctx, o.ID)
		if ierr != nil {
			return nil, ierr
		}
		out = append(out, q.toDTO(ctx, &o, items))
	}
	return out, nil
}

func (q *OrderQuery) toDTO(ctx context.Context, o *orderdom.Order, items []orderitemdom.OrderItem) dto.OrderDTO {
	d := dto.OrderDTO{
		ID:        o.ID,
		AvatarID:  o.AvatarID,
		Status:    string(orderdom.DeriveStatus(o, items)),
		CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
		Shipping: dto.OrderShippingDTO{
			ZipCode: o.ShippingSnapshot.ZipCode,
			State:   o.ShippingSnapshot.State,
			City:    o.ShippingSnapshot.City,
			Street:  o.ShippingSnapshot.Street,
			Street2: o.ShippingSnapshot.Street2,
			Country: o.ShippingSnapshot.Country,
		},
		Items: make([]dto.OrderItemDTO, 0, len(items)),
	}

	for _, it := range items {
		line := dto.OrderItemDTO{
			ID:                 it.ID,
			ProductID:          it.ProductID,
			SelectedOptions:    it.SelectedOptions,
			Qty:                it.Quantity,
			Price:              it.Price,
			Status:             string(orderdom.Classify(it)),
			DeliveredInPartial: it.DeliveredInPartial,
		}
		q.resolveProduct(ctx, &line)
		d.Items = append(d.Items, line)
		d.Total += it.Price * it.Quantity
	}

	return d
}

func (q *OrderQuery) resolveProduct(ctx context.Context, line *dto.OrderItemDTO) {
	if q.ProductRepo == nil {
		return
	}
	p, err := q.ProductRepo.GetByID(ctx, line.ProductID)
	if err != nil {
		return // history stays renderable without the live product
	}
	line.Name = p.Name
	line.Image = firstImage(ctx, q.Images, p)
}
