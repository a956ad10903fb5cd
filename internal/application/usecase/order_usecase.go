// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	orderdom "storefront/internal/domain/order"
	orderitemdom "storefront/internal/domain/orderItem"
)

var (
	ErrOrderInvalidArgument = errors.New("order_usecase: invalid argument")
)

// OrderUsecase reads orders and records fulfillment signals on them.
// Status is never stored; it is derived from the signals on read
// (orderdom.DeriveStatus).
type OrderUsecase struct {
	orders orderdom.Repository
	items  orderitemdom.Repository
}

func NewOrderUsecase(orders orderdom.Repository, items orderitemdom.Repository) *OrderUsecase {
	return &OrderUsecase{orders: orders, items: items}
}

// OrderDetail is an order with its live line items and the derived status.
type OrderDetail struct {
	Order  orderdom.Order
	Items  []orderitemdom.OrderItem
	Status orderdom.Status
}

// Get returns the order with items and derived status.
func (uc *OrderUsecase) Get(ctx context.Context, orderID string) (*OrderDetail, error) {
	oid := strings.TrimSpace(orderID)
	if oid == "" {
		return nil, ErrOrderInvalidArgument
	}

	o, err := uc.orders.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	items, err := uc.items.ListByOrderID(ctx, oid)
	if err != nil {
		return nil, err
	}

	return &OrderDetail{
		Order:  *o,
		Items:  items,
		Status: orderdom.DeriveStatus(o, items),
	}, nil
}

// ListByAvatar returns the avatar's orders with derived statuses, newest
// first. limit <= 0 means repository default.
func (uc *OrderUsecase) ListByAvatar(ctx context.Context, avatarID string, limit int) ([]OrderDetail, error) {
	aid := strings.TrimSpace(avatarID)
	if aid == "" {
		return nil, ErrOrderInvalidArgument
	}

	orders, err := uc.orders.ListByAvatarID(ctx, aid, limit)
	if err != nil {
		return nil, err
	}

	out := make([]OrderDetail, 0, len(orders))
	for i := range orders {
		o := orders[i]
		items, err := uc.items.ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, OrderDetail{
			Order:  o,
			Items:  items,
			Status: orderdom.DeriveStatus(&o, items),
		})
	}
	return out, nil
}

// SetItemGatheringStatus records the picker-side signal for one line item.
func (uc *OrderUsecase) SetItemGatheringStatus(ctx context.Context, itemID string, s orderitemdom.GatheringStatus) (*orderitemdom.OrderItem, error) {
	iid := strings.TrimSpace(itemID)
	if iid == "" {
		return nil, ErrOrderInvalidArgument
	}

	it, err := uc.items.GetByID(ctx, iid)
	if err != nil {
		return nil, err
	}
	it.SetGatheringStatus(s)
	if err := uc.items.Upsert(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// SetItemDeliveryStatus records the carrier signal for one line item.
// markPartial flags the item as delivered in a split shipment.
func (uc *OrderUsecase) SetItemDeliveryStatus(ctx context.Context, itemID, status string, markPartial bool) (*orderitemdom.OrderItem, error) {
	iid := strings.TrimSpace(itemID)
	if iid == "" {
		return nil, ErrOrderInvalidArgument
	}

	it, err := uc.items.GetByID(ctx, iid)
	if err != nil {
		return nil, err
	}
	it.SetDeliveryStatus(status)
	if markPartial {
		it.MarkDeliveredInPartial()
	}
	if err := uc.items.Upsert(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// SetOrderDeliverySignals records the order-level carrier/warehouse
// aggregate signals. Either may be empty to leave it unchanged.
func (uc *OrderUsecase) SetOrderDeliverySignals(ctx context.Context, orderID, deliveryStatus, distributionStatus string) (*orderdom.Order, error) {
	oid := strings.TrimSpace(orderID)
	if oid == "" {
		return nil, ErrOrderInvalidArgument
	}

	o, err := uc.orders.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(deliveryStatus) != "" {
		o.SetDeliveryStatus(deliveryStatus)
	}
	if strings.TrimSpace(distributionStatus) != "" {
		o.SetDistributionStatus(distributionStatus)
	}
	if err := uc.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
