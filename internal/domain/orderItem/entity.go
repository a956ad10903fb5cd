// internal/domain/orderItem/entity.go
package orderitem

import (
	"errors"
	"strings"
)

// GatheringStatus is the picker-side fulfillment signal for one line item.
// Empty string means "not yet reported".
type GatheringStatus string

const (
	GatheringPending     GatheringStatus = "pending"
	GatheringAssigned    GatheringStatus = "assigned"
	GatheringGathered    GatheringStatus = "gathered"
	GatheringAtWarehouse GatheringStatus = "at_warehouse"
	GatheringFailed      GatheringStatus = "failed"
)

// OrderItem is one line item of an order, carrying the per-item delivery
// signals that order status derivation reduces over.
type OrderItem struct {
	ID        string `json:"id" firestore:"id"`
	OrderID   string `json:"orderId" firestore:"orderId"`
	ProductID string `json:"productId" firestore:"productId"`

	Quantity        int               `json:"quantity" firestore:"quantity"`
	Price           int               `json:"price" firestore:"price"`
	SelectedOptions map[string]string `json:"selectedOptions,omitempty" firestore:"selectedOptions,omitempty"`

	// Delivery signals (all optional; zero values mean "no signal yet").
	GatheringStatus    GatheringStatus `json:"gatheringStatus,omitempty" firestore:"gatheringStatus,omitempty"`
	DeliveryStatus     string          `json:"deliveryStatus,omitempty" firestore:"deliveryStatus,omitempty"`
	DeliveredInPartial bool            `json:"deliveredInPartial,omitempty" firestore:"deliveredInPartial,omitempty"`
}

// Errors
var (
	ErrInvalidID        = errors.New("orderItem: invalid id")
	ErrInvalidOrderID   = errors.New("orderItem: invalid orderId")
	ErrInvalidProductID = errors.New("orderItem: invalid productId")
	ErrInvalidQuantity  = errors.New("orderItem: invalid quantity")
	ErrInvalidPrice     = errors.New("orderItem: invalid price")
	ErrNotFound         = errors.New("orderItem: not found")
)

// Policy
var (
	MinQuantity = 1 // inclusive
	MaxQuantity = 0 // 0 disables upper bound
)

// Constructors

func New(id, orderID, productID string, quantity, price int, selectedOptions map[string]string) (OrderItem, error) {
	oi := OrderItem{
		ID:              strings.TrimSpace(id),
		OrderID:         strings.TrimSpace(orderID),
		ProductID:       strings.TrimSpace(productID),
		Quantity:        quantity,
		Price:           price,
		SelectedOptions: selectedOptions,
	}
	if err := oi.validate(); err != nil {
		return OrderItem{}, err
	}
	return oi, nil
}

// Mutators

func (o *OrderItem) SetQuantity(q int) error {
	if q < MinQuantity || (MaxQuantity > 0 && q > MaxQuantity) {
		return ErrInvalidQuantity
	}
	o.Quantity = q
	return nil
}

// SetGatheringStatus records the picker-side signal as reported.
// Values outside the known enum are kept verbatim; status derivation
// treats unknown signals as "pending".
func (o *OrderItem) SetGatheringStatus(s GatheringStatus) {
	o.GatheringStatus = GatheringStatus(strings.TrimSpace(string(s)))
}

func (o *OrderItem) SetDeliveryStatus(s string) {
	o.DeliveryStatus = strings.TrimSpace(s)
}

func (o *OrderItem) MarkDeliveredInPartial() {
	o.DeliveredInPartial = true
}

// Validation

func (o OrderItem) validate() error {
	if o.ID == "" {
		return ErrInvalidID
	}
	if o.OrderID == "" {
		return ErrInvalidOrderID
	}
	if o.ProductID == "" {
		return ErrInvalidProductID
	}
	if o.Quantity < MinQuantity || (MaxQuantity > 0 && o.Quantity > MaxQuantity) {
		return ErrInvalidQuantity
	}
	if o.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}
