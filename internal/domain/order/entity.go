// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"
)

// ========================================
// Snapshot structs (stored in Order)
// ========================================

type ShippingSnapshot struct {
	ZipCode string `json:"zipCode" firestore:"zipCode"`
	State   string `json:"state" firestore:"state"`
	City    string `json:"city" firestore:"city"`
	Street  string `json:"street" firestore:"street"`
	Street2 string `json:"street2,omitempty" firestore:"street2,omitempty"`
	Country string `json:"country" firestore:"country"`
}

// OrderItemSnapshot is stored inside Order.Items: the cart line as it was
// at checkout. The live delivery signals live on the orderItems collection.
type OrderItemSnapshot struct {
	ProductID       string            `json:"productId" firestore:"productId"`
	SelectedOptions map[string]string `json:"selectedOptions,omitempty" firestore:"selectedOptions,omitempty"`
	Qty             int               `json:"qty" firestore:"qty"`
	Price           int               `json:"price" firestore:"price"`
}

// ========================================
// Entity
// ========================================

type Order struct {
	ID       string `json:"id" firestore:"id"`
	UserID   string `json:"userId" firestore:"userId"`
	AvatarID string `json:"avatarId" firestore:"avatarId"`
	CartID   string `json:"cartId" firestore:"cartId"`

	// Aggregate carrier/warehouse signals for the whole order.
	// Empty string means "no signal". When either reads "delivered" the
	// derived status short-circuits to delivered (see status.go).
	DeliveryStatus     string `json:"deliveryStatus,omitempty" firestore:"deliveryStatus,omitempty"`
	DistributionStatus string `json:"distributionStatus,omitempty" firestore:"distributionStatus,omitempty"`

	ShippingSnapshot ShippingSnapshot `json:"shippingSnapshot" firestore:"shippingSnapshot"`

	Items     []OrderItemSnapshot `json:"items" firestore:"items"`
	CreatedAt time.Time           `json:"createdAt" firestore:"createdAt"`
}

// ========================================
// Errors
// ========================================

var (
	ErrInvalidID              = errors.New("order: invalid id")
	ErrInvalidUserID          = errors.New("order: invalid userId")
	ErrInvalidAvatarID        = errors.New("order: invalid avatarId")
	ErrInvalidCartID          = errors.New("order: invalid cartId")
	ErrInvalidShippingAddress = errors.New("order: invalid shippingSnapshot")
	ErrInvalidItems           = errors.New("order: invalid items")
	ErrInvalidCreatedAt       = errors.New("order: invalid createdAt")

	ErrInvalidItemSnapshot = errors.New("order: invalid item snapshot")

	ErrNotFound = errors.New("order: not found")
)

// ========================================
// Policy
// ========================================

var (
	MinItemsRequired = 1
)

// ========================================
// Constructors
// ========================================

func New(
	id string,
	userID string,
	avatarID string,
	cartID string,
	shippingSnapshot ShippingSnapshot,
	items []OrderItemSnapshot,
	createdAt time.Time,
) (Order, error) {
	o := Order{
		ID:       strings.TrimSpace(id),
		UserID:   strings.TrimSpace(userID),
		AvatarID: strings.TrimSpace(avatarID),
		CartID:   strings.TrimSpace(cartID),

		ShippingSnapshot: normalizeShippingSnapshot(shippingSnapshot),

		Items:     normalizeItems(items),
		CreatedAt: createdAt.UTC(),
	}
	if err := o.validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ========================================
// Behavior (mutators)
// ========================================

func (o *Order) ReplaceItems(items []OrderItemSnapshot) error {
	ns := normalizeItems(items)
	if err := validateItems(ns); err != nil {
		return err
	}
	o.Items = ns
	return nil
}

func (o *Order) UpdateShippingSnapshot(s ShippingSnapshot) error {
	s = normalizeShippingSnapshot(s)
	if err := validateShippingSnapshot(s); err != nil {
		return err
	}
	o.ShippingSnapshot = s
	return nil
}

// SetDeliveryStatus records the carrier aggregate signal as reported.
func (o *Order) SetDeliveryStatus(s string) {
	o.DeliveryStatus = strings.TrimSpace(s)
}

// SetDistributionStatus records the warehouse aggregate signal as reported.
func (o *Order) SetDistributionStatus(s string) {
	o.DistributionStatus = strings.TrimSpace(s)
}

// ========================================
// Validation
// ========================================

func (o Order) validate() error {
	if o.ID == "" {
		return ErrInvalidID
	}
	if o.UserID == "" {
		return ErrInvalidUserID
	}
	if o.AvatarID == "" {
		return ErrInvalidAvatarID
	}
	if o.CartID == "" {
		return ErrInvalidCartID
	}
	if err := validateShippingSnapshot(o.ShippingSnapshot); err != nil {
		return err
	}
	if err := validateItems(o.Items); err != nil {
		return err
	}
	if o.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}
	return nil
}

func validateShippingSnapshot(s ShippingSnapshot) error {
	if strings.TrimSpace(s.State) == "" {
		return ErrInvalidShippingAddress
	}
	if strings.TrimSpace(s.City) == "" {
		return ErrInvalidShippingAddress
	}
	if strings.TrimSpace(s.Street) == "" {
		return ErrInvalidShippingAddress
	}
	if strings.TrimSpace(s.Country) == "" {
		return ErrInvalidShippingAddress
	}
	return nil
}

func validateItems(items []OrderItemSnapshot) error {
	if len(items) < MinItemsRequired {
		return ErrInvalidItems
	}
	for _, it := range items {
		if strings.TrimSpace(it.ProductID) == "" {
			return ErrInvalidItemSnapshot
		}
		if it.Qty <= 0 {
			return ErrInvalidItemSnapshot
		}
		if it.Price < 0 {
			return ErrInvalidItemSnapshot
		}
	}
	return nil
}

// ========================================
// Helpers
// ========================================

func normalizeShippingSnapshot(s ShippingSnapshot) ShippingSnapshot {
	s.ZipCode = strings.TrimSpace(s.ZipCode)
	s.State = strings.TrimSpace(s.State)
	s.City = strings.TrimSpace(s.City)
	s.Street = strings.TrimSpace(s.Street)
	s.Street2 = strings.TrimSpace(s.Street2)
	s.Country = strings.TrimSpace(s.Country)
	return s
}

func normalizeItems(items []OrderItemSnapshot) []OrderItemSnapshot {
	out := make([]OrderItemSnapshot, 0, len(items))
	for _, it := range items {
		n := OrderItemSnapshot{
			ProductID:       strings.TrimSpace(it.ProductID),
			SelectedOptions: it.SelectedOptions,
			Qty:             it.Qty,
			Price:           it.Price,
		}
		out = append(out, n)
	}
	return out
}
