// internal/application/query/mall/dto/order_dto.go
package dto

// OrderDTO is the order history / detail shape. Status is always derived
// from the live fulfillment signals, never read from storage.
type OrderDTO struct {
	ID        string `json:"id"`
	AvatarID  string `json:"avatarId"`
	Status    string `json:"status"`
	Total     int    `json:"total"` // JPY
	CreatedAt string `json:"createdAt"`

	Shipping OrderShippingDTO `json:"shipping"`
	Items    []OrderItemDTO   `json:"items"`
}

type OrderShippingDTO struct {
	ZipCode string `json:"zipCode,omitempty"`
	State   string `json:"state"`
	City    string `json:"city"`
	Street  string `json:"street"`
	Street2 string `json:"street2,omitempty"`
	Country string `json:"country"`
}

type OrderItemDTO struct {
	ID              string            `json:"id"`
	ProductID       string            `json:"productId"`
	SelectedOptions map[string]string `json:"selectedOptions,omitempty"`
	Qty             int               `json:"qty"`
	Price           int               `json:"price"` // JPY

	// per-item classification (same scale as the order status)
	Status             string `json:"status"`
	DeliveredInPartial bool   `json:"deliveredInPartial,omitempty"`

	// resolved fields
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"` // URL
}
