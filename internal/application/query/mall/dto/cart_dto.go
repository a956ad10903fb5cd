// internal/application/query/mall/dto/cart_dto.go
package dto

// CartDTO is the response shape for the cart screen.
// NOTE: cart_query returns ONLY minimal fields required for the cart screen.
type CartDTO struct {
	AvatarID string        `json:"avatarId"`
	Items    []CartItemDTO `json:"items"`
	Total    int           `json:"total"` // JPY, resolved lines only

	CreatedAt *string `json:"createdAt,omitempty"`
	UpdatedAt *string `json:"updatedAt,omitempty"`
	ExpiresAt *string `json:"expiresAt,omitempty"`
}

type CartItemDTO struct {
	ProductID       string            `json:"productId"`
	SelectedOptions map[string]string `json:"selectedOptions,omitempty"`
	Qty             int               `json:"qty"`

	// resolved fields for cart view
	Name         string `json:"name,omitempty"`
	Image        string `json:"image,omitempty"` // URL
	Price        *int   `json:"price,omitempty"` // JPY, nil when the product vanished
	ProductError string `json:"productError,omitempty"`
}
