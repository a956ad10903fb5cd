// internal/application/query/mall/dto/catalog_dto.go
package dto

// ============================================================
// DTOs (for the storefront catalog screens)
// ============================================================

// CatalogProductDTO is one product as the storefront renders it.
// hasSelectableOptions drives the add-to-cart flow: true means the client
// must run the option selection round-trip before the add.
type CatalogProductDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int    `json:"price"` // JPY

	// color -> resolved image URLs (storage refs resolved server-side)
	VariantColorImages map[string][]string `json:"variantColorImages,omitempty"`

	// attribute -> option tokens, only attributes that actually offer a
	// choice (2+ distinct tokens)
	AttributeOptions map[string][]string `json:"attributeOptions,omitempty"`

	HasSelectableOptions bool `json:"hasSelectableOptions"`
}

// CatalogPageDTO is the list response.
type CatalogPageDTO struct {
	Products []CatalogProductDTO `json:"products"`
}
