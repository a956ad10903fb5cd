// internal/application/query/mall/catalog_query.go
package mall

import (
	"context"
	"errors"
	"log"
	"strings"

	dto "storefront/internal/application/query/mall/dto"

	productdom "storefront/internal/domain/product"
)

// ============================================================
// Ports (minimal contracts for this query)
// ============================================================

// ImageURLResolver turns a stored image ref (gs:// path or object name)
// into a public URL. A ref that already looks like a URL passes through.
type ImageURLResolver interface {
	ResolveImageURL(ctx context.Context, ref string) (string, error)
}

// ============================================================
// Query
// ============================================================

type CatalogQuery struct {
	ProductRepo productdom.Repository

	// optional; nil leaves refs as stored
	Images ImageURLResolver
}

func NewCatalogQuery(productRepo productdom.Repository) *CatalogQuery {
	return &CatalogQuery{ProductRepo: productRepo}
}

func NewCatalogQueryWithImageResolver(productRepo productdom.Repository, images ImageURLResolver) *CatalogQuery {
	return &CatalogQuery{ProductRepo: productRepo, Images: images}
}

// Get returns the catalog view of one product.
func (q *CatalogQuery) Get(ctx context.Context, productID string) (*dto.CatalogProductDTO, error) {
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return nil, ErrNotFound
	}

	p, err := q.ProductRepo.GetByID(ctx, pid)
	if err != nil {
		if errors.Is(err, productdom.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	d := q.toDTO(ctx, p)
	return &d, nil
}

// List returns the active catalog page. limit <= 0 means repository default.
func (q *CatalogQuery) List(ctx context.Context, limit int) (*dto.CatalogPageDTO, error) {
	products, err := q.ProductRepo.ListActive(ctx, limit)
	if err != nil {
		return nil, err
	}

	page := &dto.CatalogPageDTO{Products: make([]dto.CatalogProductDTO, 0, len(products))}
	for i := range products {
		page.Products = append(page.Products, q.toDTO(ctx, &products[i]))
	}
	return page, nil
}

func (q *CatalogQuery) toDTO(ctx context.Context, p *productdom.Product) dto.CatalogProductDTO {
	return dto.CatalogProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,

		VariantColorImages: q.resolveColorImages(ctx, p.VariantColorImages),
		AttributeOptions:   productdom.AttributeOptions(p),

		HasSelectableOptions: productdom.HasSelectableOptions(p),
	}
}

func (q *CatalogQuery) resolveColorImages(ctx context.Context, src map[string][]string) map[string][]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string][]string, len(src))
	for color, refs := range src {
		urls := make([]string, 0, len(refs))
		for _, ref := range refs {
			urls = append(urls, q.resolveRef(ctx, ref))
		}
		out[color] = urls
	}
	return out
}

func (q *CatalogQuery) resolveRef(ctx context.Context, ref string) string {
	if q.Images == nil {
		return ref
	}
	url, err := q.Images.ResolveImageURL(ctx, ref)
	if err != nil {
		// keep the stored ref rather than dropping the image
		log.Printf("[catalog_query] WARN: image resolve failed ref=%s err=%v", ref, err)
		return ref
	}
	return url
}
