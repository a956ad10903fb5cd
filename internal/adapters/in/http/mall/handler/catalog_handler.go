// internal/adapters/in/http/mall/handler/catalog_handler.go
package mallHandler

import (
	"errors"
	"net/http"
	"strings"

	mallquery "storefront/internal/application/query/mall"
)

// CatalogHandler serves the buyer-facing catalog endpoint.
//
// Routes:
// - GET /mall/catalog            (index, ?limit=)
// - GET /mall/catalog/{productId}
type CatalogHandler struct {
	Q *mallquery.CatalogQuery
}

func NewCatalogHandler(q *mallquery.CatalogQuery) http.Handler {
	return &CatalogHandler{Q: q}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Q == nil {
		internalError(w, "catalog handler is not ready")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")

	// detail: /mall/catalog/{productId}
	if strings.HasPrefix(path, "/mall/catalog/") {
		productID := strings.TrimSpace(strings.TrimPrefix(path, "/mall/catalog/"))
		if productID == "" || strings.Contains(productID, "/") {
			notFound(w)
			return
		}

		dto, err := h.Q.Get(r.Context(), productID)
		if err != nil {
			// buyer-facing: not found should be 404 (not 500)
			if errors.Is(err, mallquery.ErrNotFound) {
				notFound(w)
				return
			}
			internalError(w, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, dto)
		return
	}

	// index: /mall/catalog
	if path == "/mall/catalog" {
		limit := parseIntDefault(r.URL.Query().Get("limit"), 0)
		page, err := h.Q.List(r.Context(), limit)
		if err != nil {
			internalError(w, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, page)
		return
	}

	notFound(w)
}
