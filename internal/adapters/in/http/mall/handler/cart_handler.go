// internal/adapters/in/http/mall/handler/cart_handler.go
package mallHandler

import (
	"net/http"
	"strings"

	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/application/mutation"
	mallquery "storefront/internal/application/query/mall"
)

// CartHandler serves the buyer's cart.
//
// Routes:
// - GET    /mall/me/cart                                   (joined read model)
// - POST   /mall/me/cart/items/{productId}                 (toggle request)
// - POST   /mall/me/cart/items/{productId}/options         (confirm selection)
// - DELETE /mall/me/cart/items/{productId}/options         (cancel selection)
// - GET    /mall/me/cart/items/{productId}/state           (slot state)
// - DELETE /mall/me/cart/items/{productId}/state           (release slot)
type CartHandler struct {
	Q   *mallquery.CartQuery
	Mut *mutation.Coordinator
}

func NewCartHandler(q *mallquery.CartQuery, mut *mutation.Coordinator) http.Handler {
	return &CartHandler{Q: q, Mut: mut}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Q == nil || h.Mut == nil {
		internalError(w, "cart handler is not ready")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")

	// item mutations: /mall/me/cart/items/{productId}[/options|/state]
	if strings.HasPrefix(path, "/mall/me/cart/items/") {
		rest := strings.TrimPrefix(path, "/mall/me/cart/items/")
		if serveMutationSubroute(w, r, h.Mut, mutation.KindCart, rest) {
			return
		}
		notFound(w)
		return
	}

	// read model: /mall/me/cart
	if path == "/mall/me/cart" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		avatarID, ok := middleware.CurrentAvatarID(r)
		if !ok {
			unauthorizedLogin(w)
			return
		}
		dto, err := h.Q.Get(r.Context(), avatarID)
		if err != nil {
			internalError(w, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, dto)
		return
	}

	notFound(w)
}
