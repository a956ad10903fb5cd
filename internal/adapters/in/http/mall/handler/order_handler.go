// internal/adapters/in/http/mall/handler/order_handler.go
package mallHandler

import (
	"errors"
	"net/http"
	"strings"

	"storefront/internal/adapters/in/http/middleware"
	mallquery "storefront/internal/application/query/mall"
	"storefront/internal/application/usecase"
	orderdom "storefront/internal/domain/order"
)

// OrderHandler serves order history and checkout.
//
// Routes:
// - GET  /mall/me/orders           (history, ?limit=)
// - GET  /mall/me/orders/{orderId} (detail, ownership enforced)
// - POST /mall/me/orders           (checkout from the current cart)
type OrderHandler struct {
	Q        *mallquery.OrderQuery
	Checkout *usecase.CheckoutUsecase
}

func NewOrderHandler(q *mallquery.OrderQuery, checkout *usecase.CheckoutUsecase) http.Handler {
	return &OrderHandler{Q: q, Checkout: checkout}
}

type checkoutBody struct {
	Shipping orderdom.ShippingSnapshot `json:"shipping"`
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Q == nil || h.Checkout == nil {
		internalError(w, "order handler is not ready")
		return
	}

	avatarID, ok := middleware.CurrentAvatarID(r)
	if !ok {
		unauthorizedLogin(w)
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")

	// detail: /mall/me/orders/{orderId}
	if strings.HasPrefix(path, "/mall/me/orders/") {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		orderID := strings.TrimSpace(strings.TrimPrefix(path, "/mall/me/orders/"))
		if orderID == "" || strings.Contains(orderID, "/") {
			notFound(w)
			return
		}

		dto, err := h.Q.Get(r.Context(), orderID, avatarID)
		if err != nil {
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

	if path != "/mall/me/orders" {
		notFound(w)
		return
	}

	switch r.Method {
	case http.MethodGet:
		limit := parseIntDefault(r.URL.Query().Get("limit"), 0)
		list, err := h.Q.ListByAvatar(r.Context(), avatarID, limit)
		if err != nil {
			internalError(w, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"orders": list})

	case http.MethodPost:
		uid, email, okUser := middleware.CurrentUserUIDAndEmail(r)
		if !okUser {
			unauthorizedLogin(w)
			return
		}

		var body checkoutBody
		if err := readJSON(r, &body); err != nil {
			badRequest(w, "invalid json: "+err.Error())
			return
		}

		o, err := h.Checkout.Checkout(r.Context(), usecase.CheckoutInput{
			UserID:   uid,
			AvatarID: avatarID,
			Email:    email,
			Shipping: body.Shipping,
		})
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrCheckoutCartEmpty):
				writeJSON(w, http.StatusConflict, map[string]string{"error": "cart_empty"})
			case errors.Is(err, usecase.ErrCheckoutProductGone):
				writeJSON(w, http.StatusConflict, map[string]string{"error": "product_unavailable"})
			case errors.Is(err, usecase.ErrCheckoutInvalidArgument):
				badRequest(w, "invalid checkout input")
			default:
				internalError(w, err.Error())
			}
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"orderId": o.ID})

	default:
		methodNotAllowed(w)
	}
}
