// internal/adapters/in/http/mall/webhook/shipping_handler.go
package webhook

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"storefront/internal/application/usecase"
	orderdom "storefront/internal/domain/order"
	orderitemdom "storefront/internal/domain/orderItem"
)

// ShippingHandler ingests fulfillment signals from the warehouse and the
// carrier. The derived order/item statuses are computed on read; this
// endpoint only records the raw signals.
//
// Route:
// - POST /webhooks/shipping
//
// Events:
//   - item.gathering   {itemId, gatheringStatus}
//   - item.delivery    {itemId, deliveryStatus, deliveredInPartial}
//   - order.delivery   {orderId, deliveryStatus, distributionStatus}
//
// Authenticated by a shared secret header (X-Webhook-Token).
type ShippingHandler struct {
	Orders *usecase.OrderUsecase
	Token  string
}

func NewShippingHandler(orders *usecase.OrderUsecase, token string) http.Handler {
	return &ShippingHandler{Orders: orders, Token: strings.TrimSpace(token)}
}

type shippingEvent struct {
	Type string `json:"type"`

	ItemID  string `json:"itemId,omitempty"`
	OrderID string `json:"orderId,omitempty"`

	GatheringStatus    string `json:"gatheringStatus,omitempty"`
	DeliveryStatus     string `json:"deliveryStatus,omitempty"`
	DistributionStatus string `json:"distributionStatus,omitempty"`
	DeliveredInPartial bool   `json:"deliveredInPartial,omitempty"`
}

func (h *ShippingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Orders == nil {
		writeErr(w, http.StatusServiceUnavailable, "shipping webhook is not ready")
		return
	}
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method_not_allowed")
		return
	}

	// fail closed when the deployment forgot to set the secret
	if h.Token == "" {
		log.Printf("[webhook/shipping] WARN: token not configured, rejecting")
		writeErr(w, http.StatusServiceUnavailable, "webhook_not_configured")
		return
	}
	got := strings.TrimSpace(r.Header.Get("X-Webhook-Token"))
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.Token)) != 1 {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var ev shippingEvent
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&ev); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	switch strings.TrimSpace(ev.Type) {
	case "item.gathering":
		_, err := h.Orders.SetItemGatheringStatus(r.Context(), ev.ItemID, orderitemdom.GatheringStatus(ev.GatheringStatus))
		h.finish(w, ev, err)

	case "item.delivery":
		_, err := h.Orders.SetItemDeliveryStatus(r.Context(), ev.ItemID, ev.DeliveryStatus, ev.DeliveredInPartial)
		h.finish(w, ev, err)

	case "order.delivery":
		_, err := h.Orders.SetOrderDeliverySignals(r.Context(), ev.OrderID, ev.DeliveryStatus, ev.DistributionStatus)
		h.finish(w, ev, err)

	default:
		// unknown event types are acknowledged so the sender does not retry
		log.Printf("[webhook/shipping] ignoring event type=%q", ev.Type)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *ShippingHandler) finish(w http.ResponseWriter, ev shippingEvent, err error) {
	if err != nil {
		switch {
		case errors.Is(err, orderitemdom.ErrNotFound), errors.Is(err, orderdom.ErrNotFound):
			log.Printf("[webhook/shipping] target not found type=%s itemId=%s orderId=%s -> 404", ev.Type, ev.ItemID, ev.OrderID)
			writeErr(w, http.StatusNotFound, "not_found")
		case errors.Is(err, usecase.ErrOrderInvalidArgument):
			writeErr(w, http.StatusBadRequest, "invalid_argument")
		default:
			log.Printf("[webhook/shipping] apply failed type=%s err=%v", ev.Type, err)
			writeErr(w, http.StatusInternalServerError, "apply_failed")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
