// internal/adapters/in/http/mall/router.go
package mall

import (
	"log"
	"net/http"
)

// Deps is the buyer-facing (mall) handler set.
type Deps struct {
	Catalog   http.Handler
	Cart      http.Handler
	Favorites http.Handler
	Order     http.Handler
}

// handleSafe registers pattern with h.
// If h is nil, it logs and registers NotFoundHandler instead (so Cloud Run won't crash).
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[mall.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// Register registers buyer-facing routes onto mux (mall only).
func Register(mux *http.ServeMux, deps Deps) {
	if mux == nil {
		return
	}

	// catalog (public)
	handleSafe(mux, "/mall/catalog", deps.Catalog, "Catalog")
	handleSafe(mux, "/mall/catalog/", deps.Catalog, "Catalog")

	// cart
	handleSafe(mux, "/mall/me/cart", deps.Cart, "Cart(me)")
	handleSafe(mux, "/mall/me/cart/", deps.Cart, "Cart(me)")

	// favorites
	handleSafe(mux, "/mall/me/favorites", deps.Favorites, "Favorites(me)")
	handleSafe(mux, "/mall/me/favorites/", deps.Favorites, "Favorites(me)")

	// orders (history / detail / checkout)
	handleSafe(mux, "/mall/me/orders", deps.Order, "Order(me)")
	handleSafe(mux, "/mall/me/orders/", deps.Order, "Order(me)")
}
