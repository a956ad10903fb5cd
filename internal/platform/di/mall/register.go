// internal/platform/di/mall/register.go
package mall

import (
	"encoding/json"
	"log"
	"net/http"

	mallhttp "storefront/internal/adapters/in/http/mall"
	mallhandler "storefront/internal/adapters/in/http/mall/handler"
	mallwebhook "storefront/internal/adapters/in/http/mall/webhook"
	"storefront/internal/adapters/in/http/middleware"
)

// notImplemented returns a non-nil handler (so deps are never nil) for
// endpoints that are not wired yet.
func notImplemented(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotImplemented)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": "not_implemented",
			"name":  name,
		})
	})
}

// requireBuyer wraps handler with UserAuthMiddleware + AvatarContextMiddleware
// (fail-closed). If the middleware is not initialized, it returns 503 so the
// wiring bug is obvious.
func requireBuyer(userMW *middleware.UserAuthMiddleware, avatarMW *middleware.AvatarContextMiddleware, h http.Handler, name string) http.Handler {
	if h == nil {
		h = http.NotFoundHandler()
	}
	if userMW == nil || userMW.FirebaseAuth == nil {
		log.Printf("[mall.register] ERROR: UserAuthMiddleware is not initialized (endpoint=%s). returning 503", name)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": "user_auth_not_initialized",
				"name":  name,
			})
		})
	}
	// inner to outer: auth first, then avatar resolution
	return userMW.Handler(avatarMW.Handler(h))
}

// Register registers mall routes onto mux.
// Pure DI: construct handlers and pass into the mall router.
func Register(mux *http.ServeMux, cont *Container) {
	if mux == nil || cont == nil {
		return
	}

	// ------------------------------------------------------------
	// Middleware (buyer side)
	// ------------------------------------------------------------
	var userMW *middleware.UserAuthMiddleware
	if cont.Infra != nil && cont.Infra.FirebaseAuth != nil {
		userMW = &middleware.UserAuthMiddleware{FirebaseAuth: cont.Infra.FirebaseAuth}
	} else {
		// fail-closed in requireBuyer
		log.Printf("[mall.register] WARN: cont.Infra or cont.Infra.FirebaseAuth is nil (buyer endpoints will return 503)")
		userMW = &middleware.UserAuthMiddleware{FirebaseAuth: nil}
	}
	avatarMW := &middleware.AvatarContextMiddleware{Resolver: cont.AvatarResolver}

	// ----------------------------
	// Handlers (construct only)
	// ----------------------------
	catalogH := notImplemented("Catalog")
	cartH := notImplemented("Cart")
	favoritesH := notImplemented("Favorites")
	orderH := notImplemented("Order")

	if cont.CatalogQ != nil {
		catalogH = mallhandler.NewCatalogHandler(cont.CatalogQ)
	}
	if cont.CartQ != nil && cont.MutationCoord != nil {
		cartH = mallhandler.NewCartHandler(cont.CartQ, cont.MutationCoord)
	}
	if cont.FavoritesUC != nil && cont.CatalogQ != nil && cont.MutationCoord != nil {
		favoritesH = mallhandler.NewFavoritesHandler(cont.FavoritesUC, cont.CatalogQ, cont.MutationCoord)
	}
	if cont.OrderQ != nil && cont.CheckoutUC != nil {
		orderH = mallhandler.NewOrderHandler(cont.OrderQ, cont.CheckoutUC)
	}

	// ------------------------------------------------------------
	// Apply middleware to all buyer endpoints (catalog stays public)
	// ------------------------------------------------------------
	cartH = requireBuyer(userMW, avatarMW, cartH, "Cart")
	favoritesH = requireBuyer(userMW, avatarMW, favoritesH, "Favorites")
	orderH = requireBuyer(userMW, avatarMW, orderH, "Order")

	// ----------------------------
	// Router deps
	// ----------------------------
	mallhttp.Register(mux, mallhttp.Deps{
		Catalog:   catalogH,
		Cart:      cartH,
		Favorites: favoritesH,
		Order:     orderH,
	})
	log.Printf("[boot] mall routes registered")

	// ----------------------------
	// Webhooks (shared-secret auth, no Firebase)
	// ----------------------------
	if cont.OrderUC != nil {
		shippingWH := mallwebhook.NewShippingHandler(cont.OrderUC, cont.Infra.ShippingWebhookToken)
		mux.Handle(ShippingWebhookPath, shippingWH)
		mux.Handle(ShippingWebhookPath+"/", shippingWH)
		log.Printf("[boot] shipping webhook registered path=%s", ShippingWebhookPath)
	}
}
