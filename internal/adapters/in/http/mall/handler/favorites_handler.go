// internal/adapters/in/http/mall/handler/favorites_handler.go
package mallHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/application/mutation"
	mallquery "storefront/internal/application/query/mall"
	"storefront/internal/application/query/mall/dto"
	"storefront/internal/application/usecase"
)

// FavoritesHandler serves the buyer's favorites.
//
// Routes:
// - GET    /mall/me/favorites                                  (catalog join)
// - POST   /mall/me/favorites/items/{productId}                (toggle request)
// - POST   /mall/me/favorites/items/{productId}/options        (confirm selection)
// - DELETE /mall/me/favorites/items/{productId}/options        (cancel selection)
// - GET    /mall/me/favorites/items/{productId}/state          (slot state)
// - DELETE /mall/me/favorites/items/{productId}/state          (release slot)
type FavoritesHandler struct {
	Favorites *usecase.FavoritesUsecase
	Catalog   *mallquery.CatalogQuery
	Mut       *mutation.Coordinator
}

func NewFavoritesHandler(fav *usecase.FavoritesUsecase, catalog *mallquery.CatalogQuery, mut *mutation.Coordinator) http.Handler {
	return &FavoritesHandler{Favorites: fav, Catalog: catalog, Mut: mut}
}

type favoritesResponse struct {
	AvatarID string                  `json:"avatarId"`
	Products []dto.CatalogProductDTO `json:"products"`
}

func (h *FavoritesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Favorites == nil || h.Catalog == nil || h.Mut == nil {
		internalError(w, "favorites handler is not ready")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")

	// item mutations: /mall/me/favorites/items/{productId}[/options|/state]
	if strings.HasPrefix(path, "/mall/me/favorites/items/") {
		rest := strings.TrimPrefix(path, "/mall/me/favorites/items/")
		if serveMutationSubroute(w, r, h.Mut, mutation.KindFavorite, rest) {
			return
		}
		notFound(w)
		return
	}

	// read model: /mall/me/favorites
	if path == "/mall/me/favorites" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		avatarID, ok := middleware.CurrentAvatarID(r)
		if !ok {
			unauthorizedLogin(w)
			return
		}

		resp := favoritesResponse{AvatarID: avatarID, Products: []dto.CatalogProductDTO{}}

		fav, err := h.Favorites.Get(r.Context(), avatarID)
		if errors.Is(err, usecase.ErrFavoritesNotFound) {
			// no doc yet (nothing favorited): empty list
			writeJSON(w, http.StatusOK, resp)
			return
		}
		if err != nil {
			internalError(w, err.Error())
			return
		}

		for _, pid := range fav.ProductIDs {
			p, gerr := h.Catalog.Get(r.Context(), pid)
			if gerr != nil {
				// vanished catalog entries are skipped, not fatal
				if errors.Is(gerr, mallquery.ErrNotFound) {
					continue
				}
				log.Printf("[mall/favorites] catalog join failed productId=%s err=%v", pid, gerr)
				continue
			}
			resp.Products = append(resp.Products, *p)
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	notFound(w)
}
