// internal/adapters/in/http/mall/handler/handler_test.go
package mallHandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/application/mutation"
	mallquery "storefront/internal/application/query/mall"
	"storefront/internal/application/query/mall/dto"
	"storefront/internal/application/usecase"
	cartdom "storefront/internal/domain/cart"
	favdom "storefront/internal/domain/favorites"
	productdom "storefront/internal/domain/product"
)

var hNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// ----------------------------
// fakes
// ----------------------------

type memProducts struct {
	byID map[string]*productdom.Product
}

func (r *memProducts) GetByID(ctx context.Context, id string) (*productdom.Product, error) {
	if p, ok := r.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, productdom.ErrNotFound
}

func (r *memProducts) ListActive(ctx context.Context, limit int) ([]productdom.Product, error) {
	out := []productdom.Product{}
	for _, p := range r.byID {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

type memCarts struct {
	byAvatar map[string]*cartdom.Cart
}

func (r *memCarts) GetByAvatarID(ctx context.Context, avatarID string) (*cartdom.Cart, error) {
	if c, ok := r.byAvatar[avatarID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *memCarts) Upsert(ctx context.Context, c *cartdom.Cart) error {
	cp := *c
	r.byAvatar[c.ID] = &cp
	return nil
}

func (r *memCarts) DeleteByAvatarID(ctx context.Context, avatarID string) error {
	delete(r.byAvatar, avatarID)
	return nil
}

type memFavorites struct {
	byAvatar map[string]*favdom.Favorites
}

func (r *memFavorites) GetByAvatarID(ctx context.Context, avatarID string) (*favdom.Favorites, error) {
	if f, ok := r.byAvatar[avatarID]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, nil
}

func (r *memFavorites) Upsert(ctx context.Context, f *favdom.Favorites) error {
	cp := *f
	r.byAvatar[f.ID] = &cp
	return nil
}

func (r *memFavorites) DeleteByAvatarID(ctx context.Context, avatarID string) error {
	delete(r.byAvatar, avatarID)
	return nil
}

// memCollection tracks membership per (kind, productId) for one avatar.
type memCollection struct {
	members map[string]bool // kind + "/" + productId
}

func (s *memCollection) slot(key mutation.Key) string {
	return string(key.Kind) + "/" + key.ProductID
}

func (s *memCollection) Add(ctx context.Context, key mutation.Key, qty int, selectedOptions map[string]string) (mutation.Outcome, error) {
	k := s.slot(key)
	if s.members[k] {
		return mutation.Outcome{Kind: mutation.OutcomeUpdated}, nil
	}
	s.members[k] = true
	return mutation.Outcome{Kind: mutation.OutcomeAdded}, nil
}

func (s *memCollection) Remove(ctx context.Context, key mutation.Key) (mutation.Outcome, error) {
	delete(s.members, s.slot(key))
	return mutation.Outcome{Kind: mutation.OutcomeRemoved}, nil
}

func (s *memCollection) Contains(ctx context.Context, key mutation.Key) (bool, error) {
	return s.members[s.slot(key)], nil
}

type productGate struct {
	products *memProducts
}

func (g *productGate) HasSelectableOptions(ctx context.Context, productID string) (bool, error) {
	p, err := g.products.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	return productdom.HasSelectableOptions(p), nil
}

// ctxIdentity reads the avatar id the way the DI wiring does.
type ctxIdentity struct{}

func (ctxIdentity) AvatarID(ctx context.Context) (string, bool) {
	return middleware.AvatarIDFromContext(ctx)
}

// ----------------------------
// fixture
// ----------------------------

func mustProduct(t *testing.T, id string, price int, attrs map[string]any) *productdom.Product {
	t.Helper()
	p, err := productdom.New(id, "product "+id, "", price, nil, attrs, true, hNow, hNow)
	require.NoError(t, err)
	return &p
}

func newCartServer(t *testing.T, products *memProducts) (*httptest.Server, *memCollection) {
	t.Helper()

	svc := &memCollection{members: map[string]bool{}}
	coord := mutation.NewCoordinator(svc, &productGate{products: products}, ctxIdentity{}, nil)

	q := mallquery.NewCartQuery(&memCarts{byAvatar: map[string]*cartdom.Cart{}}, products)
	h := NewCartHandler(q, coord)

	// stand-in for the auth middleware chain
	withAvatar := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := middleware.ContextWithAvatarID(r.Context(), "av-1")
		h.ServeHTTP(w, r.WithContext(ctx))
	})

	srv := httptest.NewServer(withAvatar)
	t.Cleanup(srv.Close)
	return srv, svc
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	return resp
}

func decodeState(t *testing.T, resp *http.Response) mutationStateResponse {
	t.Helper()
	defer resp.Body.Close()
	var out mutationStateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ----------------------------
// tests
// ----------------------------

func TestCartToggleEndpoint(t *testing.T) {
	products := &memProducts{byID: map[string]*productdom.Product{
		"p-1": mustProduct(t, "p-1", 4800, nil),
	}}
	srv, svc := newCartServer(t, products)

	resp := postJSON(t, srv.URL+"/mall/me/cart/items/p-1", nil)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	st := decodeState(t, resp)
	assert.Equal(t, string(mutation.StateSucceededAdd), st.State)
	assert.True(t, svc.members["cart/p-1"])

	// second toggle removes
	resp = postJSON(t, srv.URL+"/mall/me/cart/items/p-1", nil)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	st = decodeState(t, resp)
	assert.Equal(t, string(mutation.StateSucceededRemove), st.State)
	assert.False(t, svc.members["cart/p-1"])
}

func TestCartOptionFlowEndpoint(t *testing.T) {
	products := &memProducts{byID: map[string]*productdom.Product{
		"p-2": mustProduct(t, "p-2", 5200, map[string]any{"size": "S, M, L"}),
	}}
	srv, svc := newCartServer(t, products)

	// add without a selection suspends
	resp := postJSON(t, srv.URL+"/mall/me/cart/items/p-2", nil)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	st := decodeState(t, resp)
	assert.Equal(t, string(mutation.StateAwaitingOptions), st.State)
	assert.False(t, svc.members["cart/p-2"])

	// confirming resumes the parked add
	resp = postJSON(t, srv.URL+"/mall/me/cart/items/p-2/options", map[string]any{
		"selectedOptions": map[string]string{"size": "M"},
	})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	st = decodeState(t, resp)
	assert.Equal(t, string(mutation.StateSucceededAdd), st.State)
	assert.True(t, svc.members["cart/p-2"])
}

func TestCartOptionCancelEndpoint(t *testing.T) {
	products := &memProducts{byID: map[string]*productdom.Product{
		"p-3": mustProduct(t, "p-3", 900, map[string]any{"color": "red, blue"}),
	}}
	srv, svc := newCartServer(t, products)

	resp := postJSON(t, srv.URL+"/mall/me/cart/items/p-3", nil)
	st := decodeState(t, resp)
	require.Equal(t, string(mutation.StateAwaitingOptions), st.State)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/mall/me/cart/items/p-3/options", nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, delResp.StatusCode)
	st = decodeState(t, delResp)
	assert.Equal(t, string(mutation.StateIdle), st.State)
	assert.False(t, svc.members["cart/p-3"])
}

func TestCartStateEndpointDefaultsToIdle(t *testing.T) {
	products := &memProducts{byID: map[string]*productdom.Product{}}
	srv, _ := newCartServer(t, products)

	resp, err := http.Get(srv.URL + "/mall/me/cart/items/p-9/state")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	st := decodeState(t, resp)
	assert.Equal(t, string(mutation.StateIdle), st.State)
}

func TestCartMutationRequiresAvatar(t *testing.T) {
	products := &memProducts{byID: map[string]*productdom.Product{}}

	svc := &memCollection{members: map[string]bool{}}
	coord := mutation.NewCoordinator(svc, &productGate{products: products}, ctxIdentity{}, nil)
	q := mallquery.NewCartQuery(&memCarts{byAvatar: map[string]*cartdom.Cart{}}, products)

	// no avatar in context
	srv := httptest.NewServer(NewCartHandler(q, coord))
	t.Cleanup(srv.Close)

	resp := postJSON(t, srv.URL+"/mall/me/cart/items/p-1", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "login", body["action"])
}

func newFavoritesServer(t *testing.T, products *memProducts, favRepo *memFavorites) *httptest.Server {
	t.Helper()

	svc := &memCollection{members: map[string]bool{}}
	coord := mutation.NewCoordinator(svc, &productGate{products: products}, ctxIdentity{}, nil)
	h := NewFavoritesHandler(
		usecase.NewFavoritesUsecase(favRepo),
		mallquery.NewCatalogQuery(products),
		coord,
	)

	withAvatar := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := middleware.ContextWithAvatarID(r.Context(), "av-1")
		h.ServeHTTP(w, r.WithContext(ctx))
	})

	srv := httptest.NewServer(withAvatar)
	t.Cleanup(srv.Close)
	return srv
}

func TestFavoritesGetWithNoDoc(t *testing.T) {
	products := &memProducts{byID: map[string]*productdom.Product{}}
	srv := newFavoritesServer(t, products, &memFavorites{byAvatar: map[string]*favdom.Favorites{}})

	// a buyer who never favorited anything has no doc yet
	resp, err := http.Get(srv.URL + "/mall/me/favorites")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got favoritesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "av-1", got.AvatarID)
	assert.Empty(t, got.Products)
}

func TestFavoritesGetJoinsCatalog(t *testing.T) {
	products := &memProducts{byID: map[string]*productdom.Product{
		"p-1": mustProduct(t, "p-1", 4800, nil),
	}}
	fav, err := favdom.NewFavorites("av-1", []string{"p-1", "p-gone"}, hNow)
	require.NoError(t, err)
	srv := newFavoritesServer(t, products, &memFavorites{byAvatar: map[string]*favdom.Favorites{"av-1": fav}})

	resp, err := http.Get(srv.URL + "/mall/me/favorites")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got favoritesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	// vanished catalog entries are skipped
	require.Len(t, got.Products, 1)
	assert.Equal(t, "p-1", got.Products[0].ID)
}

func TestCatalogHandler(t *testing.T) {
	products := &memProducts{byID: map[string]*productdom.Product{
		"p-1": mustProduct(t, "p-1", 4800, map[string]any{"size": "S, M, L"}),
	}}
	srv := httptest.NewServer(NewCatalogHandler(mallquery.NewCatalogQuery(products)))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/mall/catalog/p-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got dto.CatalogProductDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "p-1", got.ID)
	assert.True(t, got.HasSelectableOptions)

	missing, err := http.Get(srv.URL + "/mall/catalog/nope")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}
