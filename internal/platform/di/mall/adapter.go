// internal/platform/di/mall/adapter.go
package mall

import (
	"context"
	"errors"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"storefront/internal/adapters/in/http/middleware"
	outdb "storefront/internal/adapters/out/db"
	"storefront/internal/application/mutation"
	"storefront/internal/application/usecase"
	orderdom "storefront/internal/domain/order"
	orderitemdom "storefront/internal/domain/orderItem"
	productdom "storefront/internal/domain/product"
)

// ============================================================
// Mutation ports (coordinator -> usecases)
// ============================================================

// collectionServiceUC backs mutation.CollectionService with the cart and
// favorites usecases. Outcome added/updated is decided by a membership
// pre-check (a second add of the same product merges, not duplicates).
type collectionServiceUC struct {
	carts     *usecase.CartUsecase
	favorites *usecase.FavoritesUsecase
}

func (s *collectionServiceUC) Add(ctx context.Context, key mutation.Key, qty int, selectedOptions map[string]string) (mutation.Outcome, error) {
	existed, err := s.Contains(ctx, key)
	if err != nil {
		return mutation.Outcome{}, err
	}

	switch key.Kind {
	case mutation.KindCart:
		if _, err := s.carts.AddItem(ctx, key.AvatarID, key.ProductID, selectedOptions, qty); err != nil {
			return mutation.Outcome{}, err
		}
	case mutation.KindFavorite:
		if _, err := s.favorites.Add(ctx, key.AvatarID, key.ProductID); err != nil {
			return mutation.Outcome{}, err
		}
	default:
		return mutation.Outcome{}, mutation.ErrInvalidKey
	}

	if existed {
		return mutation.Outcome{Kind: mutation.OutcomeUpdated}, nil
	}
	return mutation.Outcome{Kind: mutation.OutcomeAdded}, nil
}

func (s *collectionServiceUC) Remove(ctx context.Context, key mutation.Key) (mutation.Outcome, error) {
	switch key.Kind {
	case mutation.KindCart:
		if _, err := s.carts.RemoveProduct(ctx, key.AvatarID, key.ProductID); err != nil {
			return mutation.Outcome{}, err
		}
	case mutation.KindFavorite:
		if _, err := s.favorites.Remove(ctx, key.AvatarID, key.ProductID); err != nil {
			return mutation.Outcome{}, err
		}
	default:
		return mutation.Outcome{}, mutation.ErrInvalidKey
	}
	return mutation.Outcome{Kind: mutation.OutcomeRemoved}, nil
}

func (s *collectionServiceUC) Contains(ctx context.Context, key mutation.Key) (bool, error) {
	switch key.Kind {
	case mutation.KindCart:
		return s.carts.ContainsProduct(ctx, key.AvatarID, key.ProductID)
	case mutation.KindFavorite:
		return s.favorites.Contains(ctx, key.AvatarID, key.ProductID)
	default:
		return false, mutation.ErrInvalidKey
	}
}

// optionGateRepo answers the option gate from the product catalog.
type optionGateRepo struct {
	products productdom.Repository
}

func (g *optionGateRepo) HasSelectableOptions(ctx context.Context, productID string) (bool, error) {
	p, err := g.products.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	return productdom.HasSelectableOptions(p), nil
}

// contextIdentity reads the avatar id placed into the request context by
// AvatarContextMiddleware.
type contextIdentity struct{}

func (contextIdentity) AvatarID(ctx context.Context) (string, bool) {
	return middleware.AvatarIDFromContext(ctx)
}

// ============================================================
// Avatar resolver (uid -> avatarId, Firestore)
// ============================================================

var errAvatarResolverNotConfigured = errors.New("di.mall: avatarResolverFS not configured")

// avatarResolverFS implements middleware.AvatarResolver by looking up the
// avatars collection by the Firebase uid.
type avatarResolverFS struct {
	fs  *firestore.Client
	col string // default "avatars"
}

func (r *avatarResolverFS) ResolveAvatarByUID(ctx context.Context, uid string) (string, error) {
	if r == nil || r.fs == nil {
		return "", errAvatarResolverNotConfigured
	}
	u := strings.TrimSpace(uid)
	if u == "" {
		return "", errors.New("avatarResolverFS: uid is empty")
	}
	col := strings.TrimSpace(r.col)
	if col == "" {
		col = "avatars"
	}

	it := r.fs.Collection(col).
		Where("uid", "==", u).
		Limit(1).
		Documents(ctx)

	doc, err := it.Next()
	if err != nil {
		if err == iterator.Done {
			// worded so the middleware classifies it as 404
			return "", errors.New("avatar not found for uid")
		}
		return "", err
	}
	if doc == nil || doc.Ref == nil {
		return "", errors.New("avatar not found for uid")
	}
	return strings.TrimSpace(doc.Ref.ID), nil
}

// ============================================================
// Postgres mirror decorators (best-effort)
// ============================================================

// orderRepoMirror writes through to Firestore and mirrors into Postgres.
// Mirror failures are logged, never surfaced: Firestore stays the source
// of truth.
type orderRepoMirror struct {
	primary orderdom.Repository
	mirror  *outdb.OrderRepositoryPG
}

func (r *orderRepoMirror) GetByID(ctx context.Context, id string) (*orderdom.Order, error) {
	return r.primary.GetByID(ctx, id)
}

func (r *orderRepoMirror) ListByAvatarID(ctx context.Context, avatarID string, limit int) ([]orderdom.Order, error) {
	return r.primary.ListByAvatarID(ctx, avatarID, limit)
}

func (r *orderRepoMirror) Create(ctx context.Context, o *orderdom.Order) error {
	if err := r.primary.Create(ctx, o); err != nil {
		return err
	}
	if r.mirror != nil {
		if err := r.mirror.Create(ctx, o); err != nil {
			log.Printf("[di.mall] WARN: order mirror create failed orderId=%s err=%v", o.ID, err)
		}
	}
	return nil
}

func (r *orderRepoMirror) Save(ctx context.Context, o *orderdom.Order) error {
	if err := r.primary.Save(ctx, o); err != nil {
		return err
	}
	if r.mirror != nil {
		if err := r.mirror.Save(ctx, o); err != nil {
			log.Printf("[di.mall] WARN: order mirror save failed orderId=%s err=%v", o.ID, err)
		}
	}
	return nil
}

// orderItemRepoMirror is the line-item counterpart of orderRepoMirror.
type orderItemRepoMirror struct {
	primary orderitemdom.Repository
	mirror  *outdb.OrderItemRepositoryPG
}

func (r *orderItemRepoMirror) GetByID(ctx context.Context, id string) (*orderitemdom.OrderItem, error) {
	return r.primary.GetByID(ctx, id)
}

func (r *orderItemRepoMirror) ListByOrderID(ctx context.Context, orderID string) ([]orderitemdom.OrderItem, error) {
	return r.primary.ListByOrderID(ctx, orderID)
}

func (r *orderItemRepoMirror) Upsert(ctx context.Context, oi *orderitemdom.OrderItem) error {
	if err := r.primary.Upsert(ctx, oi); err != nil {
		return err
	}
	if r.mirror != nil {
		if err := r.mirror.Upsert(ctx, oi); err != nil {
			log.Printf("[di.mall] WARN: orderItem mirror upsert failed itemId=%s err=%v", oi.ID, err)
		}
	}
	return nil
}
