// internal/platform/di/mall/container.go
package mall

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"storefront/internal/adapters/in/http/middleware"
	outdb "storefront/internal/adapters/out/db"
	outfs "storefront/internal/adapters/out/firestore"
	gcso "storefront/internal/adapters/out/gcs"
	outmail "storefront/internal/adapters/out/mail"
	"storefront/internal/application/mutation"
	mallquery "storefront/internal/application/query/mall"
	"storefront/internal/application/usecase"
	orderdom "storefront/internal/domain/order"
	orderitemdom "storefront/internal/domain/orderItem"

	shared "storefront/internal/platform/di/shared"
)

const (
	ShippingWebhookPath = "/webhooks/shipping"

	defaultAvatarsCollection = "avatars"

	// signed image URLs stay valid long enough for one page view
	imageSignTTL = 15 * time.Minute
)

// Container is the mall DI container.
// Pure DI: build deps only. No routing branching, no reflection tricks.
type Container struct {
	Infra *shared.Infra

	// Usecases
	CartUC      *usecase.CartUsecase
	FavoritesUC *usecase.FavoritesUsecase
	OrderUC     *usecase.OrderUsecase
	CheckoutUC  *usecase.CheckoutUsecase

	// Queries
	CatalogQ *mallquery.CatalogQuery
	CartQ    *mallquery.CartQuery
	OrderQ   *mallquery.OrderQuery

	// Collection mutation machinery
	MutationCoord   *mutation.Coordinator
	MutationWatcher *mutation.Watcher

	// uid -> avatarId (middleware)
	AvatarResolver middleware.AvatarResolver
}

func NewContainer(ctx context.Context, infra *shared.Infra) (*Container, error) {
	// shared infra
	if infra == nil {
		var err error
		infra, err = shared.NewInfra(ctx)
		if err != nil {
			return nil, err
		}
	}
	if infra == nil {
		return nil, errors.New("di.mall: shared infra is nil")
	}
	if infra.Config == nil {
		return nil, errors.New("di.mall: shared infra config is nil")
	}

	fsClient := infra.Firestore
	if fsClient == nil {
		return nil, errors.New("di.mall: infra.Firestore is nil")
	}

	c := &Container{Infra: infra}

	// --------------------------------------------------------
	// Firestore repositories
	// --------------------------------------------------------
	productRepo := outfs.NewProductRepositoryFS(fsClient)
	cartRepo := outfs.NewCartRepositoryFS(fsClient)
	favoritesRepo := outfs.NewFavoritesRepositoryFS(fsClient)
	idGen := outfs.NewIDGeneratorFS(fsClient)

	var orderRepo orderdom.Repository = outfs.NewOrderRepositoryFS(fsClient)
	var orderItemRepo orderitemdom.Repository = outfs.NewOrderItemRepositoryFS(fsClient)

	// Optional Postgres mirror (best-effort write-through)
	if infra.Postgres != nil && infra.Postgres.Client != nil {
		orderRepo = &orderRepoMirror{
			primary: orderRepo,
			mirror:  outdb.NewOrderRepositoryPG(infra.Postgres.Client),
		}
		orderItemRepo = &orderItemRepoMirror{
			primary: orderItemRepo,
			mirror:  outdb.NewOrderItemRepositoryPG(infra.Postgres.Client),
		}
		log.Printf("[di.mall] postgres order mirror enabled")
	}

	// --------------------------------------------------------
	// Image URL resolver
	//   product image bucket is private; serve V4 signed URLs
	// --------------------------------------------------------
	var images mallquery.ImageURLResolver
	if infra.GCS != nil {
		images = gcso.NewSigningImageURLResolver(infra.GCS, infra.ProductImageBucket, imageSignTTL)
	} else {
		images = gcso.NewImageURLResolver(infra.ProductImageBucket)
	}

	// --------------------------------------------------------
	// Mail (best-effort; checkout works without it)
	// --------------------------------------------------------
	var mailer usecase.OrderConfirmationSender
	{
		apiKey := strings.TrimSpace(infra.Config.SendGridAPIKey)
		if apiKey == "" && infra.SecretManager != nil {
			provider := &sendGridKeyProviderSM{
				sm:        infra.SecretManager,
				projectID: infra.ProjectID,
				secretID:  infra.Config.SendGridSecretID,
				version:   "latest",
			}
			k, err := provider.Fetch(ctx)
			if err != nil {
				log.Printf("[di.mall] WARN: sendgrid key fetch failed: %v (order mail disabled)", err)
			} else {
				apiKey = k
			}
		}
		if apiKey != "" {
			client := outmail.NewSendGridClient(apiKey, "Storefront")
			mailer = outmail.NewOrderMailer(client, infra.MailFromAddress, infra.SiteBaseURL)
		} else {
			log.Printf("[di.mall] order confirmation mail disabled (no SendGrid API key)")
		}
	}

	// --------------------------------------------------------
	// Usecases
	// --------------------------------------------------------
	c.CartUC = usecase.NewCartUsecase(cartRepo)
	c.FavoritesUC = usecase.NewFavoritesUsecase(favoritesRepo)
	c.OrderUC = usecase.NewOrderUsecase(orderRepo, orderItemRepo)
	c.CheckoutUC = usecase.NewCheckoutUsecase(
		cartRepo,
		productRepo,
		orderRepo,
		orderItemRepo,
		idGen,
		mailer,
	)

	// --------------------------------------------------------
	// Queries
	// --------------------------------------------------------
	c.CatalogQ = mallquery.NewCatalogQueryWithImageResolver(productRepo, images)

	c.CartQ = mallquery.NewCartQuery(cartRepo, productRepo)
	c.CartQ.Images = images

	c.OrderQ = mallquery.NewOrderQueryWithCatalog(orderRepo, orderItemRepo, productRepo, images)

	// --------------------------------------------------------
	// Collection mutation machinery (cart / favorites toggles)
	// --------------------------------------------------------
	{
		svc := &collectionServiceUC{carts: c.CartUC, favorites: c.FavoritesUC}
		gate := &optionGateRepo{products: productRepo}

		c.MutationCoord = mutation.NewCoordinator(svc, gate, contextIdentity{}, nil)
		c.MutationWatcher = mutation.NewWatcher(c.MutationCoord)
	}

	// --------------------------------------------------------
	// uid -> avatarId resolver for the middleware chain
	// --------------------------------------------------------
	c.AvatarResolver = &avatarResolverFS{fs: fsClient, col: defaultAvatarsCollection}

	log.Printf(
		"[di.mall] container built (firestore=%t gcs=%t firebaseAuth=%t postgresMirror=%t mailer=%t cartUC=%t favoritesUC=%t orderUC=%t checkoutUC=%t catalogQ=%t cartQ=%t orderQ=%t mutationCoord=%t)",
		c.Infra.Firestore != nil,
		c.Infra.GCS != nil,
		c.Infra.FirebaseAuth != nil,
		c.Infra.Postgres != nil,
		mailer != nil,
		c.CartUC != nil,
		c.FavoritesUC != nil,
		c.OrderUC != nil,
		c.CheckoutUC != nil,
		c.CatalogQ != nil,
		c.CartQ != nil,
		c.OrderQ != nil,
		c.MutationCoord != nil,
	)

	return c, nil
}

// Close releases container-owned background resources (not the shared infra).
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.MutationWatcher != nil {
		c.MutationWatcher.Stop()
	}
	return nil
}
