// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	cartdom "storefront/internal/domain/cart"
	orderdom "storefront/internal/domain/order"
	orderitemdom "storefront/internal/domain/orderItem"
	productdom "storefront/internal/domain/product"
)

// IDGenerator mints document ids for new orders and line items.
// The Firestore adapter backs this with NewDoc().ID.
type IDGenerator interface {
	NewID() string
}

// OrderConfirmationSender is an outbound port for the confirmation mail.
// Sending is best-effort: checkout never fails because mail failed.
type OrderConfirmationSender interface {
	SendOrderConfirmation(ctx context.Context, toEmail string, o orderdom.Order) error
}

var (
	ErrCheckoutInvalidArgument = errors.New("checkout: invalid argument")
	ErrCheckoutCartEmpty       = errors.New("checkout: cart is empty")
	ErrCheckoutProductGone     = errors.New("checkout: product no longer available")
)

// CheckoutUsecase turns the avatar's cart into an order:
//  1. snapshot cart lines with current prices
//  2. create the order and its line items
//  3. consume the cart (doc kept, items cleared, TTL refreshed)
//  4. best-effort confirmation mail
type CheckoutUsecase struct {
	carts    cartdom.Repository
	products productdom.Repository
	orders   orderdom.Repository
	items    orderitemdom.Repository
	ids      IDGenerator
	mailer   OrderConfirmationSender // optional
	clock    Clock
}

func NewCheckoutUsecase(
	carts cartdom.Repository,
	products productdom.Repository,
	orders orderdom.Repository,
	items orderitemdom.Repository,
	ids IDGenerator,
	mailer OrderConfirmationSender,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		carts:    carts,
		products: products,
		orders:   orders,
		items:    items,
		ids:      ids,
		mailer:   mailer,
		clock:    systemClock{},
	}
}

// NewCheckoutUsecaseWithClock is useful for tests.
func NewCheckoutUsecaseWithClock(
	carts cartdom.Repository,
	products productdom.Repository,
	orders orderdom.Repository,
	items orderitemdom.Repository,
	ids IDGenerator,
	mailer OrderConfirmationSender,
	clock Clock,
) *CheckoutUsecase {
	uc := NewCheckoutUsecase(carts, products, orders, items, ids, mailer)
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

// CheckoutInput is the app-level input for checkout.
type CheckoutInput struct {
	UserID   string
	AvatarID string
	Email    string // optional; empty skips the confirmation mail
	Shipping orderdom.ShippingSnapshot
}

// Checkout creates the order from the avatar's cart.
func (uc *CheckoutUsecase) Checkout(ctx context.Context, in CheckoutInput) (orderdom.Order, error) {
	uid := strings.TrimSpace(in.UserID)
	aid := strings.TrimSpace(in.AvatarID)
	if uid == "" || aid == "" {
		return orderdom.Order{}, ErrCheckoutInvalidArgument
	}

	c, err := uc.carts.GetByAvatarID(ctx, aid)
	if err != nil {
		return orderdom.Order{}, err
	}
	if c == nil || len(c.Items) == 0 {
		return orderdom.Order{}, ErrCheckoutCartEmpty
	}

	now := uc.clock.Now()

	// price the cart lines at checkout time
	snapshots := make([]orderdom.OrderItemSnapshot, 0, len(c.Items))
	for _, line := range c.Items {
		p, perr := uc.products.GetByID(ctx, line.ProductID)
		if perr != nil {
			if errors.Is(perr, productdom.ErrNotFound) {
				return orderdom.Order{}, fmt.Errorf("%w: productId=%s", ErrCheckoutProductGone, line.ProductID)
			}
			return orderdom.Order{}, perr
		}
		if !p.Active {
			return orderdom.Order{}, fmt.Errorf("%w: productId=%s", ErrCheckoutProductGone, line.ProductID)
		}
		snapshots = append(snapshots, orderdom.OrderItemSnapshot{
			ProductID:       line.ProductID,
			SelectedOptions: line.SelectedOptions,
			Qty:             line.Qty,
			Price:           p.Price,
		})
	}

	o, err := orderdom.New(uc.ids.NewID(), uid, aid, c.ID, in.Shipping, snapshots, now)
	if err != nil {
		return orderdom.Order{}, err
	}
	if err := uc.orders.Create(ctx, &o); err != nil {
		return orderdom.Order{}, err
	}

	for _, snap := range o.Items {
		oi, ierr := orderitemdom.New(uc.ids.NewID(), o.ID, snap.ProductID, snap.Qty, snap.Price, snap.SelectedOptions)
		if ierr != nil {
			return orderdom.Order{}, ierr
		}
		if ierr := uc.items.Upsert(ctx, &oi); ierr != nil {
			return orderdom.Order{}, ierr
		}
	}

	// consume the cart in the same request that persisted the order
	if _, cerr := c.ConsumeAll(now); cerr != nil {
		log.Printf("[checkout_uc] WARN: cart consume failed avatarId=%s orderId=%s err=%v", aid, o.ID, cerr)
	} else if cerr := uc.carts.Upsert(ctx, c); cerr != nil {
		log.Printf("[checkout_uc] WARN: cart save failed avatarId=%s orderId=%s err=%v", aid, o.ID, cerr)
	}

	if uc.mailer != nil && strings.TrimSpace(in.Email) != "" {
		if merr := uc.mailer.SendOrderConfirmation(ctx, strings.TrimSpace(in.Email), o); merr != nil {
			log.Printf("[checkout_uc] WARN: confirmation mail failed orderId=%s err=%v", o.ID, merr)
		}
	}

	log.Printf("[checkout_uc] OK: order created orderId=%s avatarId=%s items=%d", o.ID, aid, len(o.Items))
	return o, nil
}
