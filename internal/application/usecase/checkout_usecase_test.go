// internal/application/usecase/checkout_usecase_test.go
package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdom "storefront/internal/domain/order"
	orderitemdom "storefront/internal/domain/orderItem"
	productdom "storefront/internal/domain/product"
)

var testShipping = orderdom.ShippingSnapshot{
	ZipCode: "150-0001",
	State:   "Tokyo",
	City:    "Shibuya",
	Street:  "1-2-3",
	Country: "JP",
}

func newTestProduct(t *testing.T, id string, price int) *productdom.Product {
	t.Helper()
	p, err := productdom.New(id, "product "+id, "", price, nil, nil, true, testNow, testNow)
	require.NoError(t, err)
	return &p
}

func TestCheckoutCreatesOrderAndConsumesCart(t *testing.T) {
	ctx := context.Background()
	carts := newMemCartRepo()
	orders := newMemOrderRepo()
	items := newMemOrderItemRepo()
	products := newMemProductRepo(
		newTestProduct(t, "p-1", 1200),
		newTestProduct(t, "p-2", 800),
	)
	mailer := &recordingMailer{}

	cartUC := NewCartUsecaseWithClock(carts, fixedClock{t: testNow})
	_, err := cartUC.AddItem(ctx, "av-1", "p-1", map[string]string{"size": "L"}, 2)
	require.NoError(t, err)
	_, err = cartUC.AddItem(ctx, "av-1", "p-2", nil, 1)
	require.NoError(t, err)

	uc := NewCheckoutUsecaseWithClock(carts, products, orders, items, &seqIDs{}, mailer, fixedClock{t: testNow})
	o, err := uc.Checkout(ctx, CheckoutInput{
		UserID:   "user-1",
		AvatarID: "av-1",
		Email:    "buyer@example.com",
		Shipping: testShipping,
	})
	require.NoError(t, err)

	require.Len(t, o.Items, 2)
	assert.Equal(t, "av-1", o.AvatarID)
	assert.Equal(t, "user-1", o.UserID)

	// prices snapshotted from the catalog
	byProduct := map[string]orderdom.OrderItemSnapshot{}
	for _, s := range o.Items {
		byProduct[s.ProductID] = s
	}
	assert.Equal(t, 1200, byProduct["p-1"].Price)
	assert.Equal(t, 2, byProduct["p-1"].Qty)
	assert.Equal(t, 800, byProduct["p-2"].Price)

	// line items persisted alongside the order
	lines, err := items.ListByOrderID(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	// cart consumed but kept
	c, err := carts.GetByAvatarID(ctx, "av-1")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Empty(t, c.Items)

	// confirmation mail sent once
	assert.Equal(t, []string{"buyer@example.com"}, mailer.sent)
}

func TestCheckoutEmptyCart(t *testing.T) {
	uc := NewCheckoutUsecaseWithClock(newMemCartRepo(), newMemProductRepo(), newMemOrderRepo(), newMemOrderItemRepo(), &seqIDs{}, nil, fixedClock{t: testNow})

	_, err := uc.Checkout(context.Background(), CheckoutInput{
		UserID:   "user-1",
		AvatarID: "av-1",
		Shipping: testShipping,
	})
	assert.ErrorIs(t, err, ErrCheckoutCartEmpty)
}

func TestCheckoutRejectsVanishedProduct(t *testing.T) {
	ctx := context.Background()
	carts := newMemCartRepo()
	cartUC := NewCartUsecaseWithClock(carts, fixedClock{t: testNow})
	_, err := cartUC.AddItem(ctx, "av-1", "p-gone", nil, 1)
	require.NoError(t, err)

	uc := NewCheckoutUsecaseWithClock(carts, newMemProductRepo(), newMemOrderRepo(), newMemOrderItemRepo(), &seqIDs{}, nil, fixedClock{t: testNow})
	_, err = uc.Checkout(ctx, CheckoutInput{UserID: "user-1", AvatarID: "av-1", Shipping: testShipping})
	assert.ErrorIs(t, err, ErrCheckoutProductGone)
}

func TestCheckoutMailFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	carts := newMemCartRepo()
	cartUC := NewCartUsecaseWithClock(carts, fixedClock{t: testNow})
	_, err := cartUC.AddItem(ctx, "av-1", "p-1", nil, 1)
	require.NoError(t, err)

	mailer := &recordingMailer{err: assert.AnError}
	uc := NewCheckoutUsecaseWithClock(carts, newMemProductRepo(newTestProduct(t, "p-1", 500)), newMemOrderRepo(), newMemOrderItemRepo(), &seqIDs{}, mailer, fixedClock{t: testNow})

	_, err = uc.Checkout(ctx, CheckoutInput{
		UserID:   "user-1",
		AvatarID: "av-1",
		Email:    "buyer@example.com",
		Shipping: testShipping,
	})
	assert.NoError(t, err)
}

func TestOrderDetailDerivesStatus(t *testing.T) {
	ctx := context.Background()
	orders := newMemOrderRepo()
	items := newMemOrderItemRepo()

	o, err := orderdom.New("o-1", "user-1", "av-1", "av-1", testShipping,
		[]orderdom.OrderItemSnapshot{{ProductID: "p-1", Qty: 1, Price: 100}}, testNow)
	require.NoError(t, err)
	require.NoError(t, orders.Create(ctx, &o))

	it, err := orderitemdom.New("oi-1", "o-1", "p-1", 1, 100, nil)
	require.NoError(t, err)
	it.SetGatheringStatus(orderitemdom.GatheringGathered)
	require.NoError(t, items.Upsert(ctx, &it))

	uc := NewOrderUsecase(orders, items)
	detail, err := uc.Get(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, orderdom.StatusCollecting, detail.Status)

	// carrier aggregate signal short-circuits to delivered
	_, err = uc.SetOrderDeliverySignals(ctx, "o-1", "delivered", "")
	require.NoError(t, err)
	detail, err = uc.Get(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, orderdom.StatusDelivered, detail.Status)
}

func TestOrderItemSignalUpdates(t *testing.T) {
	ctx := context.Background()
	items := newMemOrderItemRepo()
	it, err := orderitemdom.New("oi-1", "o-1", "p-1", 1, 100, nil)
	require.NoError(t, err)
	require.NoError(t, items.Upsert(ctx, &it))

	uc := NewOrderUsecase(newMemOrderRepo(), items)

	got, err := uc.SetItemGatheringStatus(ctx, "oi-1", orderitemdom.GatheringAtWarehouse)
	require.NoError(t, err)
	assert.Equal(t, orderitemdom.GatheringAtWarehouse, got.GatheringStatus)

	got, err = uc.SetItemDeliveryStatus(ctx, "oi-1", "delivered", true)
	require.NoError(t, err)
	assert.Equal(t, "delivered", got.DeliveryStatus)
	assert.True(t, got.DeliveredInPartial)
}
