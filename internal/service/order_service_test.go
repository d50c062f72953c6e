package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The order total is the sum of its line subtotals.
func TestOrderService_PlaceOrderTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	designer := f.user(t, "designer@example.com", false, true)
	buyer := f.user(t, "buyer@example.com", false, false)
	a := f.product(t, designer, "A", "4.10")
	b := f.product(t, designer, "B", "5.15")

	placed, err := f.orders.PlaceOrder(ctx, buyer, []uuid.UUID{a.ID, b.ID, a.ID})
	require.NoError(t, err)

	require.Len(t, placed.Order.Products, 3)
	sum := decimal.Zero
	for _, line := range placed.Order.Products {
		sum = sum.Add(line.SubTotal)
	}
	assert.True(t, sum.Equal(placed.Order.TotalAmount))
	assert.True(t, decimal.RequireFromString("13.35").Equal(placed.Order.TotalAmount))

	require.Len(t, placed.Products, 3)
	assert.Equal(t, []string{"A", "B", "A"}, []string{placed.Products[0].Name, placed.Products[1].Name, placed.Products[2].Name})

	orders, err := f.orders.ListForUser(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, placed.Order.TotalAmount.Equal(orders[0].TotalAmount))
	assert.Len(t, orders[0].Products, 3)
}

// One unavailable product rejects the whole order and writes nothing.
func TestOrderService_PlaceOrderAllOrNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	designer := f.user(t, "designer@example.com", false, true)
	buyer := f.user(t, "buyer@example.com", false, false)
	active := f.product(t, designer, "A", "4")
	inactive := f.product(t, designer, "B", "5")
	require.NoError(t, f.catalog.Archive(ctx, designer, inactive.ID))

	const unavailable = "Unable to place order. One of the products does not exists or not available"

	_, err := f.orders.PlaceOrder(ctx, buyer, []uuid.UUID{active.ID, inactive.ID})
	requireRejection(t, err, unavailable)

	_, err = f.orders.PlaceOrder(ctx, buyer, []uuid.UUID{active.ID, uuid.New()})
	requireRejection(t, err, unavailable)

	// repeated ids are counted once against the available products
	_, err = f.orders.PlaceOrder(ctx, buyer, []uuid.UUID{active.ID, active.ID, uuid.New()})
	requireRejection(t, err, unavailable)

	orders, err := f.store.Orders().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	purchased, err := f.orders.ListPurchasedProducts(ctx, buyer)
	require.NoError(t, err)
	assert.Empty(t, purchased)
}

func TestOrderService_PlaceOrderRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin@example.com", true, false)
	buyer := f.user(t, "buyer@example.com", false, false)
	product := f.product(t, admin, "A", "4")

	_, err := f.orders.PlaceOrder(ctx, admin, []uuid.UUID{product.ID})
	requireRejection(t, err, "Only regular user and designer can place order")

	_, err = f.orders.PlaceOrder(ctx, buyer, nil)
	requireRejection(t, err, "Unable to place order. No products provided")
}

func TestOrderService_Listings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin@example.com", true, false)
	designer := f.user(t, "designer@example.com", false, true)
	rival := f.user(t, "rival@example.com", false, true)
	buyer := f.user(t, "buyer@example.com", false, false)
	mine := f.product(t, designer, "Mine", "4")
	theirs := f.product(t, rival, "Theirs", "5")

	_, err := f.orders.PlaceOrder(ctx, buyer, []uuid.UUID{mine.ID})
	require.NoError(t, err)
	_, err = f.orders.PlaceOrder(ctx, buyer, []uuid.UUID{theirs.ID})
	require.NoError(t, err)
	_, err = f.orders.PlaceOrder(ctx, buyer, []uuid.UUID{theirs.ID})
	require.NoError(t, err)

	_, err = f.orders.ListAll(ctx, buyer)
	requireRejection(t, err, "Unauthorized to retrieve all orders")

	all, err := f.orders.ListAll(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.orders.ListForUser(ctx, admin)
	requireRejection(t, err, "Only regular user can retrieve its orders")

	purchased, err := f.orders.ListPurchasedProducts(ctx, buyer)
	require.NoError(t, err)
	assert.Len(t, purchased, 2)

	forDesigner, err := f.orders.ListForDesigner(ctx, designer)
	require.NoError(t, err)
	assert.Len(t, forDesigner, 1)

	forRival, err := f.orders.ListForDesigner(ctx, rival)
	require.NoError(t, err)
	assert.Len(t, forRival, 2)

	_, err = f.orders.ListForDesigner(ctx, buyer)
	requireRejection(t, err, "Only designer can retrieve orders of their products")
}
