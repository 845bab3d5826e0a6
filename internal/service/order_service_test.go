package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go-storefront-api/internal/event"
	"go-storefront-api/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupQuantities_CountsRepeatsRegardlessOfOrder(t *testing.T) {
	inputs := [][]uint{{7, 7, 9}, {9, 7, 7}, {7, 9, 7}}
	for _, in := range inputs {
		got := groupQuantities(in)
		assert.Equal(t, []model.LineItem{
			{ProductID: 7, Quantity: 2},
			{ProductID: 9, Quantity: 1},
		}, got, "input %v", in)
	}
}

func TestPlaceOrder_CreatesLineItemsAndConsumesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cust := f.customer(t, "Ada")
	p1 := f.product(t, "Kettle", 10, 5)
	p2 := f.product(t, "Mug", 5, 3)

	order, err := f.orders.PlaceOrder(ctx, &PlaceOrderRequest{
		CustomerID: cust.ID,
		Date:       "2024-03-15",
		Products:   []uint{p2.ID, p1.ID, p1.ID},
	})
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.Equal(t, cust.ID, order.CustomerID)
	assert.Equal(t, "2024-03-15", order.Date.Format(model.DateLayout))
	require.Len(t, order.LineItems, 2)
	assert.Equal(t, model.LineItem{OrderID: order.ID, ProductID: p1.ID, Quantity: 2}, order.LineItems[0])
	assert.Equal(t, model.LineItem{OrderID: order.ID, ProductID: p2.ID, Quantity: 1}, order.LineItems[1])
	assert.Equal(t, 3, order.TotalItems())

	assert.Equal(t, 3, f.stockOf(t, p1.ID))
	assert.Equal(t, 2, f.stockOf(t, p2.ID))

	movements, err := f.products.GetStockMovements(ctx, p1.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, -2, movements[0].Delta)
	assert.Equal(t, model.MovementOrder, movements[0].Reason)
	require.NotNil(t, movements[0].OrderID)
	assert.Equal(t, order.ID, *movements[0].OrderID)

	placed := f.publisher.ofType(event.OrderPlaced)
	require.Len(t, placed, 1)
	assert.Equal(t, order.ID, placed[0].Payload.(event.OrderPlacedPayload).OrderID)
	assert.Len(t, f.publisher.ofType(event.StockUpdated), 2)
}

func TestPlaceOrder_InsufficientStockRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cust := f.customer(t, "Ada")
	plenty := f.product(t, "Spoon", 1, 10)
	scarce := f.product(t, "Teapot", 30, 1)

	_, err := f.orders.PlaceOrder(ctx, &PlaceOrderRequest{
		CustomerID: cust.ID,
		Date:       "2024-03-15",
		Products:   []uint{plenty.ID, scarce.ID, scarce.ID, scarce.ID},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, scarce.ID, stockErr.ProductID)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 2, stockErr.Shortfall())

	assert.Equal(t, 10, f.stockOf(t, plenty.ID), "earlier decrement must be rolled back")
	assert.Equal(t, 1, f.stockOf(t, scarce.ID))
	assert.Zero(t, f.count(t, &model.Order{}))
	assert.Zero(t, f.count(t, &model.LineItem{}))
	assert.Zero(t, f.count(t, &model.StockMovement{}))
	assert.Empty(t, f.publisher.events)
}

func TestPlaceOrder_ExactStockSucceeds(t *testing.T) {
	f := newFixture(t)
	cust := f.customer(t, "Ada")
	p := f.product(t, "Lamp", 12, 2)

	_, err := f.orders.PlaceOrder(context.Background(), &PlaceOrderRequest{CustomerID: cust.ID, Date: "2024-01-01", Products: []uint{p.ID, p.ID}})

	require.NoError(t, err)
	assert.Equal(t, 0, f.stockOf(t, p.ID))
}

func TestPlaceOrder_RejectsBadInput(t *testing.T) {
	f := newFixture(t)
	cust := f.customer(t, "Ada")
	p := f.product(t, "Lamp", 12, 2)

	tests := []struct {
		name string
		req  PlaceOrderRequest
		want error
	}{
		{"malformed date", PlaceOrderRequest{CustomerID: cust.ID, Date: "15/03/2024", Products: []uint{p.ID}}, ErrInvalidInput},
		{"impossible date", PlaceOrderRequest{CustomerID: cust.ID, Date: "2023-02-30", Products: []uint{p.ID}}, ErrInvalidInput},
		{"empty products", PlaceOrderRequest{CustomerID: cust.ID, Date: "2024-03-15", Products: []uint{}}, ErrInvalidInput},
		{"missing products", PlaceOrderRequest{CustomerID: cust.ID, Date: "2024-03-15"}, ErrInvalidInput},
		{"unknown customer", PlaceOrderRequest{CustomerID: cust.ID + 100, Date: "2024-03-15", Products: []uint{p.ID}}, ErrNotFound},
		{"zero customer id", PlaceOrderRequest{CustomerID: 0, Date: "2024-03-15", Products: []uint{p.ID}}, ErrNotFound},
		{"unknown product", PlaceOrderRequest{CustomerID: cust.ID, Date: "2024-03-15", Products: []uint{p.ID, 999}}, ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.PlaceOrder(context.Background(), &tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, 2, f.stockOf(t, p.ID))
	assert.Zero(t, f.count(t, &model.Order{}))
}

func TestPlaceOrder_NamesFirstMissingProduct(t *testing.T) {
	f := newFixture(t)
	cust := f.customer(t, "Ada")
	p := f.product(t, "Lamp", 12, 2)

	_, err := f.orders.PlaceOrder(context.Background(), &PlaceOrderRequest{
		CustomerID: cust.ID,
		Date:       "2024-03-15",
		Products:   []uint{p.ID, 800, 700},
	})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "product 800")
}

func TestPlaceOrder_ConcurrentOrdersForLastUnit(t *testing.T) {
	f := newFixture(t)
	cust := f.customer(t, "Ada")
	p := f.product(t, "Last One", 99, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.orders.PlaceOrder(context.Background(), &PlaceOrderRequest{
				CustomerID: cust.ID,
				Date:       "2024-03-15",
				Products:   []uint{p.ID},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrInsufficientStock)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, f.stockOf(t, p.ID))
	assert.Equal(t, int64(1), f.count(t, &model.Order{}))
}

func TestPlaceOrder_QuantitiesMatchInput(t *testing.T) {
	f := newFixture(t)
	cust := f.customer(t, "Ada")
	a := f.product(t, "A", 1, 50)
	b := f.product(t, "B", 1, 50)
	c := f.product(t, "C", 1, 50)

	input := []uint{c.ID, a.ID, b.ID, a.ID, c.ID, c.ID, a.ID}
	order, err := f.orders.PlaceOrder(context.Background(), &PlaceOrderRequest{CustomerID: cust.ID, Date: "2024-03-15", Products: input})
	require.NoError(t, err)

	stored, err := f.orders.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, len(input), stored.TotalItems)
	distinct := map[uint]bool{}
	for _, p := range stored.Products {
		distinct[p.ProductID] = true
	}
	assert.Equal(t, map[uint]bool{a.ID: true, b.ID: true, c.ID: true}, distinct)
}

func TestGetOrder_TotalsUseCurrentPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cust := f.customer(t, "Ada")
	p1 := f.product(t, "Kettle", 10, 5)
	p2 := f.product(t, "Mug", 5, 5)

	order, err := f.orders.PlaceOrder(ctx, &PlaceOrderRequest{CustomerID: cust.ID, Date: "2024-03-15", Products: []uint{p1.ID, p2.ID, p1.ID}})
	require.NoError(t, err)

	view, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(view.TotalPrice), "total %s", view.TotalPrice)
	assert.Equal(t, 3, view.TotalItems)
	require.Len(t, view.Products, 2)
	assert.Equal(t, "Kettle", view.Products[0].Name)
	assert.Equal(t, 2, view.Products[0].Quantity)
	assert.Equal(t, "2024-03-15", view.Order.Date)

	newPrice := decimal.NewFromInt(20)
	_, err = f.products.UpdateProduct(ctx, p1.ID, &UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)

	view, err = f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(45).Equal(view.TotalPrice), "total %s", view.TotalPrice)
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders.GetOrder(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrder_SurvivesCustomerDeletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cust := f.customer(t, "Ada")
	p := f.product(t, "Kettle", 10, 5)
	order, err := f.orders.PlaceOrder(ctx, &PlaceOrderRequest{CustomerID: cust.ID, Date: "2024-03-15", Products: []uint{p.ID}})
	require.NoError(t, err)

	require.NoError(t, f.customers.DeleteCustomer(ctx, cust.ID))

	view, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, cust.ID, view.Order.CustomerID)
	assert.Equal(t, 1, view.TotalItems)
	assert.Equal(t, int64(1), f.count(t, &model.LineItem{}))
}

func TestUpdateOrder_HeaderOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.customer(t, "Ada")
	bob := f.customer(t, "Bob")
	p := f.product(t, "Kettle", 10, 5)
	order, err := f.orders.PlaceOrder(ctx, &PlaceOrderRequest{CustomerID: ada.ID, Date: "2024-03-15", Products: []uint{p.ID}})
	require.NoError(t, err)

	date := "2024-04-01"
	updated, err := f.orders.UpdateOrder(ctx, order.ID, &UpdateOrderRequest{CustomerID: &bob.ID, Date: &date})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, updated.CustomerID)
	assert.Equal(t, date, updated.Date.Format(model.DateLayout))
	assert.Len(t, updated.LineItems, 1)

	_, err = f.orders.UpdateOrder(ctx, order.ID, &UpdateOrderRequest{Products: []uint{p.ID}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	missing := uint(999)
	_, err = f.orders.UpdateOrder(ctx, order.ID, &UpdateOrderRequest{CustomerID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.orders.UpdateOrder(ctx, order.ID+1, &UpdateOrderRequest{Date: &date})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOrder_RemovesLineItemsWithoutRestocking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cust := f.customer(t, "Ada")
	p := f.product(t, "Kettle", 10, 5)
	order, err := f.orders.PlaceOrder(ctx, &PlaceOrderRequest{CustomerID: cust.ID, Date: "2024-03-15", Products: []uint{p.ID, p.ID}})
	require.NoError(t, err)

	require.NoError(t, f.orders.DeleteOrder(ctx, order.ID))

	assert.Zero(t, f.count(t, &model.Order{}))
	assert.Zero(t, f.count(t, &model.LineItem{}))
	assert.Equal(t, 3, f.stockOf(t, p.ID))
	assert.ErrorIs(t, f.orders.DeleteOrder(ctx, order.ID), ErrNotFound)
	assert.Len(t, f.publisher.ofType(event.OrderDeleted), 1)
}

func TestUpdateOrder_UnknownCustomerChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cust := f.customer(t, "Ada")
	p := f.product(t, "Kettle", 10, 5)
	order, err := f.orders.PlaceOrder(ctx, &PlaceOrderRequest{CustomerID: cust.ID, Date: "2024-03-15", Products: []uint{p.ID}})
	require.NoError(t, err)

	date := "2024-06-30"
	missing := cust.ID + 40
	_, err = f.orders.UpdateOrder(ctx, order.ID, &UpdateOrderRequest{CustomerID: &missing, Date: &date})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "customer")

	view, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", view.Order.Date)
	assert.Equal(t, cust.ID, view.Order.CustomerID)
}
