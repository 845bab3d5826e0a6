package service

import (
	"context"
	"testing"

	"go-storefront-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomer_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CustomerRequest
	}{
		{"bad email", CustomerRequest{Name: "Ada", Email: "nope", Phone: "1"}},
		{"blank name", CustomerRequest{Name: " ", Email: "a@example.com", Phone: "1"}},
		{"long phone", CustomerRequest{Name: "Ada", Email: "a@example.com", Phone: "1234567890123456"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.customers.CreateCustomer(ctx, &tc.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Zero(t, f.count(t, &model.Customer{}))
}

func TestCustomers_ListAndFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.customers.CreateCustomers(ctx, []CustomerRequest{
		{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "1"},
		{Name: "Grace Hopper", Email: "grace@example.com", Phone: "2"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	all, err := f.customers.GetAllCustomers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	matched, err := f.customers.GetAllCustomers(ctx, "Hop")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Grace Hopper", matched[0].Name)
}

func TestGetCustomerDetail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cust := f.customer(t, "Ada")
	p := f.product(t, "Kettle", 10, 5)

	detail, err := f.customers.GetCustomerDetail(ctx, cust.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Account)
	assert.Empty(t, detail.Orders)

	_, err = f.accounts.CreateAccount(ctx, &CreateAccountRequest{CustomerID: cust.ID, Username: "ada", Password: "secret1"})
	require.NoError(t, err)
	_, err = f.orders.PlaceOrder(ctx, &PlaceOrderRequest{CustomerID: cust.ID, Date: "2024-03-15", Products: []uint{p.ID}})
	require.NoError(t, err)

	detail, err = f.customers.GetCustomerDetail(ctx, cust.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Account)
	assert.Equal(t, "ada", detail.Account.Username)
	require.Len(t, detail.Orders, 1)
	assert.Equal(t, "2024-03-15", detail.Orders[0].Date)

	_, err = f.customers.GetCustomerDetail(ctx, cust.ID+1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCustomer_PartialFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cust := f.customer(t, "Ada")
	phone := "555-0199"

	updated, err := f.customers.UpdateCustomer(ctx, cust.ID, &UpdateCustomerRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, "Ada", updated.Name)

	_, err = f.customers.UpdateCustomer(ctx, cust.ID+1, &UpdateCustomerRequest{Phone: &phone})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCustomer_RemovesAccountKeepsOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cust := f.customer(t, "Ada")
	p := f.product(t, "Kettle", 10, 5)
	_, err := f.accounts.CreateAccount(ctx, &CreateAccountRequest{CustomerID: cust.ID, Username: "ada", Password: "secret1"})
	require.NoError(t, err)
	_, err = f.orders.PlaceOrder(ctx, &PlaceOrderRequest{CustomerID: cust.ID, Date: "2024-03-15", Products: []uint{p.ID}})
	require.NoError(t, err)

	require.NoError(t, f.customers.DeleteCustomer(ctx, cust.ID))

	assert.Zero(t, f.count(t, &model.Customer{}))
	assert.Zero(t, f.count(t, &model.CustomerAccount{}))
	assert.Equal(t, int64(1), f.count(t, &model.Order{}))
	assert.ErrorIs(t, f.customers.DeleteCustomer(ctx, cust.ID), ErrNotFound)
}
