package service

import (
	"context"
	"sync"
	"testing"

	"go-storefront-api/internal/event"
	"go-storefront-api/internal/model"
	"go-storefront-api/internal/repository"
	"go-storefront-api/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Envelope
}

func (p *recordingPublisher) Publish(e event.Envelope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) ofType(t event.Type) []event.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []event.Envelope
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	publisher *recordingPublisher
	ledger    *StockLedger
	orders    OrderService
	products  ProductService
	customers CustomerService
	accounts  AccountService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	pub := &recordingPublisher{}

	customerRepo := repository.NewCustomerRepo(db)
	accountRepo := repository.NewAccountRepo(db)
	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)

	ledger := NewStockLedger(db, productRepo, movementRepo, pub)
	return &fixture{
		db:        db,
		publisher: pub,
		ledger:    ledger,
		orders:    NewOrderService(db, orderRepo, customerRepo, productRepo, ledger, pub),
		products:  NewProductService(db, productRepo, ledger),
		customers: NewCustomerService(customerRepo, accountRepo, orderRepo),
		accounts:  NewAccountService(accountRepo, customerRepo),
	}
}

func (f *fixture) customer(t *testing.T, name string) *model.Customer {
	t.Helper()
	c, err := f.customers.CreateCustomer(context.Background(), &CustomerRequest{Name: name, Email: "shopper@example.com", Phone: "555-0100"})
	require.NoError(t, err)
	return c
}

func (f *fixture) product(t *testing.T, name string, price int64, stock int) *model.Product {
	t.Helper()
	p := decimal.NewFromInt(price)
	prod, err := f.products.CreateProduct(context.Background(), &ProductRequest{Name: name, Price: &p, Stock: &stock})
	require.NoError(t, err)
	return prod
}

func (f *fixture) stockOf(t *testing.T, id uint) int {
	t.Helper()
	p, err := f.products.GetProductByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}
