package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go-storefront-api/internal/event"
	"go-storefront-api/internal/model"
	"go-storefront-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*model.Order, error)
	GetOrder(ctx context.Context, id uint) (*model.OrderView, error)
	ListOrders(ctx context.Context) ([]model.OrderResponse, error)
	UpdateOrder(ctx context.Context, id uint, req *UpdateOrderRequest) (*model.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
}

type PlaceOrderRequest struct {
	CustomerID uint   `json:"customer_id"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Products   []uint `json:"products" validate:"required,min=1"`
}

// UpdateOrderRequest only touches the header. Line items are fixed at placement.
type UpdateOrderRequest struct {
	CustomerID *uint   `json:"customer_id" validate:"omitnil,gt=0"`
	Date       *string `json:"date" validate:"omitnil,datetime=2006-01-02"`
	Products   []uint  `json:"products"`
}

type orderService struct {
	db        *gorm.DB
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	ledger    *StockLedger
	publisher event.Publisher
}

func NewOrderService(db *gorm.DB, orders repository.OrderRepository, customers repository.CustomerRepository, products repository.ProductRepository, ledger *StockLedger, publisher event.Publisher) OrderService {
	return &orderService{
		db:        db,
		orders:    orders,
		customers: customers,
		products:  products,
		ledger:    ledger,
		publisher: publisher,
	}
}

// groupQuantities turns repeated product ids into one line item per distinct
// id, ordered by ascending product id.
func groupQuantities(productIDs []uint) []model.LineItem {
	counts := make(map[uint]int, len(productIDs))
	for _, id := range productIDs {
		counts[id]++
	}
	items := make([]model.LineItem, 0, len(counts))
	for id, qty := range counts {
		items = append(items, model.LineItem{ProductID: id, Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, invalid("date %q is not a YYYY-MM-DD calendar date", s)
	}
	return d, nil
}

// PlaceOrder validates the request, consumes stock for every line and writes
// the order with its line items, all in one transaction. Any failure leaves
// stock and orders untouched.
func (s *orderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*model.Order, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	items := groupQuantities(req.Products)
	ids := make([]uint, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}

	order := &model.Order{CustomerID: req.CustomerID, Date: date, LineItems: items}
	var adjustments []Adjustment

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.customers.Exists(tx, req.CustomerID)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("customer", req.CustomerID)
		}

		// Lock every touched product up front, in id order, to keep
		// concurrent multi-product orders from deadlocking.
		locked, err := s.products.LockByIDs(tx, ids)
		if err != nil {
			return err
		}
		if len(locked) != len(ids) {
			found := make(map[uint]bool, len(locked))
			for _, p := range locked {
				found[p.ID] = true
			}
			for _, id := range req.Products {
				if !found[id] {
					return notFound("product", id)
				}
			}
		}

		if err := s.orders.Create(tx, order); err != nil {
			return err
		}

		adjustments = adjustments[:0]
		for _, it := range order.LineItems {
			adj, err := s.ledger.Apply(tx, it.ProductID, -it.Quantity, model.MovementOrder, &order.ID)
			if err != nil {
				return err
			}
			adjustments = append(adjustments, adj)
		}
		return nil
	})
	if err != nil {
		return nil, storage(err)
	}

	s.ledger.Announce(adjustments...)
	s.publisher.Publish(event.New(event.OrderPlaced, fmt.Sprintf("order:%d", order.ID), orderPlacedPayload(order)))
	return order, nil
}

func orderPlacedPayload(o *model.Order) event.OrderPlacedPayload {
	items := make([]event.LineItem, len(o.LineItems))
	for i, li := range o.LineItems {
		items[i] = event.LineItem{ProductID: li.ProductID, Quantity: li.Quantity}
	}
	return event.OrderPlacedPayload{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Date:       o.Date.Format(model.DateLayout),
		Items:      items,
	}
}

// GetOrder builds the order view from stored line items using each product's
// current price.
func (s *orderService) GetOrder(ctx context.Context, id uint) (*model.OrderView, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "order", id)
	}

	view := &model.OrderView{
		Order:      order.ToResponse(),
		TotalPrice: decimal.Zero,
		Products:   make([]model.OrderedProduct, 0, len(order.LineItems)),
	}
	for _, li := range order.LineItems {
		if li.Product == nil {
			return nil, storage(fmt.Errorf("order %d references missing product %d", order.ID, li.ProductID))
		}
		view.TotalItems += li.Quantity
		view.TotalPrice = view.TotalPrice.Add(li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity))))
		view.Products = append(view.Products, model.OrderedProduct{
			ProductID: li.ProductID,
			Name:      li.Product.Name,
			Price:     li.Product.Price,
			Quantity:  li.Quantity,
		})
	}
	return view, nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]model.OrderResponse, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, storage(err)
	}
	responses := make([]model.OrderResponse, len(orders))
	for i := range orders {
		responses[i] = orders[i].ToResponse()
	}
	return responses, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, id uint, req *UpdateOrderRequest) (*model.Order, error) {
	if req.Products != nil {
		return nil, invalid("line items cannot be changed after an order is placed")
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		fields["date"] = date
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.CustomerID != nil {
			ok, err := s.customers.Exists(tx, *req.CustomerID)
			if err != nil {
				return err
			}
			if !ok {
				return notFound("customer", *req.CustomerID)
			}
			fields["customer_id"] = *req.CustomerID
		}
		return s.orders.Update(tx, id, fields)
	})
	if err != nil {
		return nil, lookup(err, "order", id)
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "order", id)
	}
	return order, nil
}

// DeleteOrder removes the order and its line items. Consumed stock is not
// given back.
func (s *orderService) DeleteOrder(ctx context.Context, id uint) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return lookup(err, "order", id)
	}
	s.publisher.Publish(event.New(event.OrderDeleted, fmt.Sprintf("order:%d", id), event.OrderDeletedPayload{OrderID: id}))
	return nil
}
