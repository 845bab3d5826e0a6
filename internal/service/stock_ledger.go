package service

import (
	"context"
	"fmt"
	"math"

	"go-storefront-api/internal/event"
	"go-storefront-api/internal/model"
	"go-storefront-api/internal/repository"

	"gorm.io/gorm"
)

// StockLedger is the only writer of Product.Stock. Every adjustment is a
// locked read-modify-write inside a transaction and leaves a StockMovement.
type StockLedger struct {
	db        *gorm.DB
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	publisher event.Publisher
}

func NewStockLedger(db *gorm.DB, products repository.ProductRepository, movements repository.StockMovementRepository, publisher event.Publisher) *StockLedger {
	return &StockLedger{db: db, products: products, movements: movements, publisher: publisher}
}

// Adjustment is one applied ledger change, reported after commit.
type Adjustment struct {
	ProductID uint
	OldStock  int
	NewStock  int
	Reason    model.MovementReason
	OrderID   *uint
}

// AdjustStock consumes (delta < 0) or restocks (delta > 0) a product in its
// own transaction and returns the new stock.
func (l *StockLedger) AdjustStock(ctx context.Context, productID uint, delta int) (int, error) {
	if delta == 0 {
		return 0, invalid("stock adjustment must be non-zero")
	}
	reason := model.MovementRestock
	if delta < 0 {
		reason = model.MovementAdjust
	}

	var adj Adjustment
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		adj, err = l.Apply(tx, productID, delta, reason, nil)
		return err
	})
	if err != nil {
		return 0, storage(err)
	}
	l.Announce(adj)
	return adj.NewStock, nil
}

// Apply performs one adjustment within tx. The caller owns the transaction
// and must call Announce only after it commits.
func (l *StockLedger) Apply(tx *gorm.DB, productID uint, delta int, reason model.MovementReason, orderID *uint) (Adjustment, error) {
	locked, err := l.products.LockByIDs(tx, []uint{productID})
	if err != nil {
		return Adjustment{}, err
	}
	if len(locked) == 0 {
		return Adjustment{}, notFound("product", productID)
	}
	old := locked[0].Stock
	if delta > 0 && old > math.MaxInt-delta {
		return Adjustment{}, invalid("restocking product %d by %d exceeds the maximum stock level", productID, delta)
	}
	if old+delta < 0 {
		return Adjustment{}, &InsufficientStockError{ProductID: productID, Requested: -delta, Available: old}
	}

	ok, err := l.products.AddStock(tx, productID, delta)
	if err != nil {
		return Adjustment{}, err
	}
	if !ok {
		return Adjustment{}, &InsufficientStockError{ProductID: productID, Requested: -delta, Available: old}
	}

	movement := &model.StockMovement{
		ProductID:  productID,
		Delta:      delta,
		Reason:     reason,
		OrderID:    orderID,
		StockAfter: old + delta,
	}
	if err := l.movements.Create(tx, movement); err != nil {
		return Adjustment{}, fmt.Errorf("record stock movement: %w", err)
	}

	return Adjustment{ProductID: productID, OldStock: old, NewStock: old + delta, Reason: reason, OrderID: orderID}, nil
}

// Announce publishes committed adjustments.
func (l *StockLedger) Announce(adjs ...Adjustment) {
	for _, a := range adjs {
		l.publisher.Publish(event.New(event.StockUpdated, fmt.Sprintf("product:%d", a.ProductID), event.StockUpdatedPayload{
			ProductID: a.ProductID,
			OldStock:  a.OldStock,
			NewStock:  a.NewStock,
			Reason:    string(a.Reason),
			OrderID:   a.OrderID,
		}))
	}
}

func (l *StockLedger) Movements(ctx context.Context, productID uint) ([]model.StockMovement, error) {
	movements, err := l.movements.FindAll(ctx, productID)
	if err != nil {
		return nil, storage(err)
	}
	return movements, nil
}
