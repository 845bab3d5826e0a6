package service

import (
	"context"
	"fmt"

	"go-storefront-api/internal/model"
	"go-storefront-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *ProductRequest) (*model.Product, error)
	CreateProducts(ctx context.Context, reqs []ProductRequest) ([]model.Product, error)
	GetAllProducts(ctx context.Context, nameLike string) ([]model.Product, error)
	GetProductByID(ctx context.Context, id uint) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, req *UpdateProductRequest) (*model.Product, error)
	Restock(ctx context.Context, id uint, amount int) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	GetStockMovements(ctx context.Context, productID uint) ([]model.StockMovement, error)
}

type ProductRequest struct {
	Name  string           `json:"name" validate:"required,notblank,max=255"`
	Price *decimal.Decimal `json:"price"`
	Stock *int             `json:"stock" validate:"omitnil,gte=0"`
}

type UpdateProductRequest struct {
	Name  *string          `json:"name" validate:"omitnil,notblank,max=255"`
	Price *decimal.Decimal `json:"price"`
	Stock *int             `json:"stock" validate:"omitnil,gte=0"`
}

type productService struct {
	db       *gorm.DB
	products repository.ProductRepository
	ledger   *StockLedger
}

func NewProductService(db *gorm.DB, products repository.ProductRepository, ledger *StockLedger) ProductService {
	return &productService{db: db, products: products, ledger: ledger}
}

func checkPrice(price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return invalid("price must not be negative")
	}
	return nil
}

func (r *ProductRequest) toModel() (*model.Product, error) {
	if err := validate(r); err != nil {
		return nil, err
	}
	if r.Price == nil {
		return nil, invalid("price is required")
	}
	if err := checkPrice(r.Price); err != nil {
		return nil, err
	}
	p := &model.Product{Name: r.Name, Price: *r.Price, Stock: 1}
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
	return p, nil
}

func (s *productService) CreateProduct(ctx context.Context, req *ProductRequest) (*model.Product, error) {
	product, err := req.toModel()
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, storage(err)
	}
	return product, nil
}

func (s *productService) CreateProducts(ctx context.Context, reqs []ProductRequest) ([]model.Product, error) {
	if len(reqs) == 0 {
		return nil, invalid("at least one product is required")
	}
	products := make([]model.Product, len(reqs))
	for i := range reqs {
		p, err := reqs[i].toModel()
		if err != nil {
			return nil, fmt.Errorf("product #%d: %w", i, err)
		}
		products[i] = *p
	}
	if err := s.products.CreateMany(ctx, products); err != nil {
		return nil, storage(err)
	}
	return products, nil
}

func (s *productService) GetAllProducts(ctx context.Context, nameLike string) ([]model.Product, error) {
	products, err := s.products.FindAll(ctx, nameLike)
	if err != nil {
		return nil, storage(err)
	}
	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "product", id)
	}
	return product, nil
}

// UpdateProduct edits name and price directly. A stock value is turned into
// a ledger adjustment against the locked current stock.
func (s *productService) UpdateProduct(ctx context.Context, id uint, req *UpdateProductRequest) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := checkPrice(req.Price); err != nil {
		return nil, err
	}

	var adj *Adjustment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.products.LockByIDs(tx, []uint{id})
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return notFound("product", id)
		}

		if req.Stock != nil {
			if delta := *req.Stock - locked[0].Stock; delta != 0 {
				a, err := s.ledger.Apply(tx, id, delta, model.MovementAdjust, nil)
				if err != nil {
					return err
				}
				adj = &a
			}
		}

		fields := map[string]interface{}{}
		if req.Name != nil {
			fields["name"] = *req.Name
		}
		if req.Price != nil {
			fields["price"] = *req.Price
		}
		return s.products.UpdateFields(tx, id, fields)
	})
	if err != nil {
		return nil, storage(err)
	}
	if adj != nil {
		s.ledger.Announce(*adj)
	}
	return s.GetProductByID(ctx, id)
}

// Restock adds a positive amount through the stock ledger.
func (s *productService) Restock(ctx context.Context, id uint, amount int) (*model.Product, error) {
	if amount <= 0 {
		return nil, invalid("restock amount must be a positive integer")
	}
	if _, err := s.ledger.AdjustStock(ctx, id, amount); err != nil {
		return nil, err
	}
	return s.GetProductByID(ctx, id)
}

// DeleteProduct refuses to remove a product that order lines still reference.
// The product row stays locked from the reference check to the delete, the
// same lock PlaceOrder takes before inserting line items.
func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.products.LockByIDs(tx, []uint{id})
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return notFound("product", id)
		}
		referenced, err := s.products.IsReferenced(tx, id)
		if err != nil {
			return err
		}
		if referenced {
			return fmt.Errorf("product %d is referenced by orders: %w", id, ErrConflict)
		}
		return s.products.Remove(tx, id)
	})
	if err != nil {
		return lookup(err, "product", id)
	}
	return nil
}

func (s *productService) GetStockMovements(ctx context.Context, productID uint) ([]model.StockMovement, error) {
	return s.ledger.Movements(ctx, productID)
}
