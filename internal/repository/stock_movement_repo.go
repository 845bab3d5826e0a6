package repository

import (
	"context"

	"go-storefront-api/internal/model"

	"gorm.io/gorm"
)

type StockMovementRepository interface {
	Create(tx *gorm.DB, movement *model.StockMovement) error
	FindAll(ctx context.Context, productID uint) ([]model.StockMovement, error)
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

func (r *stockMovementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

// FindAll lists movements oldest first; productID 0 means all products.
func (r *stockMovementRepo) FindAll(ctx context.Context, productID uint) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	q := r.db.WithContext(ctx).Order("id ASC")
	if productID != 0 {
		q = q.Where("product_id = ?", productID)
	}
	err := q.Find(&movements).Error
	return movements, err
}
