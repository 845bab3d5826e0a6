package repository

import (
	"context"

	"go-storefront-api/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	CreateMany(ctx context.Context, products []model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindAll(ctx context.Context, nameLike string) ([]model.Product, error)

	// The methods below take *gorm.DB (tx) so they run inside a transaction.
	LockByIDs(tx *gorm.DB, ids []uint) ([]model.Product, error)
	AddStock(tx *gorm.DB, id uint, delta int) (bool, error)
	UpdateFields(tx *gorm.DB, id uint, fields map[string]interface{}) error
	IsReferenced(tx *gorm.DB, id uint) (bool, error)
	Remove(tx *gorm.DB, id uint) error
}

type productRepo struct {
	recordStore[model.Product]
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{newRecordStore[model.Product](db, "id", "name")}
}

// IsReferenced reports whether any order line still points at the product.
func (r *productRepo) IsReferenced(tx *gorm.DB, id uint) (bool, error) {
	var n int64
	err := tx.Model(&model.LineItem{}).Where("product_id = ?", id).Count(&n).Error
	return n > 0, err
}

// Remove deletes the product within tx. The caller is expected to hold its
// row lock so no order line can start referencing it in between.
func (r *productRepo) Remove(tx *gorm.DB, id uint) error {
	res := tx.Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LockByIDs loads and row-locks the products in ascending id order, so two
// transactions touching overlapping sets always lock in the same sequence.
// Missing ids are simply absent from the result.
func (r *productRepo) LockByIDs(tx *gorm.DB, ids []uint) ([]model.Product, error) {
	var products []model.Product
	err := forUpdate(tx).Where("id IN ?", ids).Order("id ASC").Find(&products).Error
	return products, err
}

// AddStock applies delta against the stored value, never a cached one. It
// reports false without changing anything when the result would be negative
// or the product does not exist.
func (r *productRepo) AddStock(tx *gorm.DB, id uint, delta int) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) UpdateFields(tx *gorm.DB, id uint, fields map[string]interface{}) error {
	return updateFields[model.Product](tx, "id", id, fields)
}
