package repository

import (
	"context"

	"go-storefront-api/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	FindAll(ctx context.Context) ([]model.Order, error)
	FindByCustomer(ctx context.Context, customerID uint) ([]model.Order, error)
	Update(tx *gorm.DB, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

// Create inserts the order header and its line items within tx.
func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	items := order.LineItems
	order.LineItems = nil
	if err := tx.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	order.LineItems = items
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&order.LineItems).Error
}

func (r *orderRepo) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("product_id ASC") }).
		Preload("LineItems.Product")
}

func (r *orderRepo) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := r.withItems(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindAll(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := r.withItems(ctx).Order("id ASC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByCustomer(ctx context.Context, customerID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.withItems(ctx).Where("customer_id = ?", customerID).Order("id ASC").Find(&orders).Error
	return orders, err
}

// Update writes the header fields within tx.
func (r *orderRepo) Update(tx *gorm.DB, id uint, fields map[string]interface{}) error {
	return updateFields[model.Order](tx, "id", id, fields)
}

// Delete removes the order and all of its line items. Stock is not restored.
func (r *orderRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&model.LineItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Order{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
