package repository

import (
	"context"

	"go-storefront-api/internal/model"

	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	CreateMany(ctx context.Context, customers []model.Customer) error
	FindByID(ctx context.Context, id uint) (*model.Customer, error)
	FindAll(ctx context.Context, nameLike string) ([]model.Customer, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	Exists(tx *gorm.DB, id uint) (bool, error)
}

type customerRepo struct {
	recordStore[model.Customer]
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{newRecordStore[model.Customer](db, "id", "name")}
}

// Delete removes the customer together with its account. Orders are left in
// place and keep the dangling customer_id.
func (r *customerRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&model.CustomerAccount{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Customer{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Exists runs inside the caller's transaction
func (r *customerRepo) Exists(tx *gorm.DB, id uint) (bool, error) {
	var n int64
	if err := tx.Model(&model.Customer{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
