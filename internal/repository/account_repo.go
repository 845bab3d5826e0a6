package repository

import (
	"context"

	"go-storefront-api/internal/model"

	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(ctx context.Context, account *model.CustomerAccount) error
	FindByID(ctx context.Context, customerID uint) (*model.CustomerAccount, error)
	FindByUsername(ctx context.Context, username string) (*model.CustomerAccount, error)
	FindAll(ctx context.Context, usernameLike string) ([]model.CustomerAccount, error)
	Update(ctx context.Context, customerID uint, fields map[string]interface{}) error
	Delete(ctx context.Context, customerID uint) error
}

type accountRepo struct {
	recordStore[model.CustomerAccount]
}

func NewAccountRepo(db *gorm.DB) AccountRepository {
	return &accountRepo{newRecordStore[model.CustomerAccount](db, "customer_id", "username")}
}

func (r *accountRepo) FindByUsername(ctx context.Context, username string) (*model.CustomerAccount, error) {
	var account model.CustomerAccount
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}
