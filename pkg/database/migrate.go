package database

import (
	"go-storefront-api/internal/model"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the API owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Customer{},
		&model.CustomerAccount{},
		&model.Product{},
		&model.Order{},
		&model.LineItem{},
		&model.StockMovement{},
	)
}
