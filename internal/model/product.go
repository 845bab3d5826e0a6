package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	Name  string          `gorm:"type:varchar(255);not null" json:"name"`
	Price decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
}
