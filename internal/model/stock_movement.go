package model

import "time"

type MovementReason string

const (
	MovementOrder   MovementReason = "ORDER"
	MovementRestock MovementReason = "RESTOCK"
	MovementAdjust  MovementReason = "ADJUST"
)

// StockMovement is an append-only record of one stock ledger adjustment.
type StockMovement struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID  uint           `gorm:"not null;index" json:"product_id"`
	Delta      int            `gorm:"not null" json:"delta"`
	Reason     MovementReason `gorm:"type:varchar(10);not null" json:"reason"`
	OrderID    *uint          `gorm:"index" json:"order_id,omitempty"`
	StockAfter int            `gorm:"not null" json:"stock_after"`
	CreatedAt  time.Time      `json:"created_at"`
}
