package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order has no foreign key to customers: deleting a customer leaves its
// orders in place with a dangling customer_id.
type Order struct {
	BaseModel
	CustomerID uint       `gorm:"not null;index" json:"customer_id"`
	Date       time.Time  `gorm:"type:date;not null" json:"date"`
	LineItems  []LineItem `gorm:"foreignKey:OrderID" json:"line_items"`
}

// LineItem is one (product, quantity) pairing owned by exactly one order.
type LineItem struct {
	OrderID   uint     `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ProductID uint     `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Quantity  int      `gorm:"not null;check:quantity >= 1" json:"quantity"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"-"`
}

// OrderResponse for API responses
type OrderResponse struct {
	ID         uint               `json:"id"`
	CustomerID uint               `json:"customer_id"`
	Date       string             `json:"date"`
	LineItems  []LineItemResponse `json:"line_items"`
}

type LineItemResponse struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// ToResponse converts Order to OrderResponse
func (o *Order) ToResponse() OrderResponse {
	items := make([]LineItemResponse, len(o.LineItems))
	for i, li := range o.LineItems {
		items[i] = LineItemResponse{ProductID: li.ProductID, Quantity: li.Quantity}
	}
	return OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Date:       o.Date.Format(DateLayout),
		LineItems:  items,
	}
}

// TotalItems is the sum of line item quantities.
func (o *Order) TotalItems() int {
	n := 0
	for _, li := range o.LineItems {
		n += li.Quantity
	}
	return n
}

// OrderView is the read-side aggregate returned by GET /orders/:id.
// Prices are the products' current prices, not a snapshot from placement.
type OrderView struct {
	Order      OrderResponse    `json:"order"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	TotalItems int              `json:"total_items"`
	Products   []OrderedProduct `json:"products"`
}

type OrderedProduct struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}
