// Package event defines the notifications emitted after a committed change.
package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	OrderPlaced  Type = "order_placed"
	OrderDeleted Type = "order_deleted"
	StockUpdated Type = "stock_updated"
)

// Envelope is the wire format shared by every sink.
type Envelope struct {
	ID         string    `json:"event_id"`
	Type       Type      `json:"type"`
	Subject    string    `json:"subject"` // e.g. "order:12", also used as the partition key
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func New(t Type, subject string, payload any) Envelope {
	return Envelope{
		ID:         uuid.NewString(),
		Type:       t,
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher must not block the caller on slow consumers.
type Publisher interface {
	Publish(e Envelope)
}

// Multi fans an envelope out to several publishers.
type Multi []Publisher

func (m Multi) Publish(e Envelope) {
	for _, p := range m {
		p.Publish(e)
	}
}

// Discard drops every envelope.
type Discard struct{}

func (Discard) Publish(Envelope) {}

type LineItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type OrderPlacedPayload struct {
	OrderID    uint       `json:"order_id"`
	CustomerID uint       `json:"customer_id"`
	Date       string     `json:"date"`
	Items      []LineItem `json:"items"`
}

type OrderDeletedPayload struct {
	OrderID uint `json:"order_id"`
}

type StockUpdatedPayload struct {
	ProductID uint   `json:"product_id"`
	OldStock  int    `json:"old_stock"`
	NewStock  int    `json:"new_stock"`
	Reason    string `json:"reason"`
	OrderID   *uint  `json:"order_id,omitempty"`
}
