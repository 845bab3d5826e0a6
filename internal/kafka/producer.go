package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"go-storefront-api/internal/event"

	"github.com/segmentio/kafka-go"
)

// Producer forwards event envelopes to a Kafka topic from a single writer loop.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start runs the writer loop until Close is called.
func (p *Producer) Start() {
	go func() {
		defer close(p.closeCh)
		for m := range p.inbox {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := p.w.WriteMessages(ctx, m); err != nil {
				log.Printf("kafka: write %s: %v", m.Key, err)
			}
			cancel()
		}
		if err := p.w.Close(); err != nil {
			log.Printf("kafka: close writer: %v", err)
		}
	}()
}

// Publish implements event.Publisher. Envelopes are dropped when the inbox is full.
func (p *Producer) Publish(e event.Envelope) {
	value, err := json.Marshal(e)
	if err != nil {
		log.Printf("kafka: marshal %s event: %v", e.Type, err)
		return
	}
	m := kafka.Message{
		Key:   []byte(e.Subject),
		Value: value,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(e.Type)},
			{Key: "x-event-id", Value: []byte(e.ID)},
		},
	}
	select {
	case p.inbox <- m:
	default:
		log.Printf("kafka: inbox full, dropping %s event %s", e.Type, e.ID)
	}
}

// Close stops accepting envelopes and flushes what is queued.
func (p *Producer) Close() { close(p.inbox) }

// WaitClosed blocks until the writer loop has flushed and exited.
func (p *Producer) WaitClosed() { <-p.closeCh }
