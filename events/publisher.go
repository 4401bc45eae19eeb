// Package events publishes quote lifecycle events for downstream consumers
// (notification service, CRM sync). Publishing is best-effort: a broker
// outage never fails the originating request.
package events

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const quotationTopic = "quotation-events"

const (
	TypeQuoteCreated  = "quote_request.created"
	TypeQuoteQuoted   = "quote_request.quoted"
	TypeStatusChanged = "quote_request.status_changed"
	TypeExpiredBatch  = "quote_request.expired_batch"
)

type QuotationEvent struct {
	Type       string      `json:"type"`
	QuoteID    string      `json:"quoteId,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload,omitempty"`
}

// Publisher wraps a kafka writer. A nil *Publisher (brokers not configured)
// is a valid no-op publisher.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisherFromEnv returns nil when KAFKA_BROKERS is unset.
func NewPublisherFromEnv() *Publisher {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(brokers, ",")...),
		Topic:    quotationTopic,
		Balancer: &kafka.Hash{},
	}
	return &Publisher{writer: writer}
}

func (p *Publisher) Publish(ctx context.Context, eventType, quoteID string, payload interface{}) {
	if p == nil {
		return
	}
	event := QuotationEvent{
		Type:       eventType,
		QuoteID:    quoteID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	value, err := json.Marshal(event)
	if err != nil {
		log.Printf("event marshal failed: %v", err)
		return
	}
	msg := kafka.Message{Value: value}
	if quoteID != "" {
		msg.Key = []byte(quoteID)
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("event publish failed (%s): %v", eventType, err)
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
