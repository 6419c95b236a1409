package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event types published to the platform topic.
const (
	TypeUserRegistered           = "user.registered"
	TypeApplicationSubmitted     = "application.submitted"
	TypeApplicationStatusChanged = "application.status_changed"
)

// Envelope is the wire format for every published event.
type Envelope struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// Producer publishes workflow events to Kafka. A nil Producer is valid
// and skips publishing, so the platform stays usable without a broker.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a producer for the given broker and topic.
// Returns nil when no broker is configured.
func NewProducer(broker, topic string) *Producer {
	if broker == "" {
		return nil
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Publish sends one event keyed by the subject entity's id. Broker
// failures are logged and swallowed; events must never fail a request.
func (p *Producer) Publish(ctx context.Context, eventType, key string, data interface{}) error {
	if p == nil || p.writer == nil {
		return nil
	}

	payload, err := json.Marshal(Envelope{
		Type:       eventType,
		OccurredAt: time.Now(),
		Data:       data,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now(),
	}); err != nil {
		log.Printf("kafka publish %s: %v", eventType, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
