package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Domenick1991/agentair/internal/domain"
)

// TelemetryEvent is the wire form of an analytics delivery.
type TelemetryEvent struct {
	Name     string         `json:"name"`
	Kind     string         `json:"kind"`
	Payload  map[string]any `json:"payload,omitempty"`
	Commerce map[string]any `json:"ecommerce,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
	SentAt   time.Time      `json:"sent_at"`
}

func NewTelemetryEvent(d domain.Delivery, at time.Time) TelemetryEvent {
	return TelemetryEvent{
		Name:     d.Name,
		Kind:     string(d.Kind),
		Payload:  d.Payload,
		Commerce: d.Commerce,
		Extra:    d.Extra,
		SentAt:   at.UTC(),
	}
}

// messageWriter is the part of *kafka.Writer the producer relies on.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
}

func NewProducer(brokers []string, async bool) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
			Async:        async,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
