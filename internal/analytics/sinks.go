package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Domenick1991/agentair/internal/clock"
	"github.com/Domenick1991/agentair/internal/domain"
	"github.com/Domenick1991/agentair/internal/kafka"
	"github.com/Domenick1991/agentair/internal/logger"
)

// Sink is a telemetry destination.
type Sink interface {
	Name() string
	Send(ctx context.Context, d domain.Delivery) error
}

// LogSink writes every delivery as a structured log line.
type LogSink struct {
	log logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Send(_ context.Context, d domain.Delivery) error {
	s.log.Info("analytics event",
		"event", d.Name,
		"kind", d.Kind,
		"payload", d.Payload,
		"ecommerce", d.Commerce,
		"extra", d.Extra,
	)
	return nil
}

// TopicPublisher is satisfied by *kafka.Producer.
type TopicPublisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type KafkaSink struct {
	producer TopicPublisher
	topic    string
	clock    clock.Clock
}

func NewKafkaSink(p TopicPublisher, topic string, c clock.Clock) *KafkaSink {
	return &KafkaSink{producer: p, topic: topic, clock: c}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Send(ctx context.Context, d domain.Delivery) error {
	return s.producer.Publish(ctx, s.topic, d.Name, kafka.NewTelemetryEvent(d, s.clock.Now()))
}

// QueuePublisher is satisfied by *rabbitmq.Publisher.
type QueuePublisher interface {
	Publish(ctx context.Context, payload any) error
}

type RabbitSink struct {
	publisher QueuePublisher
	clock     clock.Clock
}

func NewRabbitSink(p QueuePublisher, c clock.Clock) *RabbitSink {
	return &RabbitSink{publisher: p, clock: c}
}

func (s *RabbitSink) Name() string { return "rabbitmq" }

func (s *RabbitSink) Send(ctx context.Context, d domain.Delivery) error {
	return s.publisher.Publish(ctx, kafka.NewTelemetryEvent(d, s.clock.Now()))
}

// MultiSink fans a delivery out to every sink, attempting all of them.
type MultiSink []Sink

func (m MultiSink) Name() string { return "multi" }

func (m MultiSink) Send(ctx context.Context, d domain.Delivery) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, d); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// RecorderSink keeps deliveries in memory.
type RecorderSink struct {
	mu         sync.Mutex
	deliveries []domain.Delivery
	err        error
}

func NewRecorderSink() *RecorderSink {
	return &RecorderSink{}
}

func (s *RecorderSink) Name() string { return "recorder" }

func (s *RecorderSink) Send(_ context.Context, d domain.Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.deliveries = append(s.deliveries, d)
	return nil
}

// FailWith makes subsequent sends return err. Pass nil to recover.
func (s *RecorderSink) FailWith(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *RecorderSink) Deliveries() []domain.Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Delivery, len(s.deliveries))
	copy(out, s.deliveries)
	return out
}
