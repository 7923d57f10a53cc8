// Package session wires every component of one booking session. There is
// exactly one Session per process and nothing is shared through globals.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Domenick1991/agentair/config"
	"github.com/Domenick1991/agentair/internal/activity"
	"github.com/Domenick1991/agentair/internal/analytics"
	"github.com/Domenick1991/agentair/internal/cache"
	"github.com/Domenick1991/agentair/internal/catalog"
	"github.com/Domenick1991/agentair/internal/clock"
	"github.com/Domenick1991/agentair/internal/consent"
	"github.com/Domenick1991/agentair/internal/kafka"
	"github.com/Domenick1991/agentair/internal/logger"
	"github.com/Domenick1991/agentair/internal/metrics"
	"github.com/Domenick1991/agentair/internal/rabbitmq"
	"github.com/Domenick1991/agentair/internal/repository"
	"github.com/Domenick1991/agentair/internal/service/booking"
	"github.com/Domenick1991/agentair/internal/service/cart"
	"github.com/Domenick1991/agentair/internal/service/flights"
	"github.com/Domenick1991/agentair/internal/tools"
)

type Session struct {
	Config  *config.Config
	Log     logger.Logger
	Metrics *metrics.Metrics
	Clock   clock.Clock
	Consent *consent.Manager
	Emitter *analytics.Emitter
	Flights *flights.FlightService
	Booking *booking.Store
	Cart    *cart.Store
	Tools   *tools.Registry

	closers []func() error
}

type options struct {
	clock      clock.Clock
	storage    consent.Storage
	sink       analytics.Sink
	registerer prometheus.Registerer
}

type Option func(*options)

func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithStorage bypasses the configured consent backend.
func WithStorage(s consent.Storage) Option {
	return func(o *options) { o.storage = s }
}

// WithSink bypasses the configured analytics sinks.
func WithSink(s analytics.Sink) Option {
	return func(o *options) { o.sink = s }
}

func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) { o.registerer = r }
}

// New builds a session. On error every resource opened so far is released.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...Option) (*Session, error) {
	o := options{clock: clock.Real(), registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		Config:  cfg,
		Log:     log,
		Clock:   o.clock,
		Metrics: metrics.NewMetrics("agentair", o.registerer),
	}

	storage := o.storage
	if storage == nil {
		var err error
		if storage, err = s.openStorage(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
	}

	sink := o.sink
	if sink == nil {
		var err error
		if sink, err = s.openSinks(); err != nil {
			_ = s.Close()
			return nil, err
		}
	}

	mgr, err := consent.NewManager(ctx, storage, s.Clock, log.With("component", "consent"), s.Metrics)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.Consent = mgr
	s.Emitter = analytics.NewEmitter(mgr, sink, log.With("component", "analytics"), s.Metrics)

	s.Flights = flights.NewCatalogService()
	s.Booking = booking.NewStore(s.Flights, s.Clock,
		activity.WithLimit(cfg.Activity.Limit),
		activity.WithTTL(time.Duration(cfg.Activity.TTLSeconds)*time.Second),
	)
	s.Cart = cart.NewStore(catalog.MenuItem)

	s.Tools = tools.NewRegistry(tools.Deps{
		Flights:  s.Flights,
		Booking:  s.Booking,
		Cart:     s.Cart,
		Consent:  s.Consent,
		Events:   s.Emitter,
		Currency: cfg.Analytics.Currency,
		Log:      log.With("component", "tools"),
		Metrics:  s.Metrics,
	})

	log.Info("session ready",
		"consent_storage", storageName(cfg, o.storage),
		"consent_state", mgr.State(),
		"tools", len(s.Tools.List()),
	)
	return s, nil
}

func (s *Session) openStorage(ctx context.Context) (consent.Storage, error) {
	c := s.Config.Consent
	switch c.Storage {
	case config.StorageFile:
		return consent.NewFileStorage(c.FilePath), nil
	case config.StorageRedis:
		store := cache.NewRedisStore(s.Config.Redis)
		s.closers = append(s.closers, store.Close)
		if err := store.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to reach redis at %s: %w", s.Config.Redis.Addr, err)
		}
		return store, nil
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, s.Config.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect postgres: %w", err)
		}
		s.closers = append(s.closers, func() error { pool.Close(); return nil })
		repo := repository.NewSettingsRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return consent.NewMemoryStorage(), nil
	}
}

func (s *Session) openSinks() (analytics.Sink, error) {
	var sinks analytics.MultiSink
	for _, name := range s.Config.Analytics.Sinks {
		switch name {
		case config.SinkLog:
			sinks = append(sinks, analytics.NewLogSink(s.Log.With("component", "telemetry")))
		case config.SinkKafka:
			producer := kafka.NewProducer(s.Config.Kafka.Brokers, s.Config.Kafka.Async)
			s.closers = append(s.closers, producer.Close)
			sinks = append(sinks, analytics.NewKafkaSink(producer, s.Config.Kafka.AnalyticsTopic, s.Clock))
		case config.SinkRabbitMQ:
			publisher, err := rabbitmq.NewPublisher(s.Config.RabbitMQ.URL, s.Config.RabbitMQ.Queue)
			if err != nil {
				return nil, err
			}
			s.closers = append(s.closers, publisher.Close)
			sinks = append(sinks, analytics.NewRabbitSink(publisher, s.Clock))
		}
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return sinks, nil
}

// Close releases storage and sink connections in reverse order of opening.
func (s *Session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func storageName(cfg *config.Config, override consent.Storage) string {
	if override != nil {
		return "custom"
	}
	return cfg.Consent.Storage
}
