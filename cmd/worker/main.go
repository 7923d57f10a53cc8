// Command worker relays analytics telemetry from kafka into structured
// logs and prometheus counters.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/Domenick1991/agentair/config"
	"github.com/Domenick1991/agentair/internal/kafka"
	"github.com/Domenick1991/agentair/internal/logger"
	"github.com/Domenick1991/agentair/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "agentair-worker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers is required for the worker")
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.NewMetrics("agentair_worker", prometheus.DefaultRegisterer)
	metricsSrv := &http.Server{Addr: cfg.HTTP.Address, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.AnalyticsTopic)
	defer consumer.Close()

	log.Info("worker started", "topic", cfg.Kafka.AnalyticsTopic, "group", cfg.Kafka.GroupID)
	if err := consumer.Consume(ctx, relay(log, m)); err != nil && ctx.Err() == nil {
		return fmt.Errorf("consumer stopped: %w", err)
	}
	log.Info("worker stopped")
	return nil
}

// relay logs each telemetry event. Undecodable messages are skipped so a
// single bad record cannot stall the partition.
func relay(log logger.Logger, m *metrics.Metrics) func(context.Context, kafkaGo.Message) error {
	return func(_ context.Context, msg kafkaGo.Message) error {
		ev, err := kafka.DecodeTelemetry(msg)
		if err != nil {
			log.Warn("skipping telemetry message", "offset", msg.Offset, "error", err)
			return nil
		}
		log.Info("telemetry",
			"event", ev.Name,
			"kind", ev.Kind,
			"sent_at", ev.SentAt,
			"payload", ev.Payload,
			"ecommerce", ev.Commerce,
			"extra", ev.Extra,
		)
		m.Relay(ev.Name, ev.Kind)
		return nil
	}
}
