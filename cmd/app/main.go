package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/agentair/config"
	"github.com/Domenick1991/agentair/internal/bootstrap"
	"github.com/Domenick1991/agentair/internal/logger"
	"github.com/Domenick1991/agentair/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "agentair: %v\n", err)
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

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess, err := session.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Warn("session close failed", "error", err)
		}
	}()

	if err := bootstrap.Run(ctx, sess); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
