// Command mcp serves the AgentAir tools to an MCP client over stdio.
// Stdout carries protocol frames only; logs go to stderr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/pflag"

	"github.com/Domenick1991/agentair/config"
	"github.com/Domenick1991/agentair/internal/logger"
	"github.com/Domenick1991/agentair/internal/mcp"
	"github.com/Domenick1991/agentair/internal/session"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "agentair-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfgPath  string
		logLevel string
	)
	flags := pflag.NewFlagSet("agentair-mcp", pflag.ContinueOnError)
	flags.StringVar(&cfgPath, "config", envOr("CONFIG_PATH", "config.yaml"), "path to the YAML config file")
	flags.StringVarP(&logLevel, "log-level", "l", "", "override log.level (debug, info, warn, error)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
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
	defer func() { _ = sess.Close() }()

	srv := mcp.NewServer(sess.Tools, log.With("component", "mcp"), "agentair", version)
	if err := srv.Run(ctx, &sdk.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
