// Package main is the entry point for the stock-agent HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/stock-agent/internal/app"
	"github.com/fleveque/stock-agent/internal/config"
	"github.com/fleveque/stock-agent/internal/server"
)

func main() {
	// run() is separate so deferred cleanup executes before os.Exit.
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("STOCKAGENT_CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := app.NewLogger(cfg.Log.Level, false)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync commonly fails on stdout/stderr; that is not a real problem.
	defer func() { _ = logger.Sync() }()

	agent, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	// The server is one session: history is cleared on shutdown.
	defer func() {
		if err := agent.Close(context.Background()); err != nil {
			logger.Error("closing agent", zap.Error(err))
		}
	}()

	srv := server.New(cfg, server.Deps{
		Agent:       agent.Agent,
		Session:     agent.Session,
		Charts:      agent.Charts,
		LLMCallRepo: agent.LLMCallRepo,
	}, logger)

	// Graceful shutdown on SIGINT (Ctrl+C) or SIGTERM (docker stop).
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// Give in-flight requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}
