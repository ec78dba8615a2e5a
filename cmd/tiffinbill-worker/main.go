package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tiffinbill/internal/amqp"
	"tiffinbill/internal/config"
	"tiffinbill/internal/storage"
	"tiffinbill/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting tiffinbill-worker")

	// Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if !cfg.EventsEnabled() {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	// SQLite repository holds the activity audit trail.
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP client for consuming activity events
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	activityWorker := worker.NewActivityWorker(repo)

	// Log a startup summary of the trail so downtime gaps are visible.
	if err := activityWorker.LogRecentActivity(ctx, 10); err != nil {
		logger.Error("Failed to read recent activity", "error", err)
		// Don't exit - continue with normal operation
	}

	go func() {
		if err := amqpClient.ConsumeActivity(ctx, activityWorker.HandleMessage); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	// Give the consumer time to finish the in-flight message.
	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
