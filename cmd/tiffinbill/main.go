package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tiffinbill/internal/amqp"
	"tiffinbill/internal/cache"
	"tiffinbill/internal/clients"
	"tiffinbill/internal/config"
	"tiffinbill/internal/export"
	tiffinhttp "tiffinbill/internal/http"
	"tiffinbill/internal/importer"
	"tiffinbill/internal/invoice"
	applog "tiffinbill/internal/log"
	"tiffinbill/internal/services"
	"tiffinbill/internal/storage"
	"tiffinbill/internal/theme"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// SQLite repository: client registry persistence plus the activity
	// audit trail.
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Client registry loads the persisted name set at startup. A broken
	// stored list is logged and the registry starts empty.
	registry := clients.NewRegistry(repo, tiffinhttp.RequestConfirmer{})
	if err := registry.Load(context.Background()); err != nil {
		logger.Warn("Could not load the saved client list", "error", err)
	}

	// Gemini vision extraction (optional)
	var vision importer.Extractor
	if cfg.VisionEnabled() {
		vision = importer.NewGeminiExtractor(cfg.GeminiAPIKey, cfg.GeminiModel)
		logger.Info("Gemini extraction enabled", "model", cfg.GeminiModel)
	} else {
		logger.Info("Gemini extraction disabled - no GEMINI_API_KEY provided")
	}

	// AMQP activity events (optional)
	var events *amqp.Client
	if cfg.EventsEnabled() {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		logger.Info("Activity events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Activity events disabled - no AMQP_URL provided")
	}

	// Cache rendered PDFs of unchanged invoice state.
	pdfCache := cache.NewLRUCache[[]byte](16, 10*time.Minute)
	cacheManager := cache.NewManager()
	cacheManager.Register(pdfCache)
	cacheManager.StartCleanup(5 * time.Minute)
	defer cacheManager.Stop()

	business := export.Business{
		Name:    cfg.BusinessName,
		Tagline: cfg.BusinessTagline,
		Address: cfg.BusinessAddress,
		Phone:   cfg.BusinessPhone,
	}

	svc := services.NewBillService(
		invoice.New(),
		registry,
		theme.NewEngine(),
		vision,
		events,
		pdfCache,
		business,
		cfg.DefaultUnitPrice,
	)
	defer svc.Close()

	srv := tiffinhttp.NewServer(":"+cfg.Port, svc, applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentHTTP,
	}))

	// Configure server timeouts and limits
	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting tiffinbill server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
