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

	"spendlog/internal/auth"
	"spendlog/internal/config"
	"spendlog/internal/events"
	apphttp "spendlog/internal/http"
	"spendlog/internal/services"
	"spendlog/internal/storage"
)

// repository is the store surface the server needs, satisfied by both the
// sqlite and memory backends.
type repository interface {
	services.UserStore
	services.ExpenseStore
	Ping(ctx context.Context) error
	Close() error
}

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var repo repository
	switch cfg.DataBackend {
	case "memory":
		repo = storage.NewMemoryRepository()
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	default:
		sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		repo = sqliteRepo
		logger.Info("Initialized SQLite backend", "backend", cfg.DataBackend, "path", cfg.SQLiteDBPath)
	}
	defer repo.Close()

	// Publish expense changes only when a broker is configured; the API
	// works standalone without one.
	var publisher services.ChangePublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := services.NewAuthService(repo, tokens, cfg.BcryptCost)
	expenseSvc := services.NewExpenseService(repo, publisher)

	srv := apphttp.NewServer(":"+cfg.Port, authSvc, expenseSvc, repo.Ping)

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

	logger.Info("Starting spendlog server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
