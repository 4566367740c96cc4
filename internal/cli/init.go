// Package cli provides common CLI initialization utilities shared by
// cmd/cashflow, cmd/cashflow-worker, and cmd/oauth-init.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"cashflow/internal/backend"
	"cashflow/internal/config"
	applog "cashflow/internal/log"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(component string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Component = component
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitStore builds the configured transaction store (SQLite or CSV).
// Returns the store or exits the process on failure.
func InitStore(logger *applog.Logger, cfg *config.Config) backend.Store {
	factory := backend.NewFactory(logger.Logger)
	store, err := factory.CreateStore(backend.Config{
		Type:         backend.BackendType(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		CSVDataDir:   cfg.CSVDataDir,
	})
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return store
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup()
		}

		cancel()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-time.After(2 * time.Second):
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
