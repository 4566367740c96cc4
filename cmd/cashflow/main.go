package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"cashflow/internal/amqp"
	"cashflow/internal/cli"
	apphttp "cashflow/internal/http"
	"cashflow/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("cashflow")
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStore(logger, cfg)

	// The AMQP broker is optional: without it mutations are persisted but
	// no change notifications reach the export worker.
	var publisher services.ChangePublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", "error", err, "url", cfg.AMQPURL)
			os.Exit(1)
		}
		publisher = client
		logger.Info("Connected to AMQP broker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	ledger, err := services.NewLedgerService(context.Background(), store, publisher)
	if err != nil {
		logger.Error("Failed to load ledger", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, ledger)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := ledger.Close(); err != nil {
			logger.Error("Ledger close error", "error", err)
		}
	})

	logger.Info("Starting cashflow server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
