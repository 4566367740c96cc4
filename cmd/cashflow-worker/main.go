package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"cashflow/internal/amqp"
	"cashflow/internal/cli"
	"cashflow/internal/sheets"
	gsheet "cashflow/internal/sheets/google"
	mem "cashflow/internal/sheets/memory"
	"cashflow/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("cashflow-worker")

	logger.Info("Starting cashflow-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStore(logger, cfg)
	defer store.Close()

	// Export target: Google Sheets when configured, otherwise an in-process
	// exporter so the worker loop can run without credentials.
	var exporter sheets.RowExporter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		exporter = mem.New()
		logger.Info("Google Sheets disabled - exporting to in-memory sink")
	}

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(store, exporter)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Export once on startup so a restart catches up on missed messages.
	logger.Info("Performing startup export...")
	if err := syncWorker.ExportAll(ctx); err != nil {
		logger.Error("Startup export failed", "error", err)
		// Don't exit - the consumer and ticker will retry
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := amqpClient.ConsumeLedgerChanged(gctx, syncWorker.HandleChangedMessage); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	// Periodic export covers messages lost while the worker was down.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.ExportInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := syncWorker.ExportAll(gctx); err != nil {
					logger.Error("Periodic export failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
