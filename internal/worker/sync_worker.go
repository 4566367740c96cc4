// Package worker keeps the external spreadsheet in sync with the ledger.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"cashflow/internal/amqp"
	"cashflow/internal/backend"
	"cashflow/internal/core"
	"cashflow/internal/sheets"
)

// SyncWorker reacts to ledger-changed messages by reloading the ledger
// from storage and rewriting the export sheet. It never trusts message
// payloads beyond the revision number: storage is the source of truth.
type SyncWorker struct {
	store    backend.Store
	exporter sheets.RowExporter

	lastRevision atomic.Int64
}

func NewSyncWorker(store backend.Store, exporter sheets.RowExporter) *SyncWorker {
	return &SyncWorker{
		store:    store,
		exporter: exporter,
	}
}

// HandleChangedMessage processes a single ledger-changed message.
func (w *SyncWorker) HandleChangedMessage(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	if last := w.lastRevision.Load(); msg.Revision != 0 && msg.Revision <= last {
		slog.InfoContext(ctx, "Skipping stale ledger changed message",
			"revision", msg.Revision,
			"last_exported", last)
		return nil
	}

	if err := w.ExportAll(ctx); err != nil {
		return fmt.Errorf("export for revision %d: %w", msg.Revision, err)
	}
	w.lastRevision.Store(msg.Revision)
	return nil
}

// ExportAll reloads the full ledger from storage, recomputes derived
// fields and replaces the export sheet. Also used as the periodic
// catch-up and at worker startup.
func (w *SyncWorker) ExportAll(ctx context.Context) error {
	txs, err := w.store.LoadTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	ledger := core.NewLedger()
	ledger.Replace(txs)
	rows := core.ExportRows(ledger.Snapshot())

	if err := w.exporter.ReplaceRows(ctx, rows); err != nil {
		return fmt.Errorf("replace export rows: %w", err)
	}

	slog.InfoContext(ctx, "Ledger export completed", "rows", len(rows))
	return nil
}
