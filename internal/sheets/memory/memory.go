// Package memory is an in-process RowExporter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"cashflow/internal/core"
)

type Exporter struct {
	mu   sync.Mutex
	rows []core.ExportRow
}

func New() *Exporter {
	return &Exporter{}
}

// ReplaceRows stores a copy of the export rows.
func (e *Exporter) ReplaceRows(_ context.Context, rows []core.ExportRow) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = make([]core.ExportRow, len(rows))
	copy(e.rows, rows)
	return nil
}

// Rows returns the last exported row set.
func (e *Exporter) Rows() []core.ExportRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.ExportRow, len(e.rows))
	copy(out, e.rows)
	return out
}
