package sheets

import (
	"context"

	"cashflow/internal/core"
)

// Ports for outbound exporters.
type (
	// RowExporter rewrites the external spreadsheet with the full export
	// row set. Serial ids are positional, so exports always replace the
	// whole sheet rather than appending.
	RowExporter interface {
		ReplaceRows(ctx context.Context, rows []core.ExportRow) error
	}
)
