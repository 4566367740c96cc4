package backend

import (
	"context"

	"cashflow/internal/core"
)

// Store is the persistence port the ledger service talks to. Semantics are
// load-all/save-all: stores round-trip the full transaction set and account
// list; derived fields in stored rows are caches only.
type Store interface {
	LoadTransactions(ctx context.Context) ([]core.Transaction, error)
	SaveTransactions(ctx context.Context, txs []core.Transaction) error
	LoadAccounts(ctx context.Context) ([]string, error)
	SaveAccounts(ctx context.Context, names []string) error
	Close() error
}

// BackendType identifies a persistence backend.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	CSVBackend    BackendType = "csv"
)

// IsValid reports whether the backend type is known.
func (t BackendType) IsValid() bool {
	switch t {
	case SQLiteBackend, CSVBackend:
		return true
	}
	return false
}

// Config holds configuration for store creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// CSV specific
	CSVDataDir string
}
