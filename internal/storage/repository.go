// Package storage is the SQLite persistence adapter. The ledger model is
// load-all/save-all: reading returns every stored row, saving replaces the
// whole table inside one transaction. Serial and balance columns are caches
// of derived values; the core recomputes both on load.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cashflow/internal/core"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadTransactions returns all stored transaction rows in serial order.
func (r *SQLiteRepository) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT serial, tx_date, description, account, amount, balance
		 FROM transactions ORDER BY serial`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			serial                     int
			dateStr, amountStr, balStr string
			description, account       string
		)
		if err := rows.Scan(&serial, &dateStr, &description, &account, &amountStr, &balStr); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		date, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored amount %q: %w", amountStr, err)
		}
		balance, err := decimal.NewFromString(balStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored balance %q: %w", balStr, err)
		}
		out = append(out, core.Transaction{
			ID:          serial,
			Date:        date,
			Description: description,
			Account:     account,
			Amount:      amount,
			Balance:     balance,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	slog.DebugContext(ctx, "Transactions loaded from SQLite", "count", len(out))
	return out, nil
}

// SaveTransactions replaces the full transaction table with the given rows.
func (r *SQLiteRepository) SaveTransactions(ctx context.Context, txs []core.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transactions: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (serial, tx_date, description, account, amount, balance)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		if _, err := stmt.ExecContext(ctx,
			t.ID, t.Date.String(), t.Description, t.Account,
			t.Amount.String(), t.Balance.String()); err != nil {
			return fmt.Errorf("insert transaction %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transactions: %w", err)
	}

	slog.DebugContext(ctx, "Transactions saved to SQLite", "count", len(txs))
	return nil
}

// LoadAccounts returns all stored account names in insertion order.
func (r *SQLiteRepository) LoadAccounts(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM accounts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return out, nil
}

// SaveAccounts replaces the account list with the given names.
func (r *SQLiteRepository) SaveAccounts(ctx context.Context, names []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save accounts: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("clear accounts: %w", err)
	}
	for _, name := range names {
		if _, err := tx.ExecContext(ctx, `INSERT INTO accounts (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("insert account %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save accounts: %w", err)
	}

	slog.DebugContext(ctx, "Accounts saved to SQLite", "count", len(names))
	return nil
}
