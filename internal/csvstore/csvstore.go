// Package csvstore persists the ledger as the two flat CSV files the
// system has always used: cash_flow.csv for transactions and accounts.csv
// for the account list. Files are rewritten whole on save and created on
// first write; a missing file loads as an empty set.
package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"cashflow/internal/core"

	"github.com/shopspring/decimal"
)

const (
	transactionsFile = "cash_flow.csv"
	accountsFile     = "accounts.csv"
)

var transactionsHeader = []string{"S.No", "Date", "Description", "Account", "Amount", "Balance"}

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Close() error { return nil }

// LoadTransactions reads cash_flow.csv; a missing file yields an empty set.
func (s *Store) LoadTransactions(_ context.Context) ([]core.Transaction, error) {
	records, err := readAll(filepath.Join(s.dir, transactionsFile))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	var out []core.Transaction
	for i, rec := range records[1:] { // skip header
		if len(rec) < 5 {
			return nil, fmt.Errorf("row %d: want at least 5 columns, got %d", i+2, len(rec))
		}
		serial, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: serial %q: %w", i+2, rec[0], err)
		}
		date, err := core.ParseDate(rec[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: date %q: %w", i+2, rec[1], err)
		}
		amount, err := decimal.NewFromString(rec[4])
		if err != nil {
			return nil, fmt.Errorf("row %d: amount %q: %w", i+2, rec[4], err)
		}
		tx := core.Transaction{
			ID:          serial,
			Date:        date,
			Description: rec[2],
			Account:     rec[3],
			Amount:      amount,
		}
		// Balance column is an optional cache; the ledger recomputes it.
		if len(rec) > 5 && rec[5] != "" {
			if bal, err := decimal.NewFromString(rec[5]); err == nil {
				tx.Balance = bal
			}
		}
		out = append(out, tx)
	}
	return out, nil
}

// SaveTransactions rewrites cash_flow.csv with the given rows.
func (s *Store) SaveTransactions(_ context.Context, txs []core.Transaction) error {
	records := make([][]string, 0, len(txs)+1)
	records = append(records, transactionsHeader)
	for _, t := range txs {
		records = append(records, []string{
			strconv.Itoa(t.ID),
			t.Date.String(),
			t.Description,
			t.Account,
			t.Amount.String(),
			t.Balance.String(),
		})
	}
	return writeAll(filepath.Join(s.dir, transactionsFile), records)
}

// LoadAccounts reads accounts.csv; a missing file yields an empty set.
func (s *Store) LoadAccounts(_ context.Context) ([]string, error) {
	records, err := readAll(filepath.Join(s.dir, accountsFile))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	var out []string
	for _, rec := range records[1:] { // skip header
		if len(rec) > 0 && rec[0] != "" {
			out = append(out, rec[0])
		}
	}
	return out, nil
}

// SaveAccounts rewrites accounts.csv with the given names.
func (s *Store) SaveAccounts(_ context.Context, names []string) error {
	records := make([][]string, 0, len(names)+1)
	records = append(records, []string{"Account"})
	for _, n := range names {
		records = append(records, []string{n})
	}
	return writeAll(filepath.Join(s.dir, accountsFile), records)
}

func readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// writeAll writes to a temp file in the same directory and renames it over
// the target, so a failed save never truncates the previous file.
func writeAll(path string, records [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
