// Package services wires the ledger engine to persistence and messaging.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"cashflow/internal/backend"
	"cashflow/internal/core"

	"github.com/shopspring/decimal"
)

// ErrPersistence marks a failed save. The in-memory mutation stays applied
// as last-known-good state; the caller may retry the save.
var ErrPersistence = errors.New("persistence failure")

// ChangePublisher notifies downstream consumers that the ledger mutated.
type ChangePublisher interface {
	PublishLedgerChanged(ctx context.Context, revision int64) error
}

// LedgerService owns the single Ledger and AccountRegistry for the
// process. A mutex serializes mutations (single-mutator model); snapshots
// are safe to read concurrently.
type LedgerService struct {
	mu        sync.Mutex
	ledger    *core.Ledger
	accounts  *core.AccountRegistry
	store     backend.Store
	publisher ChangePublisher
	revision  int64
}

// NewLedgerService loads the transaction set and account list from the
// store and builds the process-wide service.
func NewLedgerService(ctx context.Context, store backend.Store, publisher ChangePublisher) (*LedgerService, error) {
	txs, err := store.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	names, err := store.LoadAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	ledger := core.NewLedger()
	ledger.Replace(txs)

	s := &LedgerService{
		ledger:    ledger,
		accounts:  core.NewAccountRegistry(names),
		store:     store,
		publisher: publisher,
	}

	slog.InfoContext(ctx, "Ledger loaded",
		"transactions", ledger.Len(),
		"accounts", len(s.accounts.List()))
	return s, nil
}

// Insert records a new transaction and persists the ledger.
func (s *LedgerService) Insert(ctx context.Context, date core.Date, description, account string, amount decimal.Decimal) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.ledger.Insert(date, description, account, amount)
	if err != nil {
		return 0, err
	}
	if err := s.saveLedger(ctx); err != nil {
		return id, err
	}

	slog.InfoContext(ctx, "Transaction inserted",
		"id", id,
		"account", account,
		"amount", amount.String())
	return id, nil
}

// Update replaces the fields of the transaction holding the given serial
// id and persists the ledger. The row may hold a different id afterwards.
func (s *LedgerService) Update(ctx context.Context, id int, date core.Date, description, account string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Update(id, date, description, account, amount); err != nil {
		return err
	}
	if err := s.saveLedger(ctx); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction updated", "id", id, "account", account)
	return nil
}

// DeleteMany removes the transactions with the given serial ids and
// persists the ledger. Unknown ids are ignored; an empty set is a no-op
// and skips the save.
func (s *LedgerService) DeleteMany(ctx context.Context, ids []int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.ledger.DeleteMany(ids)
	if removed == 0 {
		return 0, nil
	}
	if err := s.saveLedger(ctx); err != nil {
		return removed, err
	}

	slog.InfoContext(ctx, "Transactions deleted", "requested", len(ids), "removed", removed)
	return removed, nil
}

// Get returns the transaction currently holding the given serial id.
func (s *LedgerService) Get(id int) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Get(id)
}

// Snapshot returns an immutable copy of the ledger in canonical order.
func (s *LedgerService) Snapshot() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot()
}

// DateBounds returns the earliest and latest transaction dates.
func (s *LedgerService) DateBounds() (min, max core.Date, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.DateBounds()
}

// AddAccount registers a new account name and persists the account list.
func (s *LedgerService) AddAccount(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.accounts.Add(name); err != nil {
		return err
	}
	if err := s.store.SaveAccounts(ctx, s.accounts.List()); err != nil {
		return fmt.Errorf("%w: save accounts: %v", ErrPersistence, err)
	}

	slog.InfoContext(ctx, "Account added", "name", name)
	return nil
}

// Accounts returns the known account names in display order.
func (s *LedgerService) Accounts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts.List()
}

// HasAccount reports whether name is a known account.
func (s *LedgerService) HasAccount(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts.Contains(name)
}

// Revision returns the current mutation revision.
func (s *LedgerService) Revision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Close releases the underlying store.
func (s *LedgerService) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// saveLedger persists the full transaction set and notifies consumers.
// Called with the mutex held. Publish failures are logged, never fatal:
// the periodic exporter catches up.
func (s *LedgerService) saveLedger(ctx context.Context) error {
	s.revision++
	if err := s.store.SaveTransactions(ctx, s.ledger.Snapshot()); err != nil {
		return fmt.Errorf("%w: save transactions: %v", ErrPersistence, err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishLedgerChanged(ctx, s.revision); err != nil {
			slog.ErrorContext(ctx, "Failed to publish ledger changed message",
				"revision", s.revision, "error", err)
		}
	}
	return nil
}
