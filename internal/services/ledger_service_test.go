package services

import (
	"context"
	"errors"
	"testing"

	"cashflow/internal/core"

	"github.com/shopspring/decimal"
)

// fakeStore implements backend.Store in memory with injectable failures.
type fakeStore struct {
	txs       []core.Transaction
	accounts  []string
	saveTxErr error
	saveAcErr error

	txSaves int
	acSaves int
}

func (f *fakeStore) LoadTransactions(context.Context) ([]core.Transaction, error) {
	return f.txs, nil
}

func (f *fakeStore) SaveTransactions(_ context.Context, txs []core.Transaction) error {
	if f.saveTxErr != nil {
		return f.saveTxErr
	}
	f.txs = txs
	f.txSaves++
	return nil
}

func (f *fakeStore) LoadAccounts(context.Context) ([]string, error) {
	return f.accounts, nil
}

func (f *fakeStore) SaveAccounts(_ context.Context, names []string) error {
	if f.saveAcErr != nil {
		return f.saveAcErr
	}
	f.accounts = names
	f.acSaves++
	return nil
}

func (f *fakeStore) Close() error { return nil }

type fakePublisher struct {
	revisions []int64
	err       error
}

func (p *fakePublisher) PublishLedgerChanged(_ context.Context, revision int64) error {
	if p.err != nil {
		return p.err
	}
	p.revisions = append(p.revisions, revision)
	return nil
}

func newService(t *testing.T, store *fakeStore, pub ChangePublisher) *LedgerService {
	t.Helper()
	s, err := NewLedgerService(context.Background(), store, pub)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return s
}

func TestInsertPersistsAndPublishes(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	s := newService(t, store, pub)

	id, err := s.Insert(context.Background(), core.NewDate(2024, 1, 1), "Open", "Cash", decimal.RequireFromString("100.00"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id != 1 {
		t.Fatalf("id = %d, want 1", id)
	}
	if store.txSaves != 1 || len(store.txs) != 1 {
		t.Fatalf("store not updated: saves=%d rows=%d", store.txSaves, len(store.txs))
	}
	if len(pub.revisions) != 1 || pub.revisions[0] != 1 {
		t.Fatalf("publish revisions = %v, want [1]", pub.revisions)
	}
}

func TestSaveFailureKeepsInMemoryState(t *testing.T) {
	store := &fakeStore{saveTxErr: errors.New("disk full")}
	s := newService(t, store, nil)

	_, err := s.Insert(context.Background(), core.NewDate(2024, 1, 1), "Open", "Cash", decimal.NewFromInt(100))
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
	// Mutation is not rolled back: memory keeps last-known-good state.
	if len(s.Snapshot()) != 1 {
		t.Fatalf("in-memory mutation lost on save failure")
	}
}

func TestValidationFailureDoesNotSave(t *testing.T) {
	store := &fakeStore{}
	s := newService(t, store, nil)

	if _, err := s.Insert(context.Background(), core.NewDate(2024, 1, 1), "  ", "Cash", decimal.NewFromInt(1)); !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("err = %v, want ErrEmptyDescription", err)
	}
	if store.txSaves != 0 {
		t.Fatalf("rejected insert reached the store")
	}
}

func TestPublishFailureIsNotFatal(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{err: errors.New("broker down")}
	s := newService(t, store, pub)

	if _, err := s.Insert(context.Background(), core.NewDate(2024, 1, 1), "Open", "Cash", decimal.NewFromInt(1)); err != nil {
		t.Fatalf("insert failed on publish error: %v", err)
	}
	if store.txSaves != 1 {
		t.Fatalf("save skipped")
	}
}

func TestDeleteManyEmptySkipsSave(t *testing.T) {
	store := &fakeStore{}
	s := newService(t, store, nil)
	if _, err := s.Insert(context.Background(), core.NewDate(2024, 1, 1), "a", "Cash", decimal.NewFromInt(1)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	removed, err := s.DeleteMany(context.Background(), nil)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
	if store.txSaves != 1 {
		t.Fatalf("empty delete triggered a save")
	}
}

func TestUpdateNotFound(t *testing.T) {
	s := newService(t, &fakeStore{}, nil)
	err := s.Update(context.Background(), 7, core.NewDate(2024, 1, 1), "x", "Cash", decimal.NewFromInt(1))
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadRecomputesStoredRows(t *testing.T) {
	store := &fakeStore{
		txs: []core.Transaction{
			{ID: 3, Date: core.NewDate(2024, 1, 2), Description: "b", Account: "Cash",
				Amount: decimal.RequireFromString("-40"), Balance: decimal.NewFromInt(999)},
			{ID: 1, Date: core.NewDate(2024, 1, 1), Description: "a", Account: "Cash",
				Amount: decimal.RequireFromString("100"), Balance: decimal.NewFromInt(999)},
		},
		accounts: []string{"Cash", "Bank"},
	}
	s := newService(t, store, nil)

	snap := s.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("len = %d, want 2", len(snap))
	}
	if snap[0].Description != "a" || snap[0].ID != 1 || !snap[0].Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("stale derived fields survived load: %+v", snap[0])
	}
	if snap[1].ID != 2 || !snap[1].Balance.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("row 1 = %+v", snap[1])
	}
}

func TestAccounts(t *testing.T) {
	store := &fakeStore{}
	s := newService(t, store, nil)

	// Empty storage seeds the default account.
	if got := s.Accounts(); len(got) != 1 || got[0] != core.DefaultAccount {
		t.Fatalf("accounts = %v", got)
	}

	if err := s.AddAccount(context.Background(), "Bank"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if store.acSaves != 1 || len(store.accounts) != 2 {
		t.Fatalf("account list not persisted: %v", store.accounts)
	}
	if err := s.AddAccount(context.Background(), "Bank"); !errors.Is(err, core.ErrDuplicateAccount) {
		t.Fatalf("err = %v, want ErrDuplicateAccount", err)
	}
	if !s.HasAccount("Bank") || s.HasAccount("bank") {
		t.Fatalf("HasAccount mismatch")
	}
}

func TestAddAccountSaveFailure(t *testing.T) {
	store := &fakeStore{saveAcErr: errors.New("disk full")}
	s := newService(t, store, nil)

	err := s.AddAccount(context.Background(), "Bank")
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
	// Registry keeps the account; the save may be retried later.
	if !s.HasAccount("Bank") {
		t.Fatalf("account lost on save failure")
	}
}

func TestRevisionIncrementsPerMutation(t *testing.T) {
	s := newService(t, &fakeStore{}, nil)
	ctx := context.Background()

	if _, err := s.Insert(ctx, core.NewDate(2024, 1, 1), "a", "Cash", decimal.NewFromInt(1)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.Insert(ctx, core.NewDate(2024, 1, 2), "b", "Cash", decimal.NewFromInt(2)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.DeleteMany(ctx, []int{1}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := s.Revision(); got != 3 {
		t.Fatalf("revision = %d, want 3", got)
	}
}
