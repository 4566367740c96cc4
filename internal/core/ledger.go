package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Ledger holds the ordered transaction sequence for the process. It is not
// safe for concurrent mutation; callers serialize access (see services).
//
// Canonical order is account name ascending, then date ascending; rows with
// the same account and date keep their relative insertion order. Serial ids
// and running balances are derived from that order and recomputed in full
// after every mutation.
type Ledger struct {
	txs     []Transaction
	nextSeq int64
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	return len(l.txs)
}

// recompute is the single code path that assigns ids and balances: stable
// sort by (account, date), then id = position+1 and balance = per-account
// running sum of amounts.
func (l *Ledger) recompute() {
	sort.SliceStable(l.txs, func(i, j int) bool {
		if l.txs[i].Account != l.txs[j].Account {
			return l.txs[i].Account < l.txs[j].Account
		}
		return l.txs[i].Date.Before(l.txs[j].Date)
	})

	running := make(map[string]decimal.Decimal)
	for i := range l.txs {
		l.txs[i].ID = i + 1
		sum := running[l.txs[i].Account].Add(l.txs[i].Amount)
		running[l.txs[i].Account] = sum
		l.txs[i].Balance = sum
	}
}

// Insert validates and appends a new transaction, then recomputes. It
// returns the serial id the new row holds after the recompute; ids of
// existing rows may have shifted.
func (l *Ledger) Insert(date Date, description, account string, amount decimal.Decimal) (int, error) {
	tx := Transaction{
		Date:        date,
		Description: description,
		Account:     strings.TrimSpace(account),
		Amount:      amount,
	}
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	l.nextSeq++
	tx.seq = l.nextSeq
	l.txs = append(l.txs, tx)
	l.recompute()

	for i := range l.txs {
		if l.txs[i].seq == tx.seq {
			return l.txs[i].ID, nil
		}
	}
	// Unreachable: the row was just appended.
	return 0, ErrNotFound
}

// Update replaces all user-supplied fields of the transaction currently
// holding the given serial id, then recomputes. The old id is discarded;
// the edited row may come back with a different id, so callers re-query.
func (l *Ledger) Update(id int, date Date, description, account string, amount decimal.Decimal) error {
	idx := l.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}

	next := Transaction{
		Date:        date,
		Description: description,
		Account:     strings.TrimSpace(account),
		Amount:      amount,
	}
	if err := next.Validate(); err != nil {
		return err
	}

	next.seq = l.txs[idx].seq
	l.txs[idx] = next
	l.recompute()
	return nil
}

// DeleteMany removes every transaction whose current serial id appears in
// ids and returns how many were removed. Unknown ids are ignored; an empty
// set is a no-op (the caller decides whether to surface "nothing
// selected"). Recomputes afterwards when anything changed.
func (l *Ledger) DeleteMany(ids []int) int {
	if len(ids) == 0 {
		return 0
	}
	drop := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := l.txs[:0]
	removed := 0
	for _, tx := range l.txs {
		if _, ok := drop[tx.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, tx)
	}
	l.txs = kept
	if removed > 0 {
		l.recompute()
	}
	return removed
}

// Get returns the transaction currently holding the given serial id.
func (l *Ledger) Get(id int) (Transaction, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return Transaction{}, ErrNotFound
	}
	return l.txs[idx], nil
}

// Snapshot returns a copy of the transaction sequence in canonical order.
// Reports operate on the copy so a later mutation cannot affect them.
func (l *Ledger) Snapshot() []Transaction {
	out := make([]Transaction, len(l.txs))
	copy(out, l.txs)
	return out
}

// Replace swaps in a freshly loaded transaction set (ids and balances in
// the input are ignored) and recomputes. Used on the load path.
func (l *Ledger) Replace(txs []Transaction) {
	l.txs = make([]Transaction, len(txs))
	copy(l.txs, txs)
	for i := range l.txs {
		l.nextSeq++
		l.txs[i].seq = l.nextSeq
	}
	l.recompute()
}

// DateBounds returns the earliest and latest transaction dates, or ok=false
// for an empty ledger. Used for default report ranges.
func (l *Ledger) DateBounds() (min, max Date, ok bool) {
	if len(l.txs) == 0 {
		return Date{}, Date{}, false
	}
	min, max = l.txs[0].Date, l.txs[0].Date
	for _, tx := range l.txs[1:] {
		if tx.Date.Before(min) {
			min = tx.Date
		}
		if tx.Date.After(max) {
			max = tx.Date
		}
	}
	return min, max, true
}

func (l *Ledger) indexOf(id int) int {
	// Ids are dense positions after recompute, so this is a direct index
	// check rather than a scan.
	if id < 1 || id > len(l.txs) {
		return -1
	}
	return id - 1
}
