package core

import "testing"

func reportLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger()
	mustInsert(t, l, NewDate(2024, 1, 1), "open cash", "Cash", "100.00")
	mustInsert(t, l, NewDate(2024, 1, 10), "groceries", "Cash", "-40.00")
	mustInsert(t, l, NewDate(2024, 2, 1), "salary", "Cash", "250.00")
	mustInsert(t, l, NewDate(2024, 1, 5), "open bank", "Bank", "500.00")
	mustInsert(t, l, NewDate(2024, 1, 20), "rent", "Bank", "-300.00")
	return l
}

func TestFilterInvertedRangeIsEmpty(t *testing.T) {
	l := reportLedger(t)
	rows := Filter(l.Snapshot(), NewDate(2024, 2, 1), NewDate(2024, 1, 1), []string{"Cash", "Bank"})
	if len(rows) != 0 {
		t.Fatalf("len = %d, want 0 for inverted range", len(rows))
	}
}

func TestFilterEmptyAccountSetIsEmpty(t *testing.T) {
	l := reportLedger(t)
	rows := Filter(l.Snapshot(), NewDate(2024, 1, 1), NewDate(2024, 12, 31), nil)
	if len(rows) != 0 {
		t.Fatalf("len = %d, want 0 for empty account set", len(rows))
	}
}

func TestFilterInclusiveBoundsAndAccounts(t *testing.T) {
	l := reportLedger(t)
	cases := []struct {
		name     string
		start    Date
		end      Date
		accounts []string
		want     []string
	}{
		{"everything", NewDate(2024, 1, 1), NewDate(2024, 2, 1), []string{"Cash", "Bank"},
			[]string{"open bank", "rent", "open cash", "groceries", "salary"}},
		{"bounds inclusive", NewDate(2024, 1, 1), NewDate(2024, 1, 20), []string{"Cash", "Bank"},
			[]string{"open bank", "rent", "open cash", "groceries"}},
		{"single account", NewDate(2024, 1, 1), NewDate(2024, 2, 1), []string{"Cash"},
			[]string{"open cash", "groceries", "salary"}},
		{"single day", NewDate(2024, 1, 10), NewDate(2024, 1, 10), []string{"Cash"},
			[]string{"groceries"}},
	}
	for _, tc := range cases {
		rows := Filter(l.Snapshot(), tc.start, tc.end, tc.accounts)
		if len(rows) != len(tc.want) {
			t.Fatalf("%s: len = %d, want %d", tc.name, len(rows), len(tc.want))
		}
		for i, w := range tc.want {
			if rows[i].Description != w {
				t.Fatalf("%s: row %d = %q, want %q", tc.name, i, rows[i].Description, w)
			}
		}
	}
}

func TestAggregateTotals(t *testing.T) {
	l := reportLedger(t)
	rows := Filter(l.Snapshot(), NewDate(2024, 1, 1), NewDate(2024, 2, 1), []string{"Cash", "Bank"})
	s := Aggregate(rows)

	if !s.TotalCredit.Equal(dec("850")) {
		t.Fatalf("credit = %s, want 850", s.TotalCredit)
	}
	if !s.TotalDebit.Equal(dec("340")) {
		t.Fatalf("debit = %s, want 340 (positive magnitude)", s.TotalDebit)
	}
	// Last balances in the filtered set: Bank 200, Cash 310.
	if !s.TotalBalance.Equal(dec("510")) {
		t.Fatalf("balance = %s, want 510", s.TotalBalance)
	}
}

func TestAggregateUsesLastBalanceInFilteredSet(t *testing.T) {
	// Clip the window so the last Cash row inside it is not the account's
	// true final row; the total must reflect the last row *seen*, not a
	// recomputation over the window.
	l := reportLedger(t)
	rows := Filter(l.Snapshot(), NewDate(2024, 1, 10), NewDate(2024, 1, 31), []string{"Cash", "Bank"})
	s := Aggregate(rows)
	// Rows: rent (Bank, balance 200), groceries (Cash, balance 60).
	if !s.TotalBalance.Equal(dec("260")) {
		t.Fatalf("balance = %s, want 260", s.TotalBalance)
	}
	if !s.TotalCredit.Equal(dec("0")) {
		t.Fatalf("credit = %s, want 0", s.TotalCredit)
	}
	if !s.TotalDebit.Equal(dec("340")) {
		t.Fatalf("debit = %s, want 340", s.TotalDebit)
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	if !s.TotalCredit.IsZero() || !s.TotalDebit.IsZero() || !s.TotalBalance.IsZero() {
		t.Fatalf("empty aggregate not zero: %+v", s)
	}
}

func TestExportRowsSplitColumns(t *testing.T) {
	l := NewLedger()
	mustInsert(t, l, NewDate(2024, 1, 1), "in", "Cash", "100.00")
	mustInsert(t, l, NewDate(2024, 1, 2), "out", "Cash", "-40.00")
	mustInsert(t, l, NewDate(2024, 1, 3), "nothing", "Cash", "0")

	rows := ExportRows(l.Snapshot())
	if len(rows) != 3 {
		t.Fatalf("len = %d, want 3", len(rows))
	}
	if !rows[0].Credit.Equal(dec("100")) || !rows[0].Debit.IsZero() {
		t.Fatalf("credit row split wrong: %+v", rows[0])
	}
	if !rows[1].Debit.Equal(dec("40")) || !rows[1].Credit.IsZero() {
		t.Fatalf("debit row split wrong: %+v", rows[1])
	}
	if !rows[2].Credit.IsZero() || !rows[2].Debit.IsZero() {
		t.Fatalf("zero row split wrong: %+v", rows[2])
	}
	for i, r := range rows {
		if r.ID != i+1 {
			t.Fatalf("export order broken: row %d has id %d", i, r.ID)
		}
	}
}
