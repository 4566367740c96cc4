package core

import "github.com/shopspring/decimal"

type (
	// Summary is the credit/debit/balance triple behind the distribution
	// chart and the report header.
	Summary struct {
		TotalCredit  decimal.Decimal
		TotalDebit   decimal.Decimal
		TotalBalance decimal.Decimal
	}

	// ExportRow is a transaction augmented with split credit/debit columns,
	// the contract the spreadsheet exporter consumes.
	ExportRow struct {
		ID          int
		Date        Date
		Description string
		Account     string
		Amount      decimal.Decimal
		Credit      decimal.Decimal
		Debit       decimal.Decimal
		Balance     decimal.Decimal
	}
)

// Filter returns the rows of a snapshot whose date is within [start, end]
// inclusive and whose account is in accounts, preserving canonical order.
// An inverted range or an empty account set yields an empty result, not an
// error.
func Filter(snapshot []Transaction, start, end Date, accounts []string) []Transaction {
	if start.After(end) || len(accounts) == 0 {
		return nil
	}
	selected := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		selected[a] = struct{}{}
	}

	var out []Transaction
	for _, tx := range snapshot {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		if _, ok := selected[tx.Account]; !ok {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// Aggregate computes the summary over filtered rows. TotalCredit sums
// positive amounts, TotalDebit sums the magnitude of negative amounts.
// TotalBalance sums, per account present in the rows, that account's last
// balance value in the filtered set (canonical order), i.e. the standing
// as of the most recent row seen rather than a sum limited to the window.
func Aggregate(rows []Transaction) Summary {
	var s Summary
	last := make(map[string]decimal.Decimal)
	var order []string

	for _, tx := range rows {
		switch {
		case tx.Amount.IsPositive():
			s.TotalCredit = s.TotalCredit.Add(tx.Amount)
		case tx.Amount.IsNegative():
			s.TotalDebit = s.TotalDebit.Add(tx.Amount.Neg())
		}
		if _, seen := last[tx.Account]; !seen {
			order = append(order, tx.Account)
		}
		last[tx.Account] = tx.Balance
	}
	for _, account := range order {
		s.TotalBalance = s.TotalBalance.Add(last[account])
	}
	return s
}

// ExportRows maps filtered rows to the export shape, splitting each amount
// into credit (positive part) and debit (negated negative part) columns.
func ExportRows(rows []Transaction) []ExportRow {
	out := make([]ExportRow, len(rows))
	for i, tx := range rows {
		row := ExportRow{
			ID:          tx.ID,
			Date:        tx.Date,
			Description: tx.Description,
			Account:     tx.Account,
			Amount:      tx.Amount,
			Balance:     tx.Balance,
		}
		switch {
		case tx.Amount.IsPositive():
			row.Credit = tx.Amount
		case tx.Amount.IsNegative():
			row.Debit = tx.Amount.Neg()
		}
		out[i] = row
	}
	return out
}
