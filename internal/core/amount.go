// Package core implements the ledger engine: the transaction model, the
// account registry, balance recomputation and the report calculations.
//
// This file contains amount parsing and formatting helpers. Amounts are
// exact decimals; binary floating point is never used for money.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-supplied amount string to a decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional leading sign. An empty string or garbage input returns
// ErrInvalidAmount. Zero is a valid amount.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34
//	ParseAmount("12,34")  -> 12.34
//	ParseAmount("-40")    -> -40
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders a decimal with exactly two fractional digits, the
// display convention for currency columns.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
