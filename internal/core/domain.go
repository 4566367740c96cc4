package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the ISO-8601 layout used everywhere dates cross a boundary.
const DateFormat = "2006-01-02"

type (
	// Date is a calendar date; time-of-day is not significant.
	Date struct {
		time.Time
	}

	// Transaction is the atomic ledger record. ID and Balance are derived
	// fields assigned by the ledger's recompute pass and must never be set
	// by hand. ID is positional: any mutation of the ledger may change it.
	Transaction struct {
		ID          int
		Date        Date
		Description string
		Account     string
		Amount      decimal.Decimal
		Balance     decimal.Decimal

		// seq is a process-local monotonic marker used to find a record
		// again after recompute reorders the slice. Never persisted.
		seq int64
	}
)

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyAccountName = errors.New("empty account name")
	ErrDuplicateAccount = errors.New("duplicate account")
	ErrNotFound         = errors.New("transaction not found")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
)

// NewDate creates a Date from year, month, day (UTC midnight).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO-8601 date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date in ISO-8601.
func (d Date) String() string {
	return d.Format(DateFormat)
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as an int.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// Before reports whether d falls before o.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

// After reports whether d falls after o.
func (d Date) After(o Date) bool {
	return d.Time.After(o.Time)
}

// Equal reports whether d and o are the same day.
func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

// Validate checks the caller-supplied fields of a transaction. Derived
// fields (ID, Balance) are not inspected.
func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// IsCredit reports whether the amount moves money in (positive).
func (t Transaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// IsDebit reports whether the amount moves money out (negative).
func (t Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}
