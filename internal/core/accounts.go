package core

import "strings"

// DefaultAccount seeds the registry when storage is empty.
const DefaultAccount = "Cash"

// AccountRegistry holds the ordered set of known account names. Order is
// insertion order (for display); uniqueness is the only hard invariant and
// matching is case-sensitive.
type AccountRegistry struct {
	names []string
}

// NewAccountRegistry builds a registry from stored names, seeding the
// default account when the list is empty.
func NewAccountRegistry(names []string) *AccountRegistry {
	r := &AccountRegistry{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || r.Contains(n) {
			continue
		}
		r.names = append(r.names, n)
	}
	if len(r.names) == 0 {
		r.names = append(r.names, DefaultAccount)
	}
	return r
}

// Add appends a new account name. Empty or whitespace-only names are
// rejected with ErrEmptyAccountName; an existing name with
// ErrDuplicateAccount.
func (r *AccountRegistry) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyAccountName
	}
	if r.Contains(name) {
		return ErrDuplicateAccount
	}
	r.names = append(r.names, name)
	return nil
}

// List returns the account names in insertion order.
func (r *AccountRegistry) List() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Contains reports whether name is a known account (exact match).
func (r *AccountRegistry) Contains(name string) bool {
	for _, n := range r.names {
		if n == name {
			return true
		}
	}
	return false
}
