package core

import (
	"errors"
	"testing"
)

func TestRegistrySeedsDefaultAccount(t *testing.T) {
	r := NewAccountRegistry(nil)
	got := r.List()
	if len(got) != 1 || got[0] != DefaultAccount {
		t.Fatalf("list = %v, want [%s]", got, DefaultAccount)
	}
}

func TestRegistryPreservesStoredOrder(t *testing.T) {
	r := NewAccountRegistry([]string{"Cash", "Bank", " Savings ", "", "Bank"})
	got := r.List()
	want := []string{"Cash", "Bank", "Savings"}
	if len(got) != len(want) {
		t.Fatalf("list = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("list = %v, want %v", got, want)
		}
	}
}

func TestRegistryAdd(t *testing.T) {
	r := NewAccountRegistry([]string{"Cash"})

	if err := r.Add("Bank"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !r.Contains("Bank") {
		t.Fatalf("Bank missing after add")
	}

	cases := []struct {
		name string
		want error
	}{
		{"", ErrEmptyAccountName},
		{"   ", ErrEmptyAccountName},
		{"Cash", ErrDuplicateAccount},
		{"Bank", ErrDuplicateAccount},
	}
	for _, tc := range cases {
		if err := r.Add(tc.name); !errors.Is(err, tc.want) {
			t.Fatalf("add %q: err = %v, want %v", tc.name, err, tc.want)
		}
	}

	// Case-sensitive: "cash" is a different account.
	if err := r.Add("cash"); err != nil {
		t.Fatalf("add cash: %v", err)
	}
}

func TestRegistryContains(t *testing.T) {
	r := NewAccountRegistry([]string{"Cash"})
	if !r.Contains("Cash") {
		t.Fatalf("Contains(Cash) = false")
	}
	if r.Contains("cash") || r.Contains("") {
		t.Fatalf("Contains matched a non-member")
	}
}

func TestRegistryListIsACopy(t *testing.T) {
	r := NewAccountRegistry([]string{"Cash"})
	l := r.List()
	l[0] = "tampered"
	if !r.Contains("Cash") {
		t.Fatalf("List() leaked internal slice")
	}
}
