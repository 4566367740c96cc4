package core

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12.34", "12.34"},
		{"12,34", "12.34"},
		{" 100 ", "100"},
		{"-40.00", "-40"},
		{"+7", "7"},
		{"0", "0"},
		{"0.005", "0.005"},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if !got.Equal(dec(tc.want)) {
			t.Fatalf("parse %q = %s, want %s", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "  ", "abc", "1.2.3", "12..3", "€10"} {
		if _, err := ParseAmount(bad); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("parse %q: err = %v, want ErrInvalidAmount", bad, err)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12.3", "12.30"},
		{"0", "0.00"},
		{"-40", "-40.00"},
		{"1.005", "1.01"},
	}
	for _, tc := range cases {
		if got := FormatAmount(dec(tc.in)); got != tc.want {
			t.Fatalf("format %s = %q, want %q", tc.in, got, tc.want)
		}
	}
}
