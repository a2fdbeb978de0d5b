package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"100.55", "100.55", true},
		{"100,55", "100.55", true},
		{"0", "0", true},
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestSignedAmount(t *testing.T) {
	amount := decimal.RequireFromString("200.00")
	if got := SignedAmount(amount, Income); !got.Equal(decimal.RequireFromString("200.00")) {
		t.Fatalf("income expected +200.00, got %s", got)
	}
	if got := SignedAmount(amount, Expense); !got.Equal(decimal.RequireFromString("-200.00")) {
		t.Fatalf("expense expected -200.00, got %s", got)
	}
}
