// Package core holds the domain model of the tracker.
//
// This file contains amount parsing and the single place where the income/
// expense sign convention is applied. Every aggregation path goes through
// SignedAmount so the dashboard, per-account totals, and running balances can
// never disagree on a transaction's sign.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to an amount magnitude.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Amounts
// are magnitudes: negative values are rejected, the sign comes from the
// category kind.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrNegativeAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// Sign returns the multiplier a category kind applies to amounts:
// +1 for income, -1 for expense.
func (k CategoryKind) Sign() decimal.Decimal {
	if k == Income {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(-1)
}

// SignedAmount applies the category sign convention to an amount magnitude.
func SignedAmount(amount decimal.Decimal, kind CategoryKind) decimal.Decimal {
	return amount.Mul(kind.Sign())
}
