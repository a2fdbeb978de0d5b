package core

import "time"

// TransactionFilter bounds a transaction listing by date. Nil bounds are
// open; both bounds are inclusive.
type TransactionFilter struct {
	Start *time.Time
	End   *time.Time
}

// Matches reports whether a transaction date falls inside the filter.
func (f TransactionFilter) Matches(date time.Time) bool {
	if f.Start != nil && date.Before(*f.Start) {
		return false
	}
	if f.End != nil && date.After(*f.End) {
		return false
	}
	return true
}
