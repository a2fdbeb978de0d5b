// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for planned transaction dueness
// checking. Each recurrence has its own strategy that encapsulates the logic
// for determining if a planned transaction should be materialized.
package services

import (
	"fmt"
	"time"

	"wealthtracker/internal/core"
)

// DuenessChecker is the strategy interface for checking if a planned
// transaction is due for materialization.
type DuenessChecker interface {
	// IsDue returns true if the planned transaction should be materialized
	// based on the last materialization time and the current time.
	IsDue(lastMaterialized, now time.Time, startDate time.Time) bool
}

// OnceChecker materializes a planned transaction exactly once, on or after
// its scheduled date.
type OnceChecker struct{}

func (OnceChecker) IsDue(lastMaterialized, now time.Time, startDate time.Time) bool {
	if !lastMaterialized.IsZero() {
		return false
	}
	return !now.Before(startDate)
}

// DailyChecker implements DuenessChecker for daily recurrences.
type DailyChecker struct{}

// IsDue returns true if the last materialization was before today.
func (DailyChecker) IsDue(lastMaterialized, now time.Time, _ time.Time) bool {
	if lastMaterialized.IsZero() {
		return true
	}
	return lastMaterialized.Format("2006-01-02") != now.Format("2006-01-02")
}

// WeeklyChecker implements DuenessChecker for weekly recurrences.
type WeeklyChecker struct{}

// IsDue returns true if 7 or more days have passed since last materialization.
func (WeeklyChecker) IsDue(lastMaterialized, now time.Time, _ time.Time) bool {
	if lastMaterialized.IsZero() {
		return true
	}
	return now.Sub(lastMaterialized).Hours()/24 >= 7
}

// BiweeklyChecker implements DuenessChecker for biweekly recurrences.
type BiweeklyChecker struct{}

// IsDue returns true if 14 or more days have passed since last materialization.
func (BiweeklyChecker) IsDue(lastMaterialized, now time.Time, _ time.Time) bool {
	if lastMaterialized.IsZero() {
		return true
	}
	return now.Sub(lastMaterialized).Hours()/24 >= 14
}

// MonthSpanChecker covers every calendar-month based recurrence. Months is
// the span between materializations: 1 for monthly, 3 for quarterly, 6 for
// semiannual, 12 for yearly.
type MonthSpanChecker struct {
	Months int
}

// IsDue returns true once the configured number of months has elapsed and
// the target day of month has been reached. A target day missing from the
// current month (e.g. the 31st in February) clamps to the month's last day.
func (c MonthSpanChecker) IsDue(lastMaterialized, now time.Time, startDate time.Time) bool {
	if lastMaterialized.IsZero() {
		return true
	}

	monthsSince := (now.Year()-lastMaterialized.Year())*12 + int(now.Month()) - int(lastMaterialized.Month())
	if monthsSince < c.Months {
		return false
	}

	targetDay := startDate.Day()
	lastDayOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if targetDay > lastDayOfMonth {
		targetDay = lastDayOfMonth
	}

	return now.Day() >= targetDay
}

// duenessStrategies maps recurrences to their corresponding checkers.
var duenessStrategies = map[core.Recurrence]DuenessChecker{
	core.Once:       OnceChecker{},
	core.Daily:      DailyChecker{},
	core.Weekly:     WeeklyChecker{},
	core.Biweekly:   BiweeklyChecker{},
	core.Monthly:    MonthSpanChecker{Months: 1},
	core.Quarterly:  MonthSpanChecker{Months: 3},
	core.Semiannual: MonthSpanChecker{Months: 6},
	core.Yearly:     MonthSpanChecker{Months: 12},
}

// GetDuenessChecker returns the appropriate dueness checker for a recurrence.
// Returns an error if the recurrence is not supported.
func GetDuenessChecker(recurrence core.Recurrence) (DuenessChecker, error) {
	checker, ok := duenessStrategies[recurrence]
	if !ok {
		return nil, fmt.Errorf("unknown recurrence: %s", recurrence)
	}
	return checker, nil
}

// RegisterDuenessChecker allows registering custom dueness checkers for new
// recurrences without modifying the registry.
func RegisterDuenessChecker(recurrence core.Recurrence, checker DuenessChecker) {
	duenessStrategies[recurrence] = checker
}
