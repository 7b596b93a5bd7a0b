package ledger

import (
	"fmt"
	"time"

	"github.com/strata/backend/internal/domain/shared"
)

// Period is a year-month label ("2026-08") used to key recurring charges.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing the given date
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses a "YYYY-MM" label
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Invalid period %q, expected YYYY-MM", s))
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// String returns the "YYYY-MM" label
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// IsZero reports whether the period is unset
func (p Period) IsZero() bool {
	return p.Year == 0
}

// Days returns the number of days in the period's month
func (p Period) Days() int {
	// day 0 of the next month is the last day of this month
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DueDate returns the date of the given day-of-month within the period,
// clipping the day to the month's length. A template configured for day 31
// yields Feb 28 (or 29) in February, never a spill into March.
func (p Period) DueDate(day int) time.Time {
	if day < 1 {
		day = 1
	}
	if max := p.Days(); day > max {
		day = max
	}
	return time.Date(p.Year, p.Month, day, 0, 0, 0, 0, time.UTC)
}

// Next returns the following period
func (p Period) Next() Period {
	t := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return Period{Year: t.Year(), Month: t.Month()}
}

// MonthsSince returns the number of whole calendar months between other and p
func (p Period) MonthsSince(other Period) int {
	return (p.Year-other.Year)*12 + int(p.Month) - int(other.Month)
}
