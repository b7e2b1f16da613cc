package finance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
)

// Period identifies a calendar month, the due-cycle granularity for all
// recurring obligations. Its string form is "YYYY-M" with an unpadded
// month ("2026-9"), which is also the format embedded in ledger entry
// idempotency keys. Because that form does not sort lexicographically,
// ordering always goes through Compare, never string comparison.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing the given instant
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses a "YYYY-M" period string
func ParsePeriod(s string) (Period, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return Period{}, shared.NewDomainError("INVALID_PERIOD", "Period must have the form YYYY-M")
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return Period{}, shared.NewDomainError("INVALID_PERIOD", "Period year is not valid")
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Period{}, shared.NewDomainError("INVALID_PERIOD", "Period month must be between 1 and 12")
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// String returns the "YYYY-M" form
func (p Period) String() string {
	return fmt.Sprintf("%d-%d", p.Year, int(p.Month))
}

// IsZero returns true for the zero period
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Next returns the following calendar month
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Compare returns -1, 0 or 1 ordering periods chronologically
func (p Period) Compare(other Period) int {
	if p.Year != other.Year {
		if p.Year < other.Year {
			return -1
		}
		return 1
	}
	if p.Month != other.Month {
		if p.Month < other.Month {
			return -1
		}
		return 1
	}
	return 0
}

// Before returns true if p is strictly earlier than other
func (p Period) Before(other Period) bool {
	return p.Compare(other) < 0
}

// Equal returns true if both periods name the same month
func (p Period) Equal(other Period) bool {
	return p.Compare(other) == 0
}

// DaysIn returns the number of days in the period's month
func (p Period) DaysIn() int {
	// day 0 of the next month is the last day of this month
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay clamps a day-of-month to the period's actual length, so a
// due-day of 31 lands on Feb 28/29, Apr 30 and so on
func (p Period) ClampDay(day int) int {
	if last := p.DaysIn(); day > last {
		return last
	}
	if day < 1 {
		return 1
	}
	return day
}

// DueDate returns the due date for the given day-of-month within the
// period, clamped to the month's length
func (p Period) DueDate(day int) time.Time {
	return time.Date(p.Year, p.Month, p.ClampDay(day), 0, 0, 0, 0, time.UTC)
}

// financialYearEndMonth/Day: the financial year used for PPF/PF/FD
// interest crediting closes on March 31.
const (
	financialYearEndMonth = time.March
	financialYearEndDay   = 31
)

// LastClosedFinancialYear returns the label of the most recently closed
// financial year as of t: the current calendar year once March 31 has
// passed (inclusive), otherwise the previous one.
func LastClosedFinancialYear(t time.Time) int {
	boundary := time.Date(t.Year(), financialYearEndMonth, financialYearEndDay, 0, 0, 0, 0, t.Location())
	if t.Before(boundary) {
		return t.Year() - 1
	}
	return t.Year()
}
