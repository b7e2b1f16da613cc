package finance

import (
	"testing"
	"time"

	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// now is a Tuesday; the week window starts Sunday Sep 6
var dashboardNow = time.Date(2026, time.September, 8, 12, 0, 0, 0, time.UTC)

func manualEntry(t *testing.T, owner uuid.UUID, entryType EntryType, category EntryCategory, amount float64, date time.Time) LedgerEntry {
	t.Helper()
	entry, err := NewManualEntry(owner, entryType, category, valueobject.NewMoneyINRFromFloat(amount), date, "test")
	require.NoError(t, err)
	return *entry
}

func emiEntry(t *testing.T, loan *Loan, period Period, backfill bool) LedgerEntry {
	t.Helper()
	entry, err := NewEMIEntry(loan, period, period.DueDate(loan.EMIDay), backfill)
	require.NoError(t, err)
	return *entry
}

func TestComputeDashboard_CashBalance(t *testing.T) {
	owner := uuid.New()
	entries := []LedgerEntry{
		manualEntry(t, owner, EntryTypeIncome, CategorySalary, 50000, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)),
		manualEntry(t, owner, EntryTypeExpense, CategoryFood, 4000, time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC)),
		manualEntry(t, owner, EntryTypeExpense, CategoryInvestment, 5000, time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)),
	}

	totals := ComputeDashboard(dashboardNow, entries, nil, nil, nil)

	assert.True(t, totals.TotalIncome.Equal(decimal.NewFromInt(50000)))
	assert.True(t, totals.OtherExpenses.Equal(decimal.NewFromInt(4000)))
	assert.True(t, totals.InvestmentOutflow.Equal(decimal.NewFromInt(5000)))
	// 50000 - 4000 - 0 - 5000
	assert.True(t, totals.CashBalance.Equal(decimal.NewFromInt(41000)))
}

// Entries that must not move the cash balance: pending, interest
// credits, and EMI expenses dated before the current month.
func TestComputeDashboard_BalanceExclusions(t *testing.T) {
	owner := uuid.New()
	start := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 120000, 11000, 12, 5, start)

	baseline := []LedgerEntry{
		manualEntry(t, owner, EntryTypeIncome, CategorySalary, 50000, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)),
	}
	base := ComputeDashboard(dashboardNow, baseline, nil, nil, nil)

	pendingEntry := manualEntry(t, owner, EntryTypePending, CategoryOther, 9999, time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC))

	interestEntry, err := NewInterestCreditEntry(
		newTestInvestment(t, InvestmentTypeFD, 100000, 0, 8, start),
		2026, valueobject.NewMoneyINRFromFloat(8000),
		time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	pastEMI := emiEntry(t, loan, Period{2026, time.June}, true)

	for _, tc := range []struct {
		name  string
		entry LedgerEntry
	}{
		{"pending", pendingEntry},
		{"interest credit", *interestEntry},
		{"past-month auto EMI", pastEMI},
	} {
		t.Run(tc.name, func(t *testing.T) {
			totals := ComputeDashboard(dashboardNow, append(baseline, tc.entry), nil, nil, nil)
			assert.True(t, totals.CashBalance.Equal(base.CashBalance),
				"cash balance moved from %s to %s", base.CashBalance, totals.CashBalance)
		})
	}
}

func TestComputeDashboard_CurrentMonthEMIDeducted(t *testing.T) {
	owner := uuid.New()
	start := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 120000, 11000, 12, 5, start)

	entries := []LedgerEntry{
		manualEntry(t, owner, EntryTypeIncome, CategorySalary, 50000, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)),
		emiEntry(t, loan, Period{2026, time.August}, true),    // excluded from balance
		emiEntry(t, loan, Period{2026, time.September}, false), // deducted
	}

	totals := ComputeDashboard(dashboardNow, entries, nil, nil, nil)

	assert.True(t, totals.EMISpend.Equal(decimal.NewFromInt(22000)))
	assert.True(t, totals.CurrentMonthEMI.Equal(decimal.NewFromInt(11000)))
	assert.True(t, totals.CashBalance.Equal(decimal.NewFromInt(39000)))
}

func TestComputeDashboard_TimeWindows(t *testing.T) {
	owner := uuid.New()
	entries := []LedgerEntry{
		// today (Tue Sep 8)
		manualEntry(t, owner, EntryTypeExpense, CategoryFood, 100, time.Date(2026, time.September, 8, 9, 0, 0, 0, time.UTC)),
		// this week but not today (Sunday Sep 6 is the week start)
		manualEntry(t, owner, EntryTypeExpense, CategoryFood, 200, time.Date(2026, time.September, 6, 0, 0, 0, 0, time.UTC)),
		// this month but before this week
		manualEntry(t, owner, EntryTypeExpense, CategoryFood, 400, time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC)),
		// last month
		manualEntry(t, owner, EntryTypeExpense, CategoryFood, 800, time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC)),
		// two months ago, in no window
		manualEntry(t, owner, EntryTypeExpense, CategoryFood, 1600, time.Date(2026, time.July, 20, 0, 0, 0, 0, time.UTC)),
	}

	totals := ComputeDashboard(dashboardNow, entries, nil, nil, nil)

	assert.True(t, totals.SpendToday.Equal(decimal.NewFromInt(100)))
	assert.True(t, totals.SpendThisWeek.Equal(decimal.NewFromInt(300)))
	assert.True(t, totals.SpendThisMonth.Equal(decimal.NewFromInt(700)))
	assert.True(t, totals.SpendLastMonth.Equal(decimal.NewFromInt(800)))
}

func TestComputeDashboard_SavingsDelta(t *testing.T) {
	owner := uuid.New()
	entries := []LedgerEntry{
		manualEntry(t, owner, EntryTypeIncome, CategorySalary, 50000, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)),
		manualEntry(t, owner, EntryTypeExpense, CategoryFood, 10000, time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC)),
		manualEntry(t, owner, EntryTypeIncome, CategorySalary, 50000, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)),
		manualEntry(t, owner, EntryTypeExpense, CategoryFood, 25000, time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)),
	}

	totals := ComputeDashboard(dashboardNow, entries, nil, nil, nil)

	// net this month 40000, net last month 25000
	assert.True(t, totals.SavingsDelta.Equal(decimal.NewFromInt(15000)))
}

func TestComputeDashboard_CollectionTotals(t *testing.T) {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	active := newTestLoan(t, 120000, 11000, 12, 5, start)
	completed := newTestLoan(t, 50000, 11000, 12, 5, start)
	completed.RemainingBalance = decimal.Zero
	completed.Status = LoanStatusCompleted

	inv := newTestInvestment(t, InvestmentTypePPF, 50000, 5000, 7.1, start)

	income := newTestRecurringItem(t, RecurringTypeIncome, 50000, 1)
	expense := newTestRecurringItem(t, RecurringTypeExpense, 1200, 5)
	inactive := newTestRecurringItem(t, RecurringTypeExpense, 9000, 5)
	require.NoError(t, inactive.Deactivate())

	totals := ComputeDashboard(dashboardNow, nil,
		[]Loan{*active, *completed},
		[]Investment{*inv},
		[]RecurringItem{*income, *expense, *inactive},
	)

	assert.True(t, totals.OutstandingDebt.Equal(decimal.NewFromInt(120000)))
	assert.Equal(t, 1, totals.ActiveLoanCount)
	assert.True(t, totals.InvestmentValue.Equal(decimal.NewFromInt(50000)))
	assert.True(t, totals.MonthlyRecurringNet.Equal(decimal.NewFromInt(48800)))
	assert.Equal(t, 2, totals.ActiveRecurringCount)
}
