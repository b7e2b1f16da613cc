package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardTotals is the read-side fold of the ledger and the three
// obligation collections into display figures. It is a pure value;
// recomputing it on every change is safe.
type DashboardTotals struct {
	TotalIncome       decimal.Decimal
	OtherExpenses     decimal.Decimal // regular spend, EMI and investment outflow excluded
	EMISpend          decimal.Decimal // all EMI-tagged spend, including backfilled history
	CurrentMonthEMI   decimal.Decimal // EMI portion deducted from the cash balance
	InvestmentOutflow decimal.Decimal
	CashBalance       decimal.Decimal

	SpendToday     decimal.Decimal
	SpendThisWeek  decimal.Decimal // week starts on the most recent Sunday
	SpendThisMonth decimal.Decimal
	SpendLastMonth decimal.Decimal
	SavingsDelta   decimal.Decimal // net this month minus net last month

	OutstandingDebt      decimal.Decimal // sum of active loan balances
	InvestmentValue      decimal.Decimal // sum of investment current values
	MonthlyRecurringNet  decimal.Decimal // active templates: income minus expense
	ActiveLoanCount      int
	ActiveRecurringCount int
}

// ComputeDashboard folds the given state into display totals as of now.
//
// Partitioning rules: income entries sum to gross income; expense entries
// flagged auto-EMI or categorized as loan are EMI spend; expense entries
// categorized as investment are investment outflow; the rest is regular
// spend. Interest credits and pending entries never touch the cash
// balance. EMI spend is deducted from the balance only for entries dated
// in the current month: backfilled "(Past)" EMIs represent payments made
// before tracking began.
func ComputeDashboard(now time.Time, entries []LedgerEntry, loans []Loan, investments []Investment, items []RecurringItem) DashboardTotals {
	totals := DashboardTotals{
		TotalIncome:         decimal.Zero,
		OtherExpenses:       decimal.Zero,
		EMISpend:            decimal.Zero,
		CurrentMonthEMI:     decimal.Zero,
		InvestmentOutflow:   decimal.Zero,
		CashBalance:         decimal.Zero,
		SpendToday:          decimal.Zero,
		SpendThisWeek:       decimal.Zero,
		SpendThisMonth:      decimal.Zero,
		SpendLastMonth:      decimal.Zero,
		SavingsDelta:        decimal.Zero,
		OutstandingDebt:     decimal.Zero,
		InvestmentValue:     decimal.Zero,
		MonthlyRecurringNet: decimal.Zero,
	}

	today := startOfDay(now)
	weekStart := startOfWeek(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)
	currentPeriod := PeriodOf(now)

	incomeThisMonth := decimal.Zero
	incomeLastMonth := decimal.Zero

	for i := range entries {
		entry := &entries[i]
		if !entry.EntryType.AffectsCashBalance() {
			continue
		}

		if entry.EntryType == EntryTypeIncome {
			totals.TotalIncome = totals.TotalIncome.Add(entry.Amount)
			if inRange(entry.EntryDate, monthStart, now) {
				incomeThisMonth = incomeThisMonth.Add(entry.Amount)
			} else if inRange(entry.EntryDate, lastMonthStart, monthStart) {
				incomeLastMonth = incomeLastMonth.Add(entry.Amount)
			}
			continue
		}

		// expense partition
		switch {
		case entry.AutoEMI || entry.Category == CategoryLoan:
			totals.EMISpend = totals.EMISpend.Add(entry.Amount)
			if PeriodOf(entry.EntryDate).Equal(currentPeriod) {
				totals.CurrentMonthEMI = totals.CurrentMonthEMI.Add(entry.Amount)
			}
		case entry.Category == CategoryInvestment:
			totals.InvestmentOutflow = totals.InvestmentOutflow.Add(entry.Amount)
		default:
			totals.OtherExpenses = totals.OtherExpenses.Add(entry.Amount)
		}

		if !entry.EntryDate.Before(today) && entry.EntryDate.Before(today.AddDate(0, 0, 1)) {
			totals.SpendToday = totals.SpendToday.Add(entry.Amount)
		}
		if inRange(entry.EntryDate, weekStart, now.AddDate(0, 0, 1)) {
			totals.SpendThisWeek = totals.SpendThisWeek.Add(entry.Amount)
		}
		if inRange(entry.EntryDate, monthStart, now.AddDate(0, 0, 1)) {
			totals.SpendThisMonth = totals.SpendThisMonth.Add(entry.Amount)
		} else if inRange(entry.EntryDate, lastMonthStart, monthStart) {
			totals.SpendLastMonth = totals.SpendLastMonth.Add(entry.Amount)
		}
	}

	totals.CashBalance = totals.TotalIncome.
		Sub(totals.OtherExpenses).
		Sub(totals.CurrentMonthEMI).
		Sub(totals.InvestmentOutflow)

	netThisMonth := incomeThisMonth.Sub(totals.SpendThisMonth)
	netLastMonth := incomeLastMonth.Sub(totals.SpendLastMonth)
	totals.SavingsDelta = netThisMonth.Sub(netLastMonth)

	for i := range loans {
		if loans[i].Status == LoanStatusActive {
			totals.OutstandingDebt = totals.OutstandingDebt.Add(loans[i].RemainingBalance)
			totals.ActiveLoanCount++
		}
	}
	for i := range investments {
		totals.InvestmentValue = totals.InvestmentValue.Add(investments[i].CurrentValue)
	}
	for i := range items {
		if !items[i].Active {
			continue
		}
		totals.ActiveRecurringCount++
		if items[i].ItemType == RecurringTypeIncome {
			totals.MonthlyRecurringNet = totals.MonthlyRecurringNet.Add(items[i].Amount)
		} else {
			totals.MonthlyRecurringNet = totals.MonthlyRecurringNet.Sub(items[i].Amount)
		}
	}

	return totals
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the most recent Sunday at midnight
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

// inRange reports from <= t < to
func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
