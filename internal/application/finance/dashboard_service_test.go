package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardFoldsOwnerState(t *testing.T) {
	now := time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC)
	entries := newMemLedgerRepo()
	loans := newMemLoanRepo()
	investments := newMemInvestmentRepo()
	items := newMemRecurringRepo()
	publisher := &recordingPublisher{}
	logger := testLogger()
	poster := NewIdempotentPoster(entries, logger)
	clock := func() time.Time { return now }

	loanSvc := NewLoanService(loans, entries, poster, publisher, logger, 1200).WithClock(clock)
	recSvc := NewRecurringService(items, poster, publisher, logger).WithClock(clock)
	dashSvc := NewDashboardService(entries, loans, investments, items, logger).WithClock(clock)

	ctx := context.Background()
	ownerID := uuid.New()

	_, err := recSvc.CreateRecurringItem(ctx, ownerID, CreateRecurringItemRequest{
		Name:       "Salary",
		ItemType:   "INCOME",
		Amount:     decimal.NewFromInt(90000),
		Day:        1,
		ProcessNow: true,
	})
	require.NoError(t, err)
	_, err = loanSvc.CreateLoan(ctx, ownerID, CreateLoanRequest{
		Name:         "Bike Loan",
		TotalAmount:  decimal.NewFromInt(120000),
		InterestRate: decimal.NewFromInt(12),
		TenureMonths: 12,
		EMIAmount:    decimal.NewFromInt(11000),
		EMIDay:       5,
		StartDate:    time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, PassResult{Processed: 1}, loanSvc.ProcessDueEMIs(ctx))

	dash, err := dashSvc.GetDashboard(ctx, ownerID)
	require.NoError(t, err)
	assert.True(t, dash.TotalIncome.Equal(decimal.NewFromInt(90000)))
	assert.True(t, dash.CurrentMonthEMI.Equal(decimal.NewFromInt(11000)))
	// income minus the current month's EMI
	assert.True(t, dash.CashBalance.Equal(decimal.NewFromInt(79000)), "got %s", dash.CashBalance)
	assert.Equal(t, 1, dash.ActiveLoanCount)
	assert.Equal(t, 1, dash.ActiveRecurringCount)
	assert.True(t, dash.OutstandingDebt.Equal(decimal.NewFromInt(110200)))
	assert.Equal(t, now, dash.AsOf)

	// another user's dashboard is empty
	other, err := dashSvc.GetDashboard(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, other.CashBalance.IsZero())
	assert.Equal(t, 0, other.ActiveLoanCount)
}
