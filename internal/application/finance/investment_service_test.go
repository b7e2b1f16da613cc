package finance

import (
	"context"
	"testing"
	"time"

	"github.com/fintrack/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type investmentFixture struct {
	service     *InvestmentService
	investments *memInvestmentRepo
	entries     *memLedgerRepo
	publisher   *recordingPublisher
}

func newInvestmentFixture(now time.Time) *investmentFixture {
	investments := newMemInvestmentRepo()
	entries := newMemLedgerRepo()
	publisher := &recordingPublisher{}
	logger := testLogger()
	service := NewInvestmentService(investments, NewIdempotentPoster(entries, logger), publisher, logger).
		WithClock(func() time.Time { return now })
	return &investmentFixture{service: service, investments: investments, entries: entries, publisher: publisher}
}

func TestProcessDueSIPsPostsContribution(t *testing.T) {
	now := time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC)
	f := newInvestmentFixture(now)
	ctx := context.Background()
	ownerID := uuid.New()

	resp, err := f.service.CreateInvestment(ctx, ownerID, CreateInvestmentRequest{
		Name:           "PPF Account",
		InvestmentType: "PPF",
		InvestedAmount: decimal.NewFromInt(100000),
		InterestRate:   decimal.NewFromFloat(7.1),
		StartDate:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		SIPAmount:      decimal.NewFromInt(5000),
		SIPDay:         5,
	})
	require.NoError(t, err)

	result := f.service.ProcessDueSIPs(ctx)
	assert.Equal(t, PassResult{Processed: 1}, result)

	key := finance.EntryKey(finance.SourceKindSIP, resp.ID, finance.Period{Year: 2026, Month: time.September})
	entry, err := f.entries.FindByKey(ctx, key)
	require.NoError(t, err)
	assert.True(t, entry.AutoSIP)
	assert.Equal(t, finance.CategoryInvestment, entry.Category)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(5000)))

	inv, err := f.investments.FindByIDForOwner(ctx, ownerID, resp.ID)
	require.NoError(t, err)
	assert.True(t, inv.InvestedAmount.Equal(decimal.NewFromInt(105000)))
	assert.True(t, inv.CurrentValue.Equal(decimal.NewFromInt(105000)))
	require.NotNil(t, inv.LastSIPPaidPeriod)
	assert.Equal(t, "2026-9", inv.LastSIPPaidPeriod.String())

	result = f.service.ProcessDueSIPs(ctx)
	assert.Equal(t, PassResult{}, result)
	assert.Equal(t, 1, f.entries.count())
}

func TestProcessDueSIPsSkipsZeroSIP(t *testing.T) {
	now := time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC)
	f := newInvestmentFixture(now)
	ctx := context.Background()

	_, err := f.service.CreateInvestment(ctx, uuid.New(), CreateInvestmentRequest{
		Name:           "Lump Sum FD",
		InvestmentType: "FD",
		InvestedAmount: decimal.NewFromInt(200000),
		InterestRate:   decimal.NewFromFloat(6.5),
		StartDate:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	result := f.service.ProcessDueSIPs(ctx)
	assert.Equal(t, PassResult{}, result)
	assert.Equal(t, 0, f.entries.count())
}

func TestProcessDueInterestCreditsClosedFinancialYear(t *testing.T) {
	// April 2026: the financial year labeled 2026 closed on March 31
	now := time.Date(2026, 4, 10, 10, 0, 0, 0, time.UTC)
	f := newInvestmentFixture(now)
	ctx := context.Background()
	ownerID := uuid.New()

	resp, err := f.service.CreateInvestment(ctx, ownerID, CreateInvestmentRequest{
		Name:           "PPF Account",
		InvestmentType: "PPF",
		InvestedAmount: decimal.NewFromInt(100000),
		InterestRate:   decimal.NewFromInt(8),
		StartDate:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	result := f.service.ProcessDueInterest(ctx)
	assert.Equal(t, PassResult{Processed: 1}, result)

	inv, err := f.investments.FindByIDForOwner(ctx, ownerID, resp.ID)
	require.NoError(t, err)
	assert.True(t, inv.CurrentValue.Equal(decimal.NewFromInt(108000)), "got %s", inv.CurrentValue)
	assert.Equal(t, 2026, inv.LastInterestPaidYear)

	entries := f.entries.all()
	require.Len(t, entries, 1)
	assert.Equal(t, finance.EntryTypeInterestCredit, entries[0].EntryType)
	assert.Empty(t, entries[0].EntryKey, "interest credits carry no idempotency key")
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(8000)))

	// one credit per financial year
	result = f.service.ProcessDueInterest(ctx)
	assert.Equal(t, PassResult{}, result)
	assert.Equal(t, 1, f.entries.count())
}

func TestProcessDueInterestSkipsNonInterestTypes(t *testing.T) {
	now := time.Date(2026, 4, 10, 10, 0, 0, 0, time.UTC)
	f := newInvestmentFixture(now)
	ctx := context.Background()

	_, err := f.service.CreateInvestment(ctx, uuid.New(), CreateInvestmentRequest{
		Name:           "Index Fund",
		InvestmentType: "OTHER",
		InvestedAmount: decimal.NewFromInt(50000),
		InterestRate:   decimal.NewFromInt(12),
		StartDate:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	result := f.service.ProcessDueInterest(ctx)
	assert.Equal(t, PassResult{}, result)
	assert.Equal(t, 0, f.entries.count())
}

func TestProcessDueInterestPersistsGateBeforeEntry(t *testing.T) {
	now := time.Date(2026, 4, 10, 10, 0, 0, 0, time.UTC)
	f := newInvestmentFixture(now)
	ctx := context.Background()
	ownerID := uuid.New()

	resp, err := f.service.CreateInvestment(ctx, ownerID, CreateInvestmentRequest{
		Name:           "PF Account",
		InvestmentType: "PF",
		InvestedAmount: decimal.NewFromInt(100000),
		InterestRate:   decimal.NewFromInt(8),
		StartDate:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// entry write fails, but the year gate already advanced: the next
	// pass must not double-credit the value
	f.entries.failAll = true
	result := f.service.ProcessDueInterest(ctx)
	assert.Equal(t, PassResult{Failed: 1}, result)

	inv, err := f.investments.FindByIDForOwner(ctx, ownerID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, 2026, inv.LastInterestPaidYear)
	assert.True(t, inv.CurrentValue.Equal(decimal.NewFromInt(108000)))

	f.entries.failAll = false
	result = f.service.ProcessDueInterest(ctx)
	assert.Equal(t, PassResult{}, result)
	assert.True(t, inv.CurrentValue.Equal(decimal.NewFromInt(108000)))
}

func TestUpdateInvestmentValue(t *testing.T) {
	now := time.Date(2026, 9, 8, 10, 0, 0, 0, time.UTC)
	f := newInvestmentFixture(now)
	ctx := context.Background()
	ownerID := uuid.New()

	resp, err := f.service.CreateInvestment(ctx, ownerID, CreateInvestmentRequest{
		Name:           "Index Fund",
		InvestmentType: "OTHER",
		InvestedAmount: decimal.NewFromInt(50000),
		StartDate:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	updated, err := f.service.UpdateInvestmentValue(ctx, ownerID, resp.ID, UpdateInvestmentValueRequest{
		CurrentValue: decimal.NewFromInt(57500),
	})
	require.NoError(t, err)
	assert.True(t, updated.CurrentValue.Equal(decimal.NewFromInt(57500)))
	assert.True(t, updated.InvestedAmount.Equal(decimal.NewFromInt(50000)), "invested amount is untouched")
}
