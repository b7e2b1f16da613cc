package finance

import (
	"fmt"
	"testing"
	"time"

	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryKey(t *testing.T) {
	id := uuid.New()
	period := Period{2026, time.September}

	assert.Equal(t, fmt.Sprintf("emi_%s_2026-9", id), EntryKey(SourceKindEMI, id, period))
	assert.Equal(t, fmt.Sprintf("sip_%s_2026-9", id), EntryKey(SourceKindSIP, id, period))
	assert.Equal(t, fmt.Sprintf("rec_%s_2026-9", id), EntryKey(SourceKindRecurring, id, period))
}

func TestEntryType_AffectsCashBalance(t *testing.T) {
	tests := []struct {
		entryType EntryType
		expected  bool
	}{
		{EntryTypeIncome, true},
		{EntryTypeExpense, true},
		{EntryTypePending, false},
		{EntryTypeInterestCredit, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.entryType), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.entryType.AffectsCashBalance())
		})
	}
}

func TestNewManualEntry(t *testing.T) {
	owner := uuid.New()
	date := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	entry, err := NewManualEntry(owner, EntryTypeExpense, CategoryFood, valueobject.NewMoneyINRFromFloat(450), date, "groceries")
	require.NoError(t, err)
	assert.Empty(t, entry.EntryKey)
	assert.Equal(t, owner, entry.OwnerID)
	assert.Nil(t, entry.SourceID())

	events := entry.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventLedgerEntryPosted, events[0].EventType())
}

func TestNewManualEntry_Validation(t *testing.T) {
	owner := uuid.New()
	date := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	amount := valueobject.NewMoneyINRFromFloat(450)

	tests := []struct {
		name string
		fn   func() (*LedgerEntry, error)
	}{
		{"empty owner", func() (*LedgerEntry, error) {
			return NewManualEntry(uuid.Nil, EntryTypeExpense, CategoryFood, amount, date, "x")
		}},
		{"bad type", func() (*LedgerEntry, error) {
			return NewManualEntry(owner, EntryType("TRANSFER"), CategoryFood, amount, date, "x")
		}},
		{"interest credit reserved", func() (*LedgerEntry, error) {
			return NewManualEntry(owner, EntryTypeInterestCredit, CategoryInvestment, amount, date, "x")
		}},
		{"bad category", func() (*LedgerEntry, error) {
			return NewManualEntry(owner, EntryTypeExpense, EntryCategory("GADGETS"), amount, date, "x")
		}},
		{"zero amount", func() (*LedgerEntry, error) {
			return NewManualEntry(owner, EntryTypeExpense, CategoryFood, valueobject.ZeroINR(), date, "x")
		}},
		{"zero date", func() (*LedgerEntry, error) {
			return NewManualEntry(owner, EntryTypeExpense, CategoryFood, amount, time.Time{}, "x")
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.fn()
			assert.Error(t, err)
		})
	}
}

func TestNewEMIEntry(t *testing.T) {
	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t, 120000, 11000, 12, 5, start)
	period := Period{2026, time.June}
	due := period.DueDate(5)

	t.Run("live entry carries the idempotency key", func(t *testing.T) {
		entry, err := NewEMIEntry(loan, period, due, false)
		require.NoError(t, err)
		assert.Equal(t, EntryKey(SourceKindEMI, loan.ID, period), entry.EntryKey)
		assert.True(t, entry.AutoEMI)
		assert.Equal(t, CategoryLoan, entry.Category)
		require.NotNil(t, entry.LoanID)
		assert.Equal(t, loan.ID, *entry.LoanID)
		require.NotNil(t, entry.Period)
		assert.True(t, period.Equal(*entry.Period))
		assert.NotContains(t, entry.Description, "(Past)")
	})

	t.Run("backfill entry is a plain insert", func(t *testing.T) {
		entry, err := NewEMIEntry(loan, period, due, true)
		require.NoError(t, err)
		assert.Empty(t, entry.EntryKey)
		assert.Contains(t, entry.Description, "(Past)")
	})
}

func TestNewSIPEntry(t *testing.T) {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	inv := newTestInvestment(t, InvestmentTypePPF, 50000, 5000, 7.1, start)
	period := Period{2026, time.June}

	entry, err := NewSIPEntry(inv, period, period.DueDate(10))
	require.NoError(t, err)
	assert.Equal(t, EntryTypeExpense, entry.EntryType)
	assert.Equal(t, CategoryInvestment, entry.Category)
	assert.Equal(t, EntryKey(SourceKindSIP, inv.ID, period), entry.EntryKey)
	assert.True(t, entry.AutoSIP)
}

func TestNewInterestCreditEntry(t *testing.T) {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	inv := newTestInvestment(t, InvestmentTypeFD, 100000, 0, 8, start)
	credit := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)

	entry, err := NewInterestCreditEntry(inv, 2026, valueobject.NewMoneyINRFromFloat(8000), credit)
	require.NoError(t, err)
	assert.Equal(t, EntryTypeInterestCredit, entry.EntryType)
	// gated by lastInterestPaidYear alone, never keyed
	assert.Empty(t, entry.EntryKey)
	assert.False(t, entry.EntryType.AffectsCashBalance())
}

func TestNewRecurringEntry(t *testing.T) {
	period := Period{2026, time.June}

	t.Run("income maps to salary", func(t *testing.T) {
		item := newTestRecurringItem(t, RecurringTypeIncome, 50000, 1)
		entry, err := NewRecurringEntry(item, period, period.DueDate(1))
		require.NoError(t, err)
		assert.Equal(t, EntryTypeIncome, entry.EntryType)
		assert.Equal(t, CategorySalary, entry.Category)
		assert.Equal(t, EntryKey(SourceKindRecurring, item.ID, period), entry.EntryKey)
	})

	t.Run("expense maps to utilities", func(t *testing.T) {
		item := newTestRecurringItem(t, RecurringTypeExpense, 1200, 5)
		entry, err := NewRecurringEntry(item, period, period.DueDate(5))
		require.NoError(t, err)
		assert.Equal(t, EntryTypeExpense, entry.EntryType)
		assert.Equal(t, CategoryUtilities, entry.Category)
	})
}
