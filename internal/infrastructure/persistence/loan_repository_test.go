package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/fintrack/backend/internal/domain/finance"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormLoanRepository_SaveAndFind(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormLoanRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("round-trips a loan including the paid period", func(t *testing.T) {
		loan := newTestLoan(t, ownerID)
		period := finance.Period{Year: 2026, Month: time.September}
		_, err := loan.ApplyEMI(period)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, loan))

		found, err := repo.FindByIDForOwner(ctx, ownerID, loan.ID)
		require.NoError(t, err)
		assert.Equal(t, "Car Loan", found.Name)
		assert.True(t, found.RemainingBalance.Equal(loan.RemainingBalance))
		assert.True(t, found.TotalInterestPaid.Equal(loan.TotalInterestPaid))
		require.NotNil(t, found.LastEMIPaidPeriod)
		assert.True(t, found.LastEMIPaidPeriod.Equal(period))
		assert.Equal(t, finance.LoanStatusActive, found.Status)
	})

	t.Run("refuses another user's loan", func(t *testing.T) {
		loan := newTestLoan(t, ownerID)
		require.NoError(t, repo.Save(ctx, loan))

		_, err := repo.FindByIDForOwner(ctx, uuid.New(), loan.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("save updates in place", func(t *testing.T) {
		loan := newTestLoan(t, ownerID)
		require.NoError(t, repo.Save(ctx, loan))

		_, err := loan.ApplyEMI(finance.Period{Year: 2026, Month: time.September})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, loan))

		found, err := repo.FindByIDForOwner(ctx, ownerID, loan.ID)
		require.NoError(t, err)
		assert.True(t, found.RemainingBalance.Equal(loan.RemainingBalance))
		assert.Equal(t, loan.Version, found.Version)
	})
}

func TestGormLoanRepository_FindAllActive(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormLoanRepository(db)
	ctx := context.Background()

	active := newTestLoan(t, uuid.New())
	require.NoError(t, repo.Save(ctx, active))

	// a small loan one EMI pays off entirely
	completed, err := finance.NewLoan(
		uuid.New(),
		"Phone Loan",
		valueobject.NewMoneyINR(decimal.NewFromInt(5000)),
		decimal.Zero,
		6,
		valueobject.NewMoneyINR(decimal.NewFromInt(6000)),
		5,
		time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	_, err = completed.ApplyEMI(finance.Period{Year: 2026, Month: time.September})
	require.NoError(t, err)
	require.Equal(t, finance.LoanStatusCompleted, completed.Status)
	require.NoError(t, repo.Save(ctx, completed))

	loans, err := repo.FindAllActive(ctx)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, active.ID, loans[0].ID)
}

func TestGormLoanRepository_DeleteForOwner(t *testing.T) {
	db := setupFinanceTestDB(t)
	repo := NewGormLoanRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	loan := newTestLoan(t, ownerID)
	require.NoError(t, repo.Save(ctx, loan))

	assert.ErrorIs(t, repo.DeleteForOwner(ctx, uuid.New(), loan.ID), shared.ErrNotFound)
	require.NoError(t, repo.DeleteForOwner(ctx, ownerID, loan.ID))

	loans, err := repo.FindAllForOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, loans)
}
