package finance

import (
	"context"
	"time"

	"github.com/fintrack/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DashboardService folds the ledger and the obligation collections into
// display totals. The fold is recomputed per request; nothing is cached.
type DashboardService struct {
	entries     finance.LedgerEntryRepository
	loans       finance.LoanRepository
	investments finance.InvestmentRepository
	items       finance.RecurringItemRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	entries finance.LedgerEntryRepository,
	loans finance.LoanRepository,
	investments finance.InvestmentRepository,
	items finance.RecurringItemRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		entries:     entries,
		loans:       loans,
		investments: investments,
		items:       items,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock overrides the service clock, for tests
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// DashboardResponse represents the dashboard in API responses
type DashboardResponse struct {
	TotalIncome       decimal.Decimal `json:"total_income"`
	OtherExpenses     decimal.Decimal `json:"other_expenses"`
	EMISpend          decimal.Decimal `json:"emi_spend"`
	CurrentMonthEMI   decimal.Decimal `json:"current_month_emi"`
	InvestmentOutflow decimal.Decimal `json:"investment_outflow"`
	CashBalance       decimal.Decimal `json:"cash_balance"`

	SpendToday     decimal.Decimal `json:"spend_today"`
	SpendThisWeek  decimal.Decimal `json:"spend_this_week"`
	SpendThisMonth decimal.Decimal `json:"spend_this_month"`
	SpendLastMonth decimal.Decimal `json:"spend_last_month"`
	SavingsDelta   decimal.Decimal `json:"savings_delta"`

	OutstandingDebt      decimal.Decimal `json:"outstanding_debt"`
	InvestmentValue      decimal.Decimal `json:"investment_value"`
	MonthlyRecurringNet  decimal.Decimal `json:"monthly_recurring_net"`
	ActiveLoanCount      int             `json:"active_loan_count"`
	ActiveRecurringCount int             `json:"active_recurring_count"`

	AsOf time.Time `json:"as_of"`
}

// GetDashboard loads the user's full financial state and folds it into
// display totals as of now
func (s *DashboardService) GetDashboard(ctx context.Context, ownerID uuid.UUID) (*DashboardResponse, error) {
	entries, err := s.entries.FindAllForOwner(ctx, ownerID, finance.LedgerEntryFilter{})
	if err != nil {
		return nil, err
	}
	loans, err := s.loans.FindAllForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	investments, err := s.investments.FindAllForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	items, err := s.items.FindAllForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	totals := finance.ComputeDashboard(now, entries, loans, investments, items)
	return &DashboardResponse{
		TotalIncome:          totals.TotalIncome,
		OtherExpenses:        totals.OtherExpenses,
		EMISpend:             totals.EMISpend,
		CurrentMonthEMI:      totals.CurrentMonthEMI,
		InvestmentOutflow:    totals.InvestmentOutflow,
		CashBalance:          totals.CashBalance,
		SpendToday:           totals.SpendToday,
		SpendThisWeek:        totals.SpendThisWeek,
		SpendThisMonth:       totals.SpendThisMonth,
		SpendLastMonth:       totals.SpendLastMonth,
		SavingsDelta:         totals.SavingsDelta,
		OutstandingDebt:      totals.OutstandingDebt,
		InvestmentValue:      totals.InvestmentValue,
		MonthlyRecurringNet:  totals.MonthlyRecurringNet,
		ActiveLoanCount:      totals.ActiveLoanCount,
		ActiveRecurringCount: totals.ActiveRecurringCount,
		AsOf:                 now,
	}, nil
}
