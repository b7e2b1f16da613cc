package finance

import (
	"context"
	"time"

	"github.com/fintrack/backend/internal/domain/finance"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LoanService provides application-level loan operations: creation with
// historical EMI backfill, queries, and the live EMI reconciliation pass
type LoanService struct {
	loans       finance.LoanRepository
	entries     finance.LedgerEntryRepository
	poster      *IdempotentPoster
	publisher   shared.EventPublisher
	logger      *zap.Logger
	backfillCap int
	now         func() time.Time
}

// NewLoanService creates a new LoanService
func NewLoanService(
	loans finance.LoanRepository,
	entries finance.LedgerEntryRepository,
	poster *IdempotentPoster,
	publisher shared.EventPublisher,
	logger *zap.Logger,
	backfillCap int,
) *LoanService {
	return &LoanService{
		loans:       loans,
		entries:     entries,
		poster:      poster,
		publisher:   publisher,
		logger:      logger,
		backfillCap: backfillCap,
		now:         time.Now,
	}
}

// WithClock overrides the service clock, for tests
func (s *LoanService) WithClock(now func() time.Time) *LoanService {
	s.now = now
	return s
}

// CreateLoanRequest represents a request to create a loan
type CreateLoanRequest struct {
	Name         string          `json:"name" binding:"required"`
	TotalAmount  decimal.Decimal `json:"total_amount" binding:"required"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TenureMonths int             `json:"tenure_months" binding:"required,min=1"`
	EMIAmount    decimal.Decimal `json:"emi_amount" binding:"required"`
	EMIDay       int             `json:"emi_day" binding:"required,min=1,max=31"`
	StartDate    time.Time       `json:"start_date" binding:"required"`
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	TenureMonths       int             `json:"tenure_months"`
	EMIAmount          decimal.Decimal `json:"emi_amount"`
	EMIDay             int             `json:"emi_day"`
	StartDate          time.Time       `json:"start_date"`
	RemainingBalance   decimal.Decimal `json:"remaining_balance"`
	LastEMIPaidPeriod  string          `json:"last_emi_paid_period,omitempty"`
	TotalInterestPaid  decimal.Decimal `json:"total_interest_paid"`
	TotalPrincipalPaid decimal.Decimal `json:"total_principal_paid"`
	Status             string          `json:"status"`
	BackfilledMonths   int             `json:"backfilled_months,omitempty"`
	BackfillTruncated  bool            `json:"backfill_truncated,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func toLoanResponse(loan *finance.Loan) *LoanResponse {
	resp := &LoanResponse{
		ID:                 loan.ID,
		Name:               loan.Name,
		TotalAmount:        loan.TotalAmount,
		InterestRate:       loan.InterestRate,
		TenureMonths:       loan.TenureMonths,
		EMIAmount:          loan.EMIAmount,
		EMIDay:             loan.EMIDay,
		StartDate:          loan.StartDate,
		RemainingBalance:   loan.RemainingBalance,
		TotalInterestPaid:  loan.TotalInterestPaid,
		TotalPrincipalPaid: loan.TotalPrincipalPaid,
		Status:             loan.Status.String(),
		CreatedAt:          loan.CreatedAt,
		UpdatedAt:          loan.UpdatedAt,
	}
	if loan.LastEMIPaidPeriod != nil {
		resp.LastEMIPaidPeriod = loan.LastEMIPaidPeriod.String()
	}
	return resp
}

// CreateLoan creates a loan and backfills one historical EMI ledger
// entry per due period between the start date and now. The backfill is
// a one-time insert at creation, not the re-entrant keyed path: the
// entries carry no idempotency key.
func (s *LoanService) CreateLoan(ctx context.Context, ownerID uuid.UUID, req CreateLoanRequest) (*LoanResponse, error) {
	loan, err := finance.NewLoan(
		ownerID,
		req.Name,
		valueobject.NewMoneyINR(req.TotalAmount),
		req.InterestRate,
		req.TenureMonths,
		valueobject.NewMoneyINR(req.EMIAmount),
		req.EMIDay,
		req.StartDate,
	)
	if err != nil {
		return nil, err
	}

	now := s.now()
	schedule := finance.BuildBackfillSchedule(
		loan.TotalAmount, loan.EMIAmount, loan.InterestRate,
		loan.EMIDay, loan.StartDate, now, s.backfillCap,
	)
	if schedule.Truncated {
		s.logger.Warn("loan backfill truncated at iteration cap",
			zap.String("loan_id", loan.ID.String()),
			zap.Int("cap_months", s.backfillCap),
			zap.Time("start_date", loan.StartDate),
		)
	}

	backfill := make([]*finance.LedgerEntry, 0, len(schedule.Steps))
	for _, step := range schedule.Steps {
		entry, err := finance.NewEMIEntry(loan, step.Period, step.DueDate, true)
		if err != nil {
			return nil, err
		}
		backfill = append(backfill, entry)
	}
	loan.ApplyBackfill(schedule)

	if err := s.loans.Save(ctx, loan); err != nil {
		return nil, err
	}
	if len(backfill) > 0 {
		if err := s.entries.SaveBatch(ctx, backfill); err != nil {
			return nil, err
		}
	}
	publishEvents(ctx, s.publisher, s.logger, loan)
	for _, entry := range backfill {
		publishEvents(ctx, s.publisher, s.logger, entry)
	}

	resp := toLoanResponse(loan)
	resp.BackfilledMonths = len(schedule.Steps)
	resp.BackfillTruncated = schedule.Truncated
	return resp, nil
}

// GetLoan returns a loan owned by the given user
func (s *LoanService) GetLoan(ctx context.Context, ownerID, id uuid.UUID) (*LoanResponse, error) {
	loan, err := s.loans.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return toLoanResponse(loan), nil
}

// ListLoans returns all loans owned by the given user
func (s *LoanService) ListLoans(ctx context.Context, ownerID uuid.UUID) ([]LoanResponse, error) {
	loans, err := s.loans.FindAllForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	responses := make([]LoanResponse, len(loans))
	for i := range loans {
		responses[i] = *toLoanResponse(&loans[i])
	}
	return responses, nil
}

// DeleteLoan removes a loan owned by the given user
func (s *LoanService) DeleteLoan(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.loans.DeleteForOwner(ctx, ownerID, id)
}

// ProcessDueEMIs runs one EMI reconciliation pass over every active
// loan. Each due loan posts its EMI through the idempotent path, runs
// duplicate cleanup, then advances its amortization state. A failing
// loan is logged and skipped; its gating period stays put, so the next
// pass retries it.
func (s *LoanService) ProcessDueEMIs(ctx context.Context) PassResult {
	var result PassResult
	today := s.now()
	period := finance.PeriodOf(today)

	loans, err := s.loans.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("loading active loans failed", zap.Error(err))
		result.Failed++
		return result
	}

	for i := range loans {
		loan := &loans[i]
		if !loan.IsEMIDue(today) {
			continue
		}
		if err := s.postEMI(ctx, loan, period); err != nil {
			s.logger.Error("emi posting failed",
				zap.String("loan_id", loan.ID.String()),
				zap.String("period", period.String()),
				zap.Error(err),
			)
			result.Failed++
			continue
		}
		result.Processed++
	}
	return result
}

func (s *LoanService) postEMI(ctx context.Context, loan *finance.Loan, period finance.Period) error {
	entry, err := finance.NewEMIEntry(loan, period, period.DueDate(loan.EMIDay), false)
	if err != nil {
		return err
	}
	if !s.poster.PostOnce(ctx, entry) {
		return shared.NewDomainError("POST_FAILED", "EMI ledger write failed")
	}
	s.poster.CleanupDuplicates(ctx, finance.SourceKindEMI, entry)

	if _, err := loan.ApplyEMI(period); err != nil {
		return err
	}
	if err := s.loans.Save(ctx, loan); err != nil {
		return err
	}
	publishEvents(ctx, s.publisher, s.logger, loan)
	publishEvents(ctx, s.publisher, s.logger, entry)
	return nil
}
