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

// InvestmentService provides application-level investment operations:
// CRUD, the monthly SIP reconciliation pass, and the annual interest
// credit pass
type InvestmentService struct {
	investments finance.InvestmentRepository
	poster      *IdempotentPoster
	publisher   shared.EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewInvestmentService creates a new InvestmentService
func NewInvestmentService(
	investments finance.InvestmentRepository,
	poster *IdempotentPoster,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *InvestmentService {
	return &InvestmentService{
		investments: investments,
		poster:      poster,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock overrides the service clock, for tests
func (s *InvestmentService) WithClock(now func() time.Time) *InvestmentService {
	s.now = now
	return s
}

// CreateInvestmentRequest represents a request to create an investment
type CreateInvestmentRequest struct {
	Name           string          `json:"name" binding:"required"`
	InvestmentType string          `json:"investment_type" binding:"required"`
	InvestedAmount decimal.Decimal `json:"invested_amount"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	StartDate      time.Time       `json:"start_date" binding:"required"`
	SIPAmount      decimal.Decimal `json:"sip_amount"`
	SIPDay         int             `json:"sip_day"`
}

// UpdateInvestmentValueRequest represents a manual current-value update
type UpdateInvestmentValueRequest struct {
	CurrentValue decimal.Decimal `json:"current_value" binding:"required"`
}

// InvestmentResponse represents an investment in API responses
type InvestmentResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	InvestmentType       string          `json:"investment_type"`
	InvestedAmount       decimal.Decimal `json:"invested_amount"`
	CurrentValue         decimal.Decimal `json:"current_value"`
	InterestRate         decimal.Decimal `json:"interest_rate"`
	StartDate            time.Time       `json:"start_date"`
	SIPAmount            decimal.Decimal `json:"sip_amount"`
	SIPDay               int             `json:"sip_day,omitempty"`
	LastSIPPaidPeriod    string          `json:"last_sip_paid_period,omitempty"`
	LastInterestPaidYear int             `json:"last_interest_paid_year,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func toInvestmentResponse(inv *finance.Investment) *InvestmentResponse {
	resp := &InvestmentResponse{
		ID:                   inv.ID,
		Name:                 inv.Name,
		InvestmentType:       inv.InvestmentType.String(),
		InvestedAmount:       inv.InvestedAmount,
		CurrentValue:         inv.CurrentValue,
		InterestRate:         inv.InterestRate,
		StartDate:            inv.StartDate,
		SIPAmount:            inv.SIPAmount,
		SIPDay:               inv.SIPDay,
		LastInterestPaidYear: inv.LastInterestPaidYear,
		CreatedAt:            inv.CreatedAt,
		UpdatedAt:            inv.UpdatedAt,
	}
	if inv.LastSIPPaidPeriod != nil {
		resp.LastSIPPaidPeriod = inv.LastSIPPaidPeriod.String()
	}
	return resp
}

// CreateInvestment creates an investment
func (s *InvestmentService) CreateInvestment(ctx context.Context, ownerID uuid.UUID, req CreateInvestmentRequest) (*InvestmentResponse, error) {
	invType := finance.InvestmentType(req.InvestmentType)
	if !invType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVESTMENT_TYPE", "Investment type is not valid")
	}
	inv, err := finance.NewInvestment(
		ownerID,
		req.Name,
		invType,
		valueobject.NewMoneyINR(req.InvestedAmount),
		req.InterestRate,
		req.StartDate,
		valueobject.NewMoneyINR(req.SIPAmount),
		req.SIPDay,
	)
	if err != nil {
		return nil, err
	}
	if err := s.investments.Save(ctx, inv); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.publisher, s.logger, inv)
	return toInvestmentResponse(inv), nil
}

// GetInvestment returns an investment owned by the given user
func (s *InvestmentService) GetInvestment(ctx context.Context, ownerID, id uuid.UUID) (*InvestmentResponse, error) {
	inv, err := s.investments.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return toInvestmentResponse(inv), nil
}

// ListInvestments returns all investments owned by the given user
func (s *InvestmentService) ListInvestments(ctx context.Context, ownerID uuid.UUID) ([]InvestmentResponse, error) {
	invs, err := s.investments.FindAllForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	responses := make([]InvestmentResponse, len(invs))
	for i := range invs {
		responses[i] = *toInvestmentResponse(&invs[i])
	}
	return responses, nil
}

// UpdateInvestmentValue applies a manual current-value update
func (s *InvestmentService) UpdateInvestmentValue(ctx context.Context, ownerID, id uuid.UUID, req UpdateInvestmentValueRequest) (*InvestmentResponse, error) {
	inv, err := s.investments.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := inv.UpdateCurrentValue(valueobject.NewMoneyINR(req.CurrentValue)); err != nil {
		return nil, err
	}
	if err := s.investments.Save(ctx, inv); err != nil {
		return nil, err
	}
	return toInvestmentResponse(inv), nil
}

// DeleteInvestment removes an investment owned by the given user
func (s *InvestmentService) DeleteInvestment(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.investments.DeleteForOwner(ctx, ownerID, id)
}

// ProcessDueSIPs runs one SIP reconciliation pass over every investment.
// Due contributions post through the idempotent path before the
// investment state advances; a failing investment is logged and skipped
// so the next pass retries it.
func (s *InvestmentService) ProcessDueSIPs(ctx context.Context) PassResult {
	var result PassResult
	today := s.now()
	period := finance.PeriodOf(today)

	invs, err := s.investments.FindAll(ctx)
	if err != nil {
		s.logger.Error("loading investments failed", zap.Error(err))
		result.Failed++
		return result
	}

	for i := range invs {
		inv := &invs[i]
		if !inv.IsSIPDue(today) {
			continue
		}
		if err := s.postSIP(ctx, inv, period); err != nil {
			s.logger.Error("sip posting failed",
				zap.String("investment_id", inv.ID.String()),
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

func (s *InvestmentService) postSIP(ctx context.Context, inv *finance.Investment, period finance.Period) error {
	entry, err := finance.NewSIPEntry(inv, period, period.DueDate(inv.SIPDay))
	if err != nil {
		return err
	}
	if !s.poster.PostOnce(ctx, entry) {
		return shared.NewDomainError("POST_FAILED", "SIP ledger write failed")
	}
	s.poster.CleanupDuplicates(ctx, finance.SourceKindSIP, entry)

	if err := inv.ApplySIP(period); err != nil {
		return err
	}
	if err := s.investments.Save(ctx, inv); err != nil {
		return err
	}
	publishEvents(ctx, s.publisher, s.logger, inv)
	publishEvents(ctx, s.publisher, s.logger, entry)
	return nil
}

// ProcessDueInterest runs the annual interest pass: every PPF/PF/FD
// investment whose most recently closed financial year has not been
// credited gets a compound interest credit on its current value. The
// credit entry carries no idempotency key; lastInterestPaidYear alone
// gates re-entry.
func (s *InvestmentService) ProcessDueInterest(ctx context.Context) PassResult {
	var result PassResult
	today := s.now()

	invs, err := s.investments.FindAll(ctx)
	if err != nil {
		s.logger.Error("loading investments failed", zap.Error(err))
		result.Failed++
		return result
	}

	for i := range invs {
		inv := &invs[i]
		year, due := inv.InterestDue(today)
		if !due {
			continue
		}
		if err := s.creditInterest(ctx, inv, year, today); err != nil {
			s.logger.Error("interest credit failed",
				zap.String("investment_id", inv.ID.String()),
				zap.Int("financial_year", year),
				zap.Error(err),
			)
			result.Failed++
			continue
		}
		result.Processed++
	}
	return result
}

func (s *InvestmentService) creditInterest(ctx context.Context, inv *finance.Investment, year int, today time.Time) error {
	interest, err := inv.ApplyInterest(year)
	if err != nil {
		return err
	}
	entry, err := finance.NewInterestCreditEntry(inv, year, interest, today)
	if err != nil {
		return err
	}
	// The gate must persist before the unkeyed credit entry: if the
	// entry write landed first and the investment save failed, the next
	// pass would credit the same year twice.
	if err := s.investments.Save(ctx, inv); err != nil {
		return err
	}
	if err := s.poster.PostUnkeyed(ctx, entry); err != nil {
		return err
	}
	publishEvents(ctx, s.publisher, s.logger, inv)
	publishEvents(ctx, s.publisher, s.logger, entry)
	return nil
}
