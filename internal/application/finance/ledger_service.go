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

// LedgerService provides application-level operations for manual ledger
// records
type LedgerService struct {
	entries   finance.LedgerEntryRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(entries finance.LedgerEntryRepository, publisher shared.EventPublisher, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		entries:   entries,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateEntryRequest represents a request to record a manual entry
type CreateEntryRequest struct {
	EntryType   string          `json:"entry_type" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	EntryDate   time.Time       `json:"entry_date" binding:"required"`
	Description string          `json:"description"`
}

// ListEntriesRequest represents ledger query filters
type ListEntriesRequest struct {
	EntryType string     `form:"entry_type"`
	Category  string     `form:"category"`
	FromDate  *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"to_date" time_format:"2006-01-02"`
	Limit     int        `form:"limit"`
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID           uuid.UUID       `json:"id"`
	EntryType    string          `json:"entry_type"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	EntryDate    time.Time       `json:"entry_date"`
	Description  string          `json:"description,omitempty"`
	AutoEMI      bool            `json:"auto_emi,omitempty"`
	AutoSIP      bool            `json:"auto_sip,omitempty"`
	Recurring    bool            `json:"recurring,omitempty"`
	LoanID       *uuid.UUID      `json:"loan_id,omitempty"`
	InvestmentID *uuid.UUID      `json:"investment_id,omitempty"`
	RecurringID  *uuid.UUID      `json:"recurring_id,omitempty"`
	Period       string          `json:"period,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toEntryResponse(entry *finance.LedgerEntry) *EntryResponse {
	resp := &EntryResponse{
		ID:           entry.ID,
		EntryType:    entry.EntryType.String(),
		Category:     entry.Category.String(),
		Amount:       entry.Amount,
		EntryDate:    entry.EntryDate,
		Description:  entry.Description,
		AutoEMI:      entry.AutoEMI,
		AutoSIP:      entry.AutoSIP,
		Recurring:    entry.Recurring,
		LoanID:       entry.LoanID,
		InvestmentID: entry.InvestmentID,
		RecurringID:  entry.RecurringID,
		CreatedAt:    entry.CreatedAt,
	}
	if entry.Period != nil {
		resp.Period = entry.Period.String()
	}
	return resp
}

// CreateEntry records a manual income/expense/pending entry
func (s *LedgerService) CreateEntry(ctx context.Context, ownerID uuid.UUID, req CreateEntryRequest) (*EntryResponse, error) {
	entryType := finance.EntryType(req.EntryType)
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Entry type is not valid")
	}
	category := finance.EntryCategory(req.Category)
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Entry category is not valid")
	}
	entry, err := finance.NewManualEntry(ownerID, entryType, category, valueobject.NewMoneyINR(req.Amount), req.EntryDate, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.entries.Save(ctx, entry); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.publisher, s.logger, entry)
	return toEntryResponse(entry), nil
}

// GetEntry returns a ledger entry owned by the given user
func (s *LedgerService) GetEntry(ctx context.Context, ownerID, id uuid.UUID) (*EntryResponse, error) {
	entry, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}
	return toEntryResponse(entry), nil
}

// ListEntries returns the user's ledger entries matching the filters
func (s *LedgerService) ListEntries(ctx context.Context, ownerID uuid.UUID, req ListEntriesRequest) ([]EntryResponse, error) {
	filter := finance.LedgerEntryFilter{
		EntryType: finance.EntryType(req.EntryType),
		Category:  finance.EntryCategory(req.Category),
		FromDate:  req.FromDate,
		ToDate:    req.ToDate,
		Limit:     req.Limit,
	}
	entries, err := s.entries.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = *toEntryResponse(&entries[i])
	}
	return responses, nil
}

// DeleteEntry removes a ledger entry owned by the given user
func (s *LedgerService) DeleteEntry(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.entries.DeleteForOwner(ctx, ownerID, id)
}
