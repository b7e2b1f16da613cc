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

// RecurringService provides application-level operations for recurring
// income/expense templates: CRUD, the monthly reconciliation pass, and
// explicit process-now
type RecurringService struct {
	items     finance.RecurringItemRepository
	poster    *IdempotentPoster
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewRecurringService creates a new RecurringService
func NewRecurringService(
	items finance.RecurringItemRepository,
	poster *IdempotentPoster,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *RecurringService {
	return &RecurringService{
		items:     items,
		poster:    poster,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the service clock, for tests
func (s *RecurringService) WithClock(now func() time.Time) *RecurringService {
	s.now = now
	return s
}

// CreateRecurringItemRequest represents a request to create a recurring template
type CreateRecurringItemRequest struct {
	Name     string          `json:"name" binding:"required"`
	ItemType string          `json:"item_type" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Day      int             `json:"day" binding:"required,min=1,max=31"`
	// ProcessNow posts the current period's entry immediately instead of
	// waiting for the next reconciliation pass
	ProcessNow bool `json:"process_now"`
}

// RecurringItemResponse represents a recurring template in API responses
type RecurringItemResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	ItemType            string          `json:"item_type"`
	Amount              decimal.Decimal `json:"amount"`
	Day                 int             `json:"day"`
	LastProcessedPeriod string          `json:"last_processed_period,omitempty"`
	Active              bool            `json:"active"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func toRecurringItemResponse(item *finance.RecurringItem) *RecurringItemResponse {
	resp := &RecurringItemResponse{
		ID:        item.ID,
		Name:      item.Name,
		ItemType:  item.ItemType.String(),
		Amount:    item.Amount,
		Day:       item.Day,
		Active:    item.Active,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.LastProcessedPeriod != nil {
		resp.LastProcessedPeriod = item.LastProcessedPeriod.String()
	}
	return resp
}

// CreateRecurringItem creates a recurring template. With ProcessNow set,
// the current period's ledger entry posts immediately through the
// idempotent path, so a template added after its due day still lands in
// the current month.
func (s *RecurringService) CreateRecurringItem(ctx context.Context, ownerID uuid.UUID, req CreateRecurringItemRequest) (*RecurringItemResponse, error) {
	itemType := finance.RecurringType(req.ItemType)
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Recurring item type is not valid")
	}
	item, err := finance.NewRecurringItem(ownerID, req.Name, itemType, valueobject.NewMoneyINR(req.Amount), req.Day)
	if err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.publisher, s.logger, item)

	if req.ProcessNow {
		if err := s.postItem(ctx, item, finance.PeriodOf(s.now())); err != nil {
			return nil, err
		}
	}
	return toRecurringItemResponse(item), nil
}

// GetRecurringItem returns a recurring template owned by the given user
func (s *RecurringService) GetRecurringItem(ctx context.Context, ownerID, id uuid.UUID) (*RecurringItemResponse, error) {
	item, err := s.items.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return toRecurringItemResponse(item), nil
}

// ListRecurringItems returns all recurring templates owned by the given user
func (s *RecurringService) ListRecurringItems(ctx context.Context, ownerID uuid.UUID) ([]RecurringItemResponse, error) {
	items, err := s.items.FindAllForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	responses := make([]RecurringItemResponse, len(items))
	for i := range items {
		responses[i] = *toRecurringItemResponse(&items[i])
	}
	return responses, nil
}

// ProcessRecurringItem posts the current period's entry for one template
// on demand
func (s *RecurringService) ProcessRecurringItem(ctx context.Context, ownerID, id uuid.UUID) (*RecurringItemResponse, error) {
	item, err := s.items.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.postItem(ctx, item, finance.PeriodOf(s.now())); err != nil {
		return nil, err
	}
	return toRecurringItemResponse(item), nil
}

// DeactivateRecurringItem permanently stops a template from processing
func (s *RecurringService) DeactivateRecurringItem(ctx context.Context, ownerID, id uuid.UUID) (*RecurringItemResponse, error) {
	item, err := s.items.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := item.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.publisher, s.logger, item)
	return toRecurringItemResponse(item), nil
}

// DeleteRecurringItem removes a template owned by the given user
func (s *RecurringService) DeleteRecurringItem(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.items.DeleteForOwner(ctx, ownerID, id)
}

// ProcessDueItems runs one reconciliation pass over every active
// recurring template. A failing item is logged and skipped; its
// processed period stays put, so the next pass retries it.
func (s *RecurringService) ProcessDueItems(ctx context.Context) PassResult {
	var result PassResult
	today := s.now()
	period := finance.PeriodOf(today)

	items, err := s.items.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("loading active recurring items failed", zap.Error(err))
		result.Failed++
		return result
	}

	for i := range items {
		item := &items[i]
		if !item.IsDue(today) {
			continue
		}
		if err := s.postItem(ctx, item, period); err != nil {
			s.logger.Error("recurring posting failed",
				zap.String("item_id", item.ID.String()),
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

func (s *RecurringService) postItem(ctx context.Context, item *finance.RecurringItem, period finance.Period) error {
	entry, err := finance.NewRecurringEntry(item, period, period.DueDate(item.Day))
	if err != nil {
		return err
	}
	if !s.poster.PostOnce(ctx, entry) {
		return shared.NewDomainError("POST_FAILED", "Recurring ledger write failed")
	}
	s.poster.CleanupDuplicates(ctx, finance.SourceKindRecurring, entry)

	if err := item.MarkProcessed(period); err != nil {
		return err
	}
	if err := s.items.Save(ctx, item); err != nil {
		return err
	}
	publishEvents(ctx, s.publisher, s.logger, item)
	publishEvents(ctx, s.publisher, s.logger, entry)
	return nil
}
