package finance

import (
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringType represents the direction of a recurring template
type RecurringType string

const (
	RecurringTypeIncome  RecurringType = "INCOME"
	RecurringTypeExpense RecurringType = "EXPENSE"
)

// IsValid checks if the recurring type is valid
func (t RecurringType) IsValid() bool {
	return t == RecurringTypeIncome || t == RecurringTypeExpense
}

// String returns the string representation of RecurringType
func (t RecurringType) String() string {
	return string(t)
}

// RecurringItem is a generic monthly income/expense template. Once
// deactivated it is permanently excluded from processing; there is no
// reactivation path.
type RecurringItem struct {
	shared.OwnedAggregateRoot
	Name                string
	ItemType            RecurringType
	Amount              decimal.Decimal
	Day                 int // due day-of-month, 1-31
	LastProcessedPeriod *Period
	Active              bool
}

// NewRecurringItem creates a new recurring template
func NewRecurringItem(ownerID uuid.UUID, name string, itemType RecurringType, amount valueobject.Money, day int) (*RecurringItem, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Recurring item name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Recurring item name cannot exceed 100 characters")
	}
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Recurring item type is not valid")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Recurring amount must be positive")
	}
	if day < 1 || day > 31 {
		return nil, shared.NewDomainError("INVALID_DAY", "Due day must be between 1 and 31")
	}
	item := &RecurringItem{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
		ItemType:           itemType,
		Amount:             amount.Amount(),
		Day:                day,
		Active:             true,
	}
	item.AddDomainEvent(NewRecurringItemCreatedEvent(item))
	return item, nil
}

// IsDue reports whether the template should post as of today, with the
// due day clamped to the current month's length
func (r *RecurringItem) IsDue(today time.Time) bool {
	if !r.Active {
		return false
	}
	period := PeriodOf(today)
	if today.Day() < period.ClampDay(r.Day) {
		return false
	}
	return r.LastProcessedPeriod == nil || !r.LastProcessedPeriod.Equal(period)
}

// MarkProcessed advances the processed period after a successful posting.
// The period only moves forward; the same period cannot be marked twice.
func (r *RecurringItem) MarkProcessed(period Period) error {
	if !r.Active {
		return shared.ErrInvalidState
	}
	if r.LastProcessedPeriod != nil && !r.LastProcessedPeriod.Before(period) {
		return shared.NewDomainError("PERIOD_ALREADY_PAID", "Recurring item already processed for this period")
	}
	processed := period
	r.LastProcessedPeriod = &processed
	r.IncrementVersion()
	r.AddDomainEvent(NewRecurringItemProcessedEvent(r, period))
	return nil
}

// Deactivate permanently removes the item from processing
func (r *RecurringItem) Deactivate() error {
	if !r.Active {
		return shared.ErrInvalidState
	}
	r.Active = false
	r.IncrementVersion()
	r.AddDomainEvent(NewRecurringItemDeactivatedEvent(r))
	return nil
}
