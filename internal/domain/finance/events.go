package finance

import (
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names. The *Changed events double as collection-change
// notifications consumed by the reconciler.
const (
	EventLedgerEntryPosted          = "LedgerEntryPosted"
	EventLoanCreated                = "LoanCreated"
	EventLoanEMIPosted              = "LoanEMIPosted"
	EventLoanCompleted              = "LoanCompleted"
	EventInvestmentCreated          = "InvestmentCreated"
	EventInvestmentSIPPosted        = "InvestmentSIPPosted"
	EventInvestmentInterestCredited = "InvestmentInterestCredited"
	EventRecurringItemCreated       = "RecurringItemCreated"
	EventRecurringItemProcessed     = "RecurringItemProcessed"
	EventRecurringItemDeactivated   = "RecurringItemDeactivated"
)

// LedgerEntryPostedEvent is raised when any ledger entry is written
type LedgerEntryPostedEvent struct {
	shared.BaseDomainEvent
	EntryID   uuid.UUID       `json:"entry_id"`
	EntryKey  string          `json:"entry_key,omitempty"`
	EntryType EntryType       `json:"entry_type"`
	Category  EntryCategory   `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	EntryDate time.Time       `json:"entry_date"`
}

// EventType returns the event type name
func (e *LedgerEntryPostedEvent) EventType() string {
	return EventLedgerEntryPosted
}

// NewLedgerEntryPostedEvent creates a new LedgerEntryPostedEvent
func NewLedgerEntryPostedEvent(entry *LedgerEntry) *LedgerEntryPostedEvent {
	return &LedgerEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventLedgerEntryPosted, "LedgerEntry", entry.ID, entry.OwnerID),
		EntryID:         entry.ID,
		EntryKey:        entry.EntryKey,
		EntryType:       entry.EntryType,
		Category:        entry.Category,
		Amount:          entry.Amount,
		EntryDate:       entry.EntryDate,
	}
}

// LoanCreatedEvent is raised when a new loan is created
type LoanCreatedEvent struct {
	shared.BaseDomainEvent
	LoanID      uuid.UUID       `json:"loan_id"`
	Name        string          `json:"name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	EMIAmount   decimal.Decimal `json:"emi_amount"`
	StartDate   time.Time       `json:"start_date"`
}

// EventType returns the event type name
func (e *LoanCreatedEvent) EventType() string {
	return EventLoanCreated
}

// NewLoanCreatedEvent creates a new LoanCreatedEvent
func NewLoanCreatedEvent(loan *Loan) *LoanCreatedEvent {
	return &LoanCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventLoanCreated, "Loan", loan.ID, loan.OwnerID),
		LoanID:          loan.ID,
		Name:            loan.Name,
		TotalAmount:     loan.TotalAmount,
		EMIAmount:       loan.EMIAmount,
		StartDate:       loan.StartDate,
	}
}

// LoanEMIPostedEvent is raised when an EMI amortization step is applied
type LoanEMIPostedEvent struct {
	shared.BaseDomainEvent
	LoanID           uuid.UUID       `json:"loan_id"`
	Period           string          `json:"period"`
	Interest         decimal.Decimal `json:"interest"`
	Principal        decimal.Decimal `json:"principal"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// EventType returns the event type name
func (e *LoanEMIPostedEvent) EventType() string {
	return EventLoanEMIPosted
}

// NewLoanEMIPostedEvent creates a new LoanEMIPostedEvent
func NewLoanEMIPostedEvent(loan *Loan, step AmortizationStep) *LoanEMIPostedEvent {
	return &LoanEMIPostedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventLoanEMIPosted, "Loan", loan.ID, loan.OwnerID),
		LoanID:           loan.ID,
		Period:           step.Period.String(),
		Interest:         step.Interest,
		Principal:        step.Principal,
		RemainingBalance: step.Balance,
	}
}

// LoanCompletedEvent is raised when a loan's balance reaches zero
type LoanCompletedEvent struct {
	shared.BaseDomainEvent
	LoanID            uuid.UUID       `json:"loan_id"`
	Name              string          `json:"name"`
	TotalInterestPaid decimal.Decimal `json:"total_interest_paid"`
}

// EventType returns the event type name
func (e *LoanCompletedEvent) EventType() string {
	return EventLoanCompleted
}

// NewLoanCompletedEvent creates a new LoanCompletedEvent
func NewLoanCompletedEvent(loan *Loan) *LoanCompletedEvent {
	return &LoanCompletedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventLoanCompleted, "Loan", loan.ID, loan.OwnerID),
		LoanID:            loan.ID,
		Name:              loan.Name,
		TotalInterestPaid: loan.TotalInterestPaid,
	}
}

// InvestmentCreatedEvent is raised when a new investment is created
type InvestmentCreatedEvent struct {
	shared.BaseDomainEvent
	InvestmentID   uuid.UUID       `json:"investment_id"`
	Name           string          `json:"name"`
	InvestmentType InvestmentType  `json:"investment_type"`
	InvestedAmount decimal.Decimal `json:"invested_amount"`
}

// EventType returns the event type name
func (e *InvestmentCreatedEvent) EventType() string {
	return EventInvestmentCreated
}

// NewInvestmentCreatedEvent creates a new InvestmentCreatedEvent
func NewInvestmentCreatedEvent(inv *Investment) *InvestmentCreatedEvent {
	return &InvestmentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvestmentCreated, "Investment", inv.ID, inv.OwnerID),
		InvestmentID:    inv.ID,
		Name:            inv.Name,
		InvestmentType:  inv.InvestmentType,
		InvestedAmount:  inv.InvestedAmount,
	}
}

// InvestmentSIPPostedEvent is raised when a SIP contribution is applied
type InvestmentSIPPostedEvent struct {
	shared.BaseDomainEvent
	InvestmentID uuid.UUID       `json:"investment_id"`
	Period       string          `json:"period"`
	SIPAmount    decimal.Decimal `json:"sip_amount"`
	CurrentValue decimal.Decimal `json:"current_value"`
}

// EventType returns the event type name
func (e *InvestmentSIPPostedEvent) EventType() string {
	return EventInvestmentSIPPosted
}

// NewInvestmentSIPPostedEvent creates a new InvestmentSIPPostedEvent
func NewInvestmentSIPPostedEvent(inv *Investment, period Period) *InvestmentSIPPostedEvent {
	return &InvestmentSIPPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvestmentSIPPosted, "Investment", inv.ID, inv.OwnerID),
		InvestmentID:    inv.ID,
		Period:          period.String(),
		SIPAmount:       inv.SIPAmount,
		CurrentValue:    inv.CurrentValue,
	}
}

// InvestmentInterestCreditedEvent is raised when annual interest is credited
type InvestmentInterestCreditedEvent struct {
	shared.BaseDomainEvent
	InvestmentID  uuid.UUID       `json:"investment_id"`
	FinancialYear int             `json:"financial_year"`
	Interest      decimal.Decimal `json:"interest"`
	CurrentValue  decimal.Decimal `json:"current_value"`
}

// EventType returns the event type name
func (e *InvestmentInterestCreditedEvent) EventType() string {
	return EventInvestmentInterestCredited
}

// NewInvestmentInterestCreditedEvent creates a new InvestmentInterestCreditedEvent
func NewInvestmentInterestCreditedEvent(inv *Investment, financialYear int, interest decimal.Decimal) *InvestmentInterestCreditedEvent {
	return &InvestmentInterestCreditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvestmentInterestCredited, "Investment", inv.ID, inv.OwnerID),
		InvestmentID:    inv.ID,
		FinancialYear:   financialYear,
		Interest:        interest,
		CurrentValue:    inv.CurrentValue,
	}
}

// RecurringItemCreatedEvent is raised when a recurring template is created
type RecurringItemCreatedEvent struct {
	shared.BaseDomainEvent
	ItemID   uuid.UUID       `json:"item_id"`
	Name     string          `json:"name"`
	ItemType RecurringType   `json:"item_type"`
	Amount   decimal.Decimal `json:"amount"`
	Day      int             `json:"day"`
}

// EventType returns the event type name
func (e *RecurringItemCreatedEvent) EventType() string {
	return EventRecurringItemCreated
}

// NewRecurringItemCreatedEvent creates a new RecurringItemCreatedEvent
func NewRecurringItemCreatedEvent(item *RecurringItem) *RecurringItemCreatedEvent {
	return &RecurringItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventRecurringItemCreated, "RecurringItem", item.ID, item.OwnerID),
		ItemID:          item.ID,
		Name:            item.Name,
		ItemType:        item.ItemType,
		Amount:          item.Amount,
		Day:             item.Day,
	}
}

// RecurringItemProcessedEvent is raised when a recurring template posts
type RecurringItemProcessedEvent struct {
	shared.BaseDomainEvent
	ItemID uuid.UUID       `json:"item_id"`
	Period string          `json:"period"`
	Amount decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *RecurringItemProcessedEvent) EventType() string {
	return EventRecurringItemProcessed
}

// NewRecurringItemProcessedEvent creates a new RecurringItemProcessedEvent
func NewRecurringItemProcessedEvent(item *RecurringItem, period Period) *RecurringItemProcessedEvent {
	return &RecurringItemProcessedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventRecurringItemProcessed, "RecurringItem", item.ID, item.OwnerID),
		ItemID:          item.ID,
		Period:          period.String(),
		Amount:          item.Amount,
	}
}

// RecurringItemDeactivatedEvent is raised when a template is deactivated
type RecurringItemDeactivatedEvent struct {
	shared.BaseDomainEvent
	ItemID uuid.UUID `json:"item_id"`
	Name   string    `json:"name"`
}

// EventType returns the event type name
func (e *RecurringItemDeactivatedEvent) EventType() string {
	return EventRecurringItemDeactivated
}

// NewRecurringItemDeactivatedEvent creates a new RecurringItemDeactivatedEvent
func NewRecurringItemDeactivatedEvent(item *RecurringItem) *RecurringItemDeactivatedEvent {
	return &RecurringItemDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventRecurringItemDeactivated, "RecurringItem", item.ID, item.OwnerID),
		ItemID:          item.ID,
		Name:            item.Name,
	}
}
