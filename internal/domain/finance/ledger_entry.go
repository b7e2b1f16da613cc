package finance

import (
	"fmt"
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType represents the kind of ledger entry
type EntryType string

const (
	EntryTypeIncome         EntryType = "INCOME"
	EntryTypeExpense        EntryType = "EXPENSE"
	EntryTypePending        EntryType = "PENDING"         // Not yet settled, excluded from cash balance
	EntryTypeInterestCredit EntryType = "INTEREST_CREDIT" // Non-liquid investment growth, excluded from cash balance
)

// IsValid checks if the entry type is valid
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeIncome, EntryTypeExpense, EntryTypePending, EntryTypeInterestCredit:
		return true
	}
	return false
}

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// AffectsCashBalance returns true if entries of this type move liquid cash
func (t EntryType) AffectsCashBalance() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// EntryCategory represents the spending/income category of a ledger entry
type EntryCategory string

const (
	CategorySalary        EntryCategory = "SALARY"
	CategoryUtilities     EntryCategory = "UTILITIES"
	CategoryFood          EntryCategory = "FOOD"
	CategoryTransport     EntryCategory = "TRANSPORT"
	CategoryHealth        EntryCategory = "HEALTH"
	CategoryEntertainment EntryCategory = "ENTERTAINMENT"
	CategoryLoan          EntryCategory = "LOAN"
	CategoryInvestment    EntryCategory = "INVESTMENT"
	CategoryOther         EntryCategory = "OTHER"
)

// IsValid checks if the category is valid
func (c EntryCategory) IsValid() bool {
	switch c {
	case CategorySalary, CategoryUtilities, CategoryFood, CategoryTransport,
		CategoryHealth, CategoryEntertainment, CategoryLoan, CategoryInvestment,
		CategoryOther:
		return true
	}
	return false
}

// String returns the string representation of EntryCategory
func (c EntryCategory) String() string {
	return string(c)
}

// SourceKind identifies which obligation collection produced an
// auto-posted ledger entry. It is the <kind> prefix of the entry key.
type SourceKind string

const (
	SourceKindEMI       SourceKind = "emi"
	SourceKindSIP       SourceKind = "sip"
	SourceKindRecurring SourceKind = "rec"
)

// IsValid checks if the source kind is valid
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceKindEMI, SourceKindSIP, SourceKindRecurring:
		return true
	}
	return false
}

// EntryKey builds the synthetic idempotency key "<kind>_<sourceID>_<period>".
// The key doubles as the entry's store identity: writing with
// create-or-replace semantics on it makes re-entrant posting safe.
func EntryKey(kind SourceKind, sourceID uuid.UUID, period Period) string {
	return fmt.Sprintf("%s_%s_%s", kind, sourceID, period)
}

// LedgerEntry is a single ledger record. It is write-once: nothing mutates
// an entry after creation except explicit user deletion or the idempotent
// poster's duplicate cleanup.
type LedgerEntry struct {
	shared.OwnedAggregateRoot
	EntryKey     string // idempotency key, empty for manual and backfill entries
	EntryType    EntryType
	Category     EntryCategory
	Amount       decimal.Decimal
	EntryDate    time.Time
	Description  string
	AutoEMI      bool
	AutoSIP      bool
	Recurring    bool
	LoanID       *uuid.UUID
	InvestmentID *uuid.UUID
	RecurringID  *uuid.UUID
	Period       *Period // due period for auto-posted entries
}

func newLedgerEntry(ownerID uuid.UUID, entryType EntryType, category EntryCategory, amount valueobject.Money, date time.Time, description string) (*LedgerEntry, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Entry type is not valid")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Entry category is not valid")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Entry amount must be positive")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Entry date cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	return &LedgerEntry{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		EntryType:          entryType,
		Category:           category,
		Amount:             amount.Amount(),
		EntryDate:          date,
		Description:        description,
	}, nil
}

// NewManualEntry creates a user-entered income/expense/pending entry
func NewManualEntry(ownerID uuid.UUID, entryType EntryType, category EntryCategory, amount valueobject.Money, date time.Time, description string) (*LedgerEntry, error) {
	if entryType == EntryTypeInterestCredit {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Interest credits can only be posted by the investment processor")
	}
	entry, err := newLedgerEntry(ownerID, entryType, category, amount, date, description)
	if err != nil {
		return nil, err
	}
	entry.AddDomainEvent(NewLedgerEntryPostedEvent(entry))
	return entry, nil
}

// NewEMIEntry creates an EMI expense entry for a loan due period.
// Backfilled historical entries are tagged "(Past)" and carry no entry
// key: they are one-time inserts at loan creation, not re-entrant posts.
func NewEMIEntry(loan *Loan, period Period, dueDate time.Time, backfill bool) (*LedgerEntry, error) {
	description := fmt.Sprintf("EMI - %s", loan.Name)
	if backfill {
		description = fmt.Sprintf("EMI - %s (Past)", loan.Name)
	}
	entry, err := newLedgerEntry(loan.OwnerID, EntryTypeExpense, CategoryLoan, valueobject.NewMoneyINR(loan.EMIAmount), dueDate, description)
	if err != nil {
		return nil, err
	}
	entry.AutoEMI = true
	entry.LoanID = &loan.ID
	entry.Period = &period
	if !backfill {
		entry.EntryKey = EntryKey(SourceKindEMI, loan.ID, period)
	}
	entry.AddDomainEvent(NewLedgerEntryPostedEvent(entry))
	return entry, nil
}

// NewSIPEntry creates a SIP contribution expense entry for an investment
func NewSIPEntry(inv *Investment, period Period, dueDate time.Time) (*LedgerEntry, error) {
	description := fmt.Sprintf("SIP - %s", inv.Name)
	entry, err := newLedgerEntry(inv.OwnerID, EntryTypeExpense, CategoryInvestment, valueobject.NewMoneyINR(inv.SIPAmount), dueDate, description)
	if err != nil {
		return nil, err
	}
	entry.AutoSIP = true
	entry.InvestmentID = &inv.ID
	entry.Period = &period
	entry.EntryKey = EntryKey(SourceKindSIP, inv.ID, period)
	entry.AddDomainEvent(NewLedgerEntryPostedEvent(entry))
	return entry, nil
}

// NewInterestCreditEntry creates the annual interest credit entry for a
// PPF/PF/FD investment. Interest is not liquid cash, so the entry type is
// excluded from the cash-balance reducer. The interest cycle is gated by
// the investment's lastInterestPaidYear alone, so the entry carries no
// idempotency key.
func NewInterestCreditEntry(inv *Investment, financialYear int, amount valueobject.Money, creditDate time.Time) (*LedgerEntry, error) {
	description := fmt.Sprintf("Interest - %s (FY %d-%d)", inv.Name, financialYear, financialYear+1)
	entry, err := newLedgerEntry(inv.OwnerID, EntryTypeInterestCredit, CategoryInvestment, amount, creditDate, description)
	if err != nil {
		return nil, err
	}
	entry.InvestmentID = &inv.ID
	entry.AddDomainEvent(NewLedgerEntryPostedEvent(entry))
	return entry, nil
}

// NewRecurringEntry creates the periodic entry for a recurring template
func NewRecurringEntry(item *RecurringItem, period Period, dueDate time.Time) (*LedgerEntry, error) {
	entryType := EntryTypeExpense
	category := CategoryUtilities
	if item.ItemType == RecurringTypeIncome {
		entryType = EntryTypeIncome
		category = CategorySalary
	}
	entry, err := newLedgerEntry(item.OwnerID, entryType, category, valueobject.NewMoneyINR(item.Amount), dueDate, item.Name)
	if err != nil {
		return nil, err
	}
	entry.Recurring = true
	entry.RecurringID = &item.ID
	entry.Period = &period
	entry.EntryKey = EntryKey(SourceKindRecurring, item.ID, period)
	entry.AddDomainEvent(NewLedgerEntryPostedEvent(entry))
	return entry, nil
}

// GetAmountMoney returns the amount as a Money value object
func (e *LedgerEntry) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyINR(e.Amount)
}

// SourceID returns the obligation document this entry was posted for,
// or nil for manual entries
func (e *LedgerEntry) SourceID() *uuid.UUID {
	switch {
	case e.LoanID != nil:
		return e.LoanID
	case e.InvestmentID != nil:
		return e.InvestmentID
	case e.RecurringID != nil:
		return e.RecurringID
	}
	return nil
}
