package finance

import (
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentType represents the instrument kind
type InvestmentType string

const (
	InvestmentTypePPF   InvestmentType = "PPF"
	InvestmentTypePF    InvestmentType = "PF"
	InvestmentTypeFD    InvestmentType = "FD"
	InvestmentTypeOther InvestmentType = "OTHER"
)

// IsValid checks if the investment type is valid
func (t InvestmentType) IsValid() bool {
	switch t {
	case InvestmentTypePPF, InvestmentTypePF, InvestmentTypeFD, InvestmentTypeOther:
		return true
	}
	return false
}

// String returns the string representation of InvestmentType
func (t InvestmentType) String() string {
	return string(t)
}

// EarnsAnnualInterest returns true for instruments credited compound
// interest on financial-year boundaries
func (t InvestmentType) EarnsAnnualInterest() bool {
	return t == InvestmentTypePPF || t == InvestmentTypePF || t == InvestmentTypeFD
}

// Investment is a SIP/ROI-bearing asset. Its current value only grows:
// via SIP contributions, annual interest credits, or an explicit manual
// value update.
type Investment struct {
	shared.OwnedAggregateRoot
	Name                 string
	InvestmentType       InvestmentType
	InvestedAmount       decimal.Decimal
	CurrentValue         decimal.Decimal
	InterestRate         decimal.Decimal // annual percent, only meaningful for PPF/PF/FD
	StartDate            time.Time
	SIPAmount            decimal.Decimal // zero disables the SIP cycle
	SIPDay               int             // due day-of-month, 1-31
	LastSIPPaidPeriod    *Period
	LastInterestPaidYear int // financial-year label, 0 when never credited
}

// NewInvestment creates a new investment
func NewInvestment(
	ownerID uuid.UUID,
	name string,
	investmentType InvestmentType,
	invested valueobject.Money,
	interestRate decimal.Decimal,
	startDate time.Time,
	sipAmount valueobject.Money,
	sipDay int,
) (*Investment, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INVESTMENT_NAME", "Investment name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_INVESTMENT_NAME", "Investment name cannot exceed 100 characters")
	}
	if !investmentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVESTMENT_TYPE", "Investment type is not valid")
	}
	if invested.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invested amount cannot be negative")
	}
	if interestRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Interest rate cannot be negative")
	}
	if startDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_START_DATE", "Start date cannot be empty")
	}
	if sipAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SIP_AMOUNT", "SIP amount cannot be negative")
	}
	if sipAmount.IsPositive() && (sipDay < 1 || sipDay > 31) {
		return nil, shared.NewDomainError("INVALID_SIP_DAY", "SIP day must be between 1 and 31")
	}

	inv := &Investment{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
		InvestmentType:     investmentType,
		InvestedAmount:     invested.Amount(),
		CurrentValue:       invested.Amount(),
		InterestRate:       interestRate,
		StartDate:          startDate,
		SIPAmount:          sipAmount.Amount(),
		SIPDay:             sipDay,
	}
	inv.AddDomainEvent(NewInvestmentCreatedEvent(inv))
	return inv, nil
}

// IsSIPDue reports whether a SIP contribution should be posted as of
// today, with the due day clamped to the current month's length
func (inv *Investment) IsSIPDue(today time.Time) bool {
	if !inv.SIPAmount.IsPositive() {
		return false
	}
	if inv.StartDate.After(today) {
		return false
	}
	period := PeriodOf(today)
	if today.Day() < period.ClampDay(inv.SIPDay) {
		return false
	}
	return inv.LastSIPPaidPeriod == nil || !inv.LastSIPPaidPeriod.Equal(period)
}

// ApplySIP records one monthly contribution: invested amount and current
// value both rise by the SIP amount 1:1 (growth happens only through the
// interest cycle or manual value updates). The paid period only moves
// forward.
func (inv *Investment) ApplySIP(period Period) error {
	if !inv.SIPAmount.IsPositive() {
		return shared.ErrInvalidState
	}
	if inv.LastSIPPaidPeriod != nil && !inv.LastSIPPaidPeriod.Before(period) {
		return shared.NewDomainError("PERIOD_ALREADY_PAID", "SIP already posted for this period")
	}
	inv.InvestedAmount = inv.InvestedAmount.Add(inv.SIPAmount)
	inv.CurrentValue = inv.CurrentValue.Add(inv.SIPAmount)
	paid := period
	inv.LastSIPPaidPeriod = &paid
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvestmentSIPPostedEvent(inv, period))
	return nil
}

// InterestDue returns the financial year an interest credit is owed for,
// or false when none is due: the instrument must earn annual interest at
// a nonzero rate, and the most recently closed financial year must be
// newer than the last credited one.
func (inv *Investment) InterestDue(today time.Time) (int, bool) {
	if !inv.InvestmentType.EarnsAnnualInterest() || !inv.InterestRate.IsPositive() {
		return 0, false
	}
	passed := LastClosedFinancialYear(today)
	if passed <= inv.LastInterestPaidYear {
		return 0, false
	}
	if inv.StartDate.After(today) {
		return 0, false
	}
	return passed, true
}

// ApplyInterest credits one financial year's compound interest to the
// current value. lastInterestPaidYear is monotonically non-decreasing and
// gates at most one credit per financial year.
func (inv *Investment) ApplyInterest(financialYear int) (valueobject.Money, error) {
	if !inv.InvestmentType.EarnsAnnualInterest() || !inv.InterestRate.IsPositive() {
		return valueobject.ZeroINR(), shared.ErrInvalidState
	}
	if financialYear <= inv.LastInterestPaidYear {
		return valueobject.ZeroINR(), shared.NewDomainError("YEAR_ALREADY_PAID", "Interest already credited for this financial year")
	}
	interest := inv.CurrentValue.Mul(inv.InterestRate).Div(percentBase)
	inv.CurrentValue = inv.CurrentValue.Add(interest)
	inv.LastInterestPaidYear = financialYear
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvestmentInterestCreditedEvent(inv, financialYear, interest))
	return valueobject.NewMoneyINR(interest), nil
}

// UpdateCurrentValue applies an explicit user value update
func (inv *Investment) UpdateCurrentValue(value valueobject.Money) error {
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Current value cannot be negative")
	}
	inv.CurrentValue = value.Amount()
	inv.IncrementVersion()
	return nil
}
