package finance

import (
	"time"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanStatus represents the lifecycle state of a loan
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusCompleted LoanStatus = "COMPLETED" // Terminal; never reverts
)

// IsValid checks if the status is a valid LoanStatus
func (s LoanStatus) IsValid() bool {
	return s == LoanStatusActive || s == LoanStatusCompleted
}

// String returns the string representation of LoanStatus
func (s LoanStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the loan is in a terminal state
func (s LoanStatus) IsTerminal() bool {
	return s == LoanStatusCompleted
}

var (
	monthsPerYear = decimal.NewFromInt(12)
	percentBase   = decimal.NewFromInt(100)
)

// Loan is an amortizing loan tracked by monthly EMI postings
type Loan struct {
	shared.OwnedAggregateRoot
	Name               string
	TotalAmount        decimal.Decimal
	InterestRate       decimal.Decimal // annual rate in percent
	TenureMonths       int
	EMIAmount          decimal.Decimal
	EMIDay             int // due day-of-month, 1-31
	StartDate          time.Time
	RemainingBalance   decimal.Decimal
	LastEMIPaidPeriod  *Period
	TotalInterestPaid  decimal.Decimal
	TotalPrincipalPaid decimal.Decimal
	Status             LoanStatus
}

// NewLoan creates a new loan with an untouched balance. Historical
// backfill and status resolution happen in the application layer via
// BuildBackfillSchedule before the loan is first persisted.
func NewLoan(
	ownerID uuid.UUID,
	name string,
	totalAmount valueobject.Money,
	annualRate decimal.Decimal,
	tenureMonths int,
	emiAmount valueobject.Money,
	emiDay int,
	startDate time.Time,
) (*Loan, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_LOAN_NAME", "Loan name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_LOAN_NAME", "Loan name cannot exceed 100 characters")
	}
	if !totalAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Loan amount must be positive")
	}
	if annualRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Interest rate cannot be negative")
	}
	if tenureMonths < 1 {
		return nil, shared.NewDomainError("INVALID_TENURE", "Tenure must be at least one month")
	}
	if !emiAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_EMI", "EMI amount must be positive")
	}
	if emiDay < 1 || emiDay > 31 {
		return nil, shared.NewDomainError("INVALID_EMI_DAY", "EMI day must be between 1 and 31")
	}
	if startDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_START_DATE", "Start date cannot be empty")
	}

	loan := &Loan{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
		TotalAmount:        totalAmount.Amount(),
		InterestRate:       annualRate,
		TenureMonths:       tenureMonths,
		EMIAmount:          emiAmount.Amount(),
		EMIDay:             emiDay,
		StartDate:          startDate,
		RemainingBalance:   totalAmount.Amount(),
		TotalInterestPaid:  decimal.Zero,
		TotalPrincipalPaid: decimal.Zero,
		Status:             LoanStatusActive,
	}
	loan.AddDomainEvent(NewLoanCreatedEvent(loan))
	return loan, nil
}

// MonthlyRate returns the per-month interest rate as a fraction
// (annual percent / 12 / 100)
func (l *Loan) MonthlyRate() decimal.Decimal {
	return l.InterestRate.Div(monthsPerYear).Div(percentBase)
}

// IsEMIDue reports whether an EMI should be posted as of today: the loan
// is active with balance outstanding, its start date has passed, today
// has reached the due day (clamped to the current month's length), and
// the current period has not been paid yet.
func (l *Loan) IsEMIDue(today time.Time) bool {
	if l.Status != LoanStatusActive || !l.RemainingBalance.IsPositive() {
		return false
	}
	if l.StartDate.After(today) {
		return false
	}
	period := PeriodOf(today)
	if today.Day() < period.ClampDay(l.EMIDay) {
		return false
	}
	return l.LastEMIPaidPeriod == nil || !l.LastEMIPaidPeriod.Equal(period)
}

// ApplyEMI advances the loan by one amortization step for the given
// period: interest accrues on the remaining balance, principal is the
// EMI remainder floored at zero, and the balance never increases.
// lastEMIPaidPeriod only moves forward; a period can be applied once.
func (l *Loan) ApplyEMI(period Period) (AmortizationStep, error) {
	if l.Status != LoanStatusActive {
		return AmortizationStep{}, shared.ErrInvalidState
	}
	if !l.RemainingBalance.IsPositive() {
		return AmortizationStep{}, shared.ErrInvalidState
	}
	if l.LastEMIPaidPeriod != nil && !l.LastEMIPaidPeriod.Before(period) {
		return AmortizationStep{}, shared.NewDomainError("PERIOD_ALREADY_PAID", "EMI already posted for this period")
	}

	step := amortizeStep(l.RemainingBalance, l.EMIAmount, l.MonthlyRate())
	step.Period = period
	step.DueDate = period.DueDate(l.EMIDay)

	l.RemainingBalance = step.Balance
	l.TotalInterestPaid = l.TotalInterestPaid.Add(step.Interest)
	l.TotalPrincipalPaid = l.TotalPrincipalPaid.Add(step.Principal)
	paid := period
	l.LastEMIPaidPeriod = &paid
	l.AddDomainEvent(NewLoanEMIPostedEvent(l, step))

	if !l.RemainingBalance.IsPositive() {
		l.RemainingBalance = decimal.Zero
		l.Status = LoanStatusCompleted
		l.AddDomainEvent(NewLoanCompletedEvent(l))
	}
	l.IncrementVersion()
	return step, nil
}

// ApplyBackfill installs the result of a historical amortization schedule
// computed at creation time, before the loan is first persisted
func (l *Loan) ApplyBackfill(schedule AmortizationSchedule) {
	if len(schedule.Steps) == 0 {
		return
	}
	l.RemainingBalance = schedule.FinalBalance
	l.TotalInterestPaid = l.TotalInterestPaid.Add(schedule.TotalInterest)
	l.TotalPrincipalPaid = l.TotalPrincipalPaid.Add(schedule.TotalPrincipal)
	last := schedule.Steps[len(schedule.Steps)-1].Period
	l.LastEMIPaidPeriod = &last
	if !l.RemainingBalance.IsPositive() {
		l.RemainingBalance = decimal.Zero
		l.Status = LoanStatusCompleted
		l.AddDomainEvent(NewLoanCompletedEvent(l))
	}
}

// AmortizationStep is the result of one monthly amortization
type AmortizationStep struct {
	Period    Period
	DueDate   time.Time
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Balance   decimal.Decimal // remaining balance after the step
}

// AmortizationSchedule is a historical backfill plan: one step per due
// period between a loan's start date and now
type AmortizationSchedule struct {
	Steps          []AmortizationStep
	FinalBalance   decimal.Decimal
	TotalInterest  decimal.Decimal
	TotalPrincipal decimal.Decimal
	// Truncated is set when the iteration cap was reached before the
	// schedule caught up to now; callers must surface it rather than
	// treat the schedule as complete.
	Truncated bool
}

// amortizeStep performs one month of amortization. If the EMI does not
// cover accrued interest, principal floors at zero and the balance stays
// flat (no negative amortization). The balance never goes below zero.
func amortizeStep(balance, emi, monthlyRate decimal.Decimal) AmortizationStep {
	interest := balance.Mul(monthlyRate)
	principal := emi.Sub(interest)
	if principal.IsNegative() {
		principal = decimal.Zero
	}
	if principal.GreaterThan(balance) {
		principal = balance
	}
	return AmortizationStep{
		Interest:  interest,
		Principal: principal,
		Balance:   balance.Sub(principal),
	}
}

// BuildBackfillSchedule computes the historical EMI schedule for a loan
// created with a start date in the past. The first due date is the EMI
// day in the start month (clamped); if that precedes the start date, it
// rolls to the next month. Iteration stops when the schedule catches up
// to now, the balance reaches zero, or capMonths steps have been
// produced, in which case Truncated is set.
func BuildBackfillSchedule(total, emi, annualRate decimal.Decimal, emiDay int, startDate, now time.Time, capMonths int) AmortizationSchedule {
	schedule := AmortizationSchedule{
		FinalBalance:   total,
		TotalInterest:  decimal.Zero,
		TotalPrincipal: decimal.Zero,
	}
	monthlyRate := annualRate.Div(monthsPerYear).Div(percentBase)

	period := PeriodOf(startDate)
	due := period.DueDate(emiDay)
	if due.Before(startDate) {
		period = period.Next()
		due = period.DueDate(emiDay)
	}

	balance := total
	for !due.After(now) && balance.IsPositive() {
		if capMonths > 0 && len(schedule.Steps) >= capMonths {
			schedule.Truncated = true
			break
		}
		step := amortizeStep(balance, emi, monthlyRate)
		step.Period = period
		step.DueDate = due
		balance = step.Balance

		schedule.Steps = append(schedule.Steps, step)
		schedule.TotalInterest = schedule.TotalInterest.Add(step.Interest)
		schedule.TotalPrincipal = schedule.TotalPrincipal.Add(step.Principal)

		period = period.Next()
		due = period.DueDate(emiDay)
	}
	schedule.FinalBalance = balance
	return schedule
}
