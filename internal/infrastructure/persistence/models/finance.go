package models

import (
	"time"

	"github.com/fintrack/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// periodString renders an optional due period in its "YYYY-M" store form
func periodString(p *finance.Period) string {
	if p == nil {
		return ""
	}
	return p.String()
}

// periodFromString parses an optional due period column. Unparseable
// values map to nil rather than failing the whole row load.
func periodFromString(s string) *finance.Period {
	if s == "" {
		return nil
	}
	p, err := finance.ParsePeriod(s)
	if err != nil {
		return nil
	}
	return &p
}

// LedgerEntryModel is the persistence model for the LedgerEntry aggregate root.
// EntryKey is nullable so that manual and backfill entries (which carry no
// idempotency key) do not collide on the unique index.
type LedgerEntryModel struct {
	OwnedAggregateModel
	EntryKey     *string               `gorm:"type:varchar(120);uniqueIndex"`
	EntryType    finance.EntryType     `gorm:"type:varchar(20);not null;index"`
	Category     finance.EntryCategory `gorm:"type:varchar(20);not null;index"`
	Amount       decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	EntryDate    time.Time             `gorm:"not null;index"`
	Description  string                `gorm:"type:varchar(500)"`
	AutoEMI      bool                  `gorm:"not null;default:false"`
	AutoSIP      bool                  `gorm:"column:auto_sip;not null;default:false"`
	Recurring    bool                  `gorm:"not null;default:false"`
	LoanID       *uuid.UUID            `gorm:"type:uuid;index"`
	InvestmentID *uuid.UUID            `gorm:"type:uuid;index"`
	RecurringID  *uuid.UUID            `gorm:"type:uuid;index"`
	Period       string                `gorm:"type:varchar(10);index"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry entity.
func (m *LedgerEntryModel) ToDomain() *finance.LedgerEntry {
	entry := &finance.LedgerEntry{
		EntryType:    m.EntryType,
		Category:     m.Category,
		Amount:       m.Amount,
		EntryDate:    m.EntryDate,
		Description:  m.Description,
		AutoEMI:      m.AutoEMI,
		AutoSIP:      m.AutoSIP,
		Recurring:    m.Recurring,
		LoanID:       m.LoanID,
		InvestmentID: m.InvestmentID,
		RecurringID:  m.RecurringID,
		Period:       periodFromString(m.Period),
	}
	m.PopulateOwnedAggregateRoot(&entry.OwnedAggregateRoot)
	if m.EntryKey != nil {
		entry.EntryKey = *m.EntryKey
	}
	return entry
}

// FromDomain populates the persistence model from a domain LedgerEntry entity.
func (m *LedgerEntryModel) FromDomain(e *finance.LedgerEntry) {
	m.FromDomainOwnedAggregateRoot(e.OwnedAggregateRoot)
	m.EntryKey = nil
	if e.EntryKey != "" {
		key := e.EntryKey
		m.EntryKey = &key
	}
	m.EntryType = e.EntryType
	m.Category = e.Category
	m.Amount = e.Amount
	m.EntryDate = e.EntryDate
	m.Description = e.Description
	m.AutoEMI = e.AutoEMI
	m.AutoSIP = e.AutoSIP
	m.Recurring = e.Recurring
	m.LoanID = e.LoanID
	m.InvestmentID = e.InvestmentID
	m.RecurringID = e.RecurringID
	m.Period = periodString(e.Period)
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain LedgerEntry.
func LedgerEntryModelFromDomain(e *finance.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{}
	m.FromDomain(e)
	return m
}

// LoanModel is the persistence model for the Loan aggregate root.
type LoanModel struct {
	OwnedAggregateModel
	Name               string             `gorm:"type:varchar(100);not null"`
	TotalAmount        decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	InterestRate       decimal.Decimal    `gorm:"type:decimal(8,4);not null"`
	TenureMonths       int                `gorm:"not null"`
	EMIAmount          decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	EMIDay             int                `gorm:"not null"`
	StartDate          time.Time          `gorm:"not null"`
	RemainingBalance   decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	LastEMIPaidPeriod  string             `gorm:"type:varchar(10)"`
	TotalInterestPaid  decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	TotalPrincipalPaid decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Status             finance.LoanStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
}

// TableName returns the table name for GORM
func (LoanModel) TableName() string {
	return "loans"
}

// ToDomain converts the persistence model to a domain Loan entity.
func (m *LoanModel) ToDomain() *finance.Loan {
	loan := &finance.Loan{
		Name:               m.Name,
		TotalAmount:        m.TotalAmount,
		InterestRate:       m.InterestRate,
		TenureMonths:       m.TenureMonths,
		EMIAmount:          m.EMIAmount,
		EMIDay:             m.EMIDay,
		StartDate:          m.StartDate,
		RemainingBalance:   m.RemainingBalance,
		LastEMIPaidPeriod:  periodFromString(m.LastEMIPaidPeriod),
		TotalInterestPaid:  m.TotalInterestPaid,
		TotalPrincipalPaid: m.TotalPrincipalPaid,
		Status:             m.Status,
	}
	m.PopulateOwnedAggregateRoot(&loan.OwnedAggregateRoot)
	return loan
}

// FromDomain populates the persistence model from a domain Loan entity.
func (m *LoanModel) FromDomain(l *finance.Loan) {
	m.FromDomainOwnedAggregateRoot(l.OwnedAggregateRoot)
	m.Name = l.Name
	m.TotalAmount = l.TotalAmount
	m.InterestRate = l.InterestRate
	m.TenureMonths = l.TenureMonths
	m.EMIAmount = l.EMIAmount
	m.EMIDay = l.EMIDay
	m.StartDate = l.StartDate
	m.RemainingBalance = l.RemainingBalance
	m.LastEMIPaidPeriod = periodString(l.LastEMIPaidPeriod)
	m.TotalInterestPaid = l.TotalInterestPaid
	m.TotalPrincipalPaid = l.TotalPrincipalPaid
	m.Status = l.Status
}

// LoanModelFromDomain creates a new persistence model from a domain Loan.
func LoanModelFromDomain(l *finance.Loan) *LoanModel {
	m := &LoanModel{}
	m.FromDomain(l)
	return m
}

// InvestmentModel is the persistence model for the Investment aggregate root.
type InvestmentModel struct {
	OwnedAggregateModel
	Name                 string                 `gorm:"type:varchar(100);not null"`
	InvestmentType       finance.InvestmentType `gorm:"type:varchar(20);not null;index"`
	InvestedAmount       decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	CurrentValue         decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	InterestRate         decimal.Decimal        `gorm:"type:decimal(8,4);not null"`
	StartDate            time.Time              `gorm:"not null"`
	SIPAmount            decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	SIPDay               int                    `gorm:"not null;default:0"`
	LastSIPPaidPeriod    string                 `gorm:"type:varchar(10)"`
	LastInterestPaidYear int                    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InvestmentModel) TableName() string {
	return "investments"
}

// ToDomain converts the persistence model to a domain Investment entity.
func (m *InvestmentModel) ToDomain() *finance.Investment {
	inv := &finance.Investment{
		Name:                 m.Name,
		InvestmentType:       m.InvestmentType,
		InvestedAmount:       m.InvestedAmount,
		CurrentValue:         m.CurrentValue,
		InterestRate:         m.InterestRate,
		StartDate:            m.StartDate,
		SIPAmount:            m.SIPAmount,
		SIPDay:               m.SIPDay,
		LastSIPPaidPeriod:    periodFromString(m.LastSIPPaidPeriod),
		LastInterestPaidYear: m.LastInterestPaidYear,
	}
	m.PopulateOwnedAggregateRoot(&inv.OwnedAggregateRoot)
	return inv
}

// FromDomain populates the persistence model from a domain Investment entity.
func (m *InvestmentModel) FromDomain(inv *finance.Investment) {
	m.FromDomainOwnedAggregateRoot(inv.OwnedAggregateRoot)
	m.Name = inv.Name
	m.InvestmentType = inv.InvestmentType
	m.InvestedAmount = inv.InvestedAmount
	m.CurrentValue = inv.CurrentValue
	m.InterestRate = inv.InterestRate
	m.StartDate = inv.StartDate
	m.SIPAmount = inv.SIPAmount
	m.SIPDay = inv.SIPDay
	m.LastSIPPaidPeriod = periodString(inv.LastSIPPaidPeriod)
	m.LastInterestPaidYear = inv.LastInterestPaidYear
}

// InvestmentModelFromDomain creates a new persistence model from a domain Investment.
func InvestmentModelFromDomain(inv *finance.Investment) *InvestmentModel {
	m := &InvestmentModel{}
	m.FromDomain(inv)
	return m
}

// RecurringItemModel is the persistence model for the RecurringItem aggregate root.
type RecurringItemModel struct {
	OwnedAggregateModel
	Name                string                `gorm:"type:varchar(100);not null"`
	ItemType            finance.RecurringType `gorm:"type:varchar(20);not null;index"`
	Amount              decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Day                 int                   `gorm:"not null"`
	LastProcessedPeriod string                `gorm:"type:varchar(10)"`
	Active              bool                  `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (RecurringItemModel) TableName() string {
	return "recurring_items"
}

// ToDomain converts the persistence model to a domain RecurringItem entity.
func (m *RecurringItemModel) ToDomain() *finance.RecurringItem {
	item := &finance.RecurringItem{
		Name:                m.Name,
		ItemType:            m.ItemType,
		Amount:              m.Amount,
		Day:                 m.Day,
		LastProcessedPeriod: periodFromString(m.LastProcessedPeriod),
		Active:              m.Active,
	}
	m.PopulateOwnedAggregateRoot(&item.OwnedAggregateRoot)
	return item
}

// FromDomain populates the persistence model from a domain RecurringItem entity.
func (m *RecurringItemModel) FromDomain(item *finance.RecurringItem) {
	m.FromDomainOwnedAggregateRoot(item.OwnedAggregateRoot)
	m.Name = item.Name
	m.ItemType = item.ItemType
	m.Amount = item.Amount
	m.Day = item.Day
	m.LastProcessedPeriod = periodString(item.LastProcessedPeriod)
	m.Active = item.Active
}

// RecurringItemModelFromDomain creates a new persistence model from a domain RecurringItem.
func RecurringItemModelFromDomain(item *finance.RecurringItem) *RecurringItemModel {
	m := &RecurringItemModel{}
	m.FromDomain(item)
	return m
}
