package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LedgerEntryFilter defines filtering options for ledger queries
type LedgerEntryFilter struct {
	EntryType EntryType
	Category  EntryCategory
	FromDate  *time.Time
	ToDate    *time.Time
	Limit     int
}

// LedgerEntryRepository persists ledger entries
type LedgerEntryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)
	FindByKey(ctx context.Context, key string) (*LedgerEntry, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter LedgerEntryFilter) ([]LedgerEntry, error)
	// Save inserts or updates a single entry by ID
	Save(ctx context.Context, entry *LedgerEntry) error
	// SaveKeyed writes an entry identified by its EntryKey with
	// create-or-replace semantics: repeated writes with the same key
	// leave exactly one entry holding the last payload
	SaveKeyed(ctx context.Context, entry *LedgerEntry) error
	// SaveBatch inserts backfill entries in one write
	SaveBatch(ctx context.Context, entries []*LedgerEntry) error
	// DeleteDuplicates removes every entry matching (kind's source
	// column == sourceID AND period) whose entry key is not keepKey.
	// Returns the number of rows removed.
	DeleteDuplicates(ctx context.Context, kind SourceKind, sourceID uuid.UUID, period Period, keepKey string) (int64, error)
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}

// LoanRepository persists loans
type LoanRepository interface {
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Loan, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID) ([]Loan, error)
	// FindAllActive returns every active loan across owners, for the
	// reconciliation pass
	FindAllActive(ctx context.Context) ([]Loan, error)
	Save(ctx context.Context, loan *Loan) error
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}

// InvestmentRepository persists investments
type InvestmentRepository interface {
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Investment, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID) ([]Investment, error)
	FindAll(ctx context.Context) ([]Investment, error)
	Save(ctx context.Context, inv *Investment) error
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}

// RecurringItemRepository persists recurring templates
type RecurringItemRepository interface {
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*RecurringItem, error)
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID) ([]RecurringItem, error)
	FindAllActive(ctx context.Context) ([]RecurringItem, error)
	Save(ctx context.Context, item *RecurringItem) error
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}
