package finance

import (
	"context"
	"sync"

	"github.com/fintrack/backend/internal/domain/finance"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memLedgerRepo is an in-memory LedgerEntryRepository with the same
// keyed create-or-replace semantics as the persistence layer
type memLedgerRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*finance.LedgerEntry
	failAll bool
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{byID: make(map[uuid.UUID]*finance.LedgerEntry)}
}

func (r *memLedgerRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

func (r *memLedgerRepo) FindByKey(_ context.Context, key string) (*finance.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.byID {
		if entry.EntryKey == key {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memLedgerRepo) FindAllForOwner(_ context.Context, ownerID uuid.UUID, _ finance.LedgerEntryFilter) ([]finance.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []finance.LedgerEntry
	for _, entry := range r.byID {
		if entry.OwnerID == ownerID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) Save(_ context.Context, entry *finance.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return shared.NewDomainError("STORE_DOWN", "store unavailable")
	}
	copied := *entry
	r.byID[entry.ID] = &copied
	return nil
}

func (r *memLedgerRepo) SaveKeyed(_ context.Context, entry *finance.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return shared.NewDomainError("STORE_DOWN", "store unavailable")
	}
	for id, existing := range r.byID {
		if existing.EntryKey == entry.EntryKey {
			delete(r.byID, id)
		}
	}
	copied := *entry
	r.byID[entry.ID] = &copied
	return nil
}

func (r *memLedgerRepo) SaveBatch(ctx context.Context, entries []*finance.LedgerEntry) error {
	for _, entry := range entries {
		if err := r.Save(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (r *memLedgerRepo) DeleteDuplicates(_ context.Context, kind finance.SourceKind, sourceID uuid.UUID, period finance.Period, keepKey string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, entry := range r.byID {
		src := entry.SourceID()
		if src == nil || *src != sourceID {
			continue
		}
		if entry.Period == nil || !entry.Period.Equal(period) {
			continue
		}
		if entry.EntryKey == keepKey {
			continue
		}
		delete(r.byID, id)
		removed++
	}
	return removed, nil
}

func (r *memLedgerRepo) DeleteForOwner(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.byID[id]
	if !ok || entry.OwnerID != ownerID {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memLedgerRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *memLedgerRepo) all() []finance.LedgerEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]finance.LedgerEntry, 0, len(r.byID))
	for _, entry := range r.byID {
		out = append(out, *entry)
	}
	return out
}

type memLoanRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*finance.Loan
}

func newMemLoanRepo() *memLoanRepo {
	return &memLoanRepo{byID: make(map[uuid.UUID]*finance.Loan)}
}

func (r *memLoanRepo) FindByIDForOwner(_ context.Context, ownerID, id uuid.UUID) (*finance.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loan, ok := r.byID[id]
	if !ok || loan.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}
	copied := *loan
	return &copied, nil
}

func (r *memLoanRepo) FindAllForOwner(_ context.Context, ownerID uuid.UUID) ([]finance.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []finance.Loan
	for _, loan := range r.byID {
		if loan.OwnerID == ownerID {
			out = append(out, *loan)
		}
	}
	return out, nil
}

func (r *memLoanRepo) FindAllActive(_ context.Context) ([]finance.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []finance.Loan
	for _, loan := range r.byID {
		if loan.Status == finance.LoanStatusActive {
			out = append(out, *loan)
		}
	}
	return out, nil
}

func (r *memLoanRepo) Save(_ context.Context, loan *finance.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *loan
	r.byID[loan.ID] = &copied
	return nil
}

func (r *memLoanRepo) DeleteForOwner(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	loan, ok := r.byID[id]
	if !ok || loan.OwnerID != ownerID {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type memInvestmentRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*finance.Investment
}

func newMemInvestmentRepo() *memInvestmentRepo {
	return &memInvestmentRepo{byID: make(map[uuid.UUID]*finance.Investment)}
}

func (r *memInvestmentRepo) FindByIDForOwner(_ context.Context, ownerID, id uuid.UUID) (*finance.Investment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byID[id]
	if !ok || inv.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

func (r *memInvestmentRepo) FindAllForOwner(_ context.Context, ownerID uuid.UUID) ([]finance.Investment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []finance.Investment
	for _, inv := range r.byID {
		if inv.OwnerID == ownerID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *memInvestmentRepo) FindAll(_ context.Context) ([]finance.Investment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []finance.Investment
	for _, inv := range r.byID {
		out = append(out, *inv)
	}
	return out, nil
}

func (r *memInvestmentRepo) Save(_ context.Context, inv *finance.Investment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *inv
	r.byID[inv.ID] = &copied
	return nil
}

func (r *memInvestmentRepo) DeleteForOwner(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byID[id]
	if !ok || inv.OwnerID != ownerID {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type memRecurringRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*finance.RecurringItem
}

func newMemRecurringRepo() *memRecurringRepo {
	return &memRecurringRepo{byID: make(map[uuid.UUID]*finance.RecurringItem)}
}

func (r *memRecurringRepo) FindByIDForOwner(_ context.Context, ownerID, id uuid.UUID) (*finance.RecurringItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.byID[id]
	if !ok || item.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *memRecurringRepo) FindAllForOwner(_ context.Context, ownerID uuid.UUID) ([]finance.RecurringItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []finance.RecurringItem
	for _, item := range r.byID {
		if item.OwnerID == ownerID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *memRecurringRepo) FindAllActive(_ context.Context) ([]finance.RecurringItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []finance.RecurringItem
	for _, item := range r.byID {
		if item.Active {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *memRecurringRepo) Save(_ context.Context, item *finance.RecurringItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *item
	r.byID[item.ID] = &copied
	return nil
}

func (r *memRecurringRepo) DeleteForOwner(_ context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.byID[id]
	if !ok || item.OwnerID != ownerID {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// recordingPublisher captures published event types in order
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, event := range events {
		p.events = append(p.events, event.EventType())
	}
	return nil
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	copy(out, p.events)
	return out
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
