package persistence

import (
	"context"
	"errors"

	"github.com/fintrack/backend/internal/domain/finance"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ledgerEntryUpsertColumns are the payload columns replaced when a keyed
// write hits an existing entry key. Identity and creation timestamp stay.
var ledgerEntryUpsertColumns = []string{
	"entry_type",
	"category",
	"amount",
	"entry_date",
	"description",
	"auto_emi",
	"auto_sip",
	"recurring",
	"loan_id",
	"investment_id",
	"recurring_id",
	"period",
	"version",
	"updated_at",
}

// GormLedgerEntryRepository implements LedgerEntryRepository using GORM
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// FindByID finds a ledger entry by its ID
func (r *GormLedgerEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByKey finds a ledger entry by its idempotency key
func (r *GormLedgerEntryRepository) FindByKey(ctx context.Context, key string) (*finance.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("entry_key = ?", key).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOwner finds all ledger entries for a user with filtering,
// newest entry date first
func (r *GormLedgerEntryRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter finance.LedgerEntryFilter) ([]finance.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	query := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).
		Where("owner_id = ?", ownerID)
	query = r.applyFilter(query, filter)

	if err := query.Order("entry_date DESC").Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]finance.LedgerEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// applyFilter applies common filtering options to a query
func (r *GormLedgerEntryRepository) applyFilter(query *gorm.DB, filter finance.LedgerEntryFilter) *gorm.DB {
	if filter.EntryType != "" {
		query = query.Where("entry_type = ?", filter.EntryType)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.FromDate != nil {
		query = query.Where("entry_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("entry_date <= ?", *filter.ToDate)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	return query
}

// Save inserts or updates a single entry by ID
func (r *GormLedgerEntryRepository) Save(ctx context.Context, entry *finance.LedgerEntry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveKeyed writes an entry identified by its EntryKey with
// create-or-replace semantics: a conflicting key keeps the stored row's
// identity and replaces its payload, so repeated posts for the same due
// period leave exactly one entry.
func (r *GormLedgerEntryRepository) SaveKeyed(ctx context.Context, entry *finance.LedgerEntry) error {
	if entry.EntryKey == "" {
		return shared.NewDomainError("MISSING_ENTRY_KEY", "Keyed save requires a non-empty entry key")
	}
	model := models.LedgerEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns(ledgerEntryUpsertColumns),
	}).Create(model).Error
}

// SaveBatch inserts backfill entries in one write
func (r *GormLedgerEntryRepository) SaveBatch(ctx context.Context, entries []*finance.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	entryModels := make([]*models.LedgerEntryModel, len(entries))
	for i, entry := range entries {
		entryModels[i] = models.LedgerEntryModelFromDomain(entry)
	}
	return r.db.WithContext(ctx).CreateInBatches(entryModels, 100).Error
}

// DeleteDuplicates removes every entry posted for the same obligation and
// due period whose entry key is not keepKey. Legacy keyless rows for the
// period are swept too. Returns the number of rows removed.
func (r *GormLedgerEntryRepository) DeleteDuplicates(ctx context.Context, kind finance.SourceKind, sourceID uuid.UUID, period finance.Period, keepKey string) (int64, error) {
	column, err := sourceColumn(kind)
	if err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).
		Where(column+" = ? AND period = ?", sourceID, period.String()).
		Where("entry_key IS NULL OR entry_key != ?", keepKey).
		Delete(&models.LedgerEntryModel{})
	return result.RowsAffected, result.Error
}

// sourceColumn maps a source kind to the foreign-key column auto-posted
// entries of that kind carry
func sourceColumn(kind finance.SourceKind) (string, error) {
	switch kind {
	case finance.SourceKindEMI:
		return "loan_id", nil
	case finance.SourceKindSIP:
		return "investment_id", nil
	case finance.SourceKindRecurring:
		return "recurring_id", nil
	}
	return "", shared.NewDomainError("INVALID_SOURCE_KIND", "Source kind is not valid")
}

// DeleteForOwner deletes a ledger entry owned by the given user
func (r *GormLedgerEntryRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LedgerEntryModel{}, "owner_id = ? AND id = ?", ownerID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
