package persistence

import (
	"context"
	"errors"

	"github.com/fintrack/backend/internal/domain/finance"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRecurringItemRepository implements RecurringItemRepository using GORM
type GormRecurringItemRepository struct {
	db *gorm.DB
}

// NewGormRecurringItemRepository creates a new GormRecurringItemRepository
func NewGormRecurringItemRepository(db *gorm.DB) *GormRecurringItemRepository {
	return &GormRecurringItemRepository{db: db}
}

// FindByIDForOwner finds a recurring template by ID for a specific user
func (r *GormRecurringItemRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*finance.RecurringItem, error) {
	var model models.RecurringItemModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOwner finds all recurring templates for a user, including
// deactivated ones
func (r *GormRecurringItemRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID) ([]finance.RecurringItem, error) {
	var itemModels []models.RecurringItemModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]finance.RecurringItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// FindAllActive returns every active template across users, for the
// reconciliation pass
func (r *GormRecurringItemRepository) FindAllActive(ctx context.Context) ([]finance.RecurringItem, error) {
	var itemModels []models.RecurringItemModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]finance.RecurringItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// Save inserts or updates a recurring template
func (r *GormRecurringItemRepository) Save(ctx context.Context, item *finance.RecurringItem) error {
	model := models.RecurringItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForOwner deletes a recurring template owned by the given user
func (r *GormRecurringItemRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RecurringItemModel{}, "owner_id = ? AND id = ?", ownerID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
