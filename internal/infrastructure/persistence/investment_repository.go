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

// GormInvestmentRepository implements InvestmentRepository using GORM
type GormInvestmentRepository struct {
	db *gorm.DB
}

// NewGormInvestmentRepository creates a new GormInvestmentRepository
func NewGormInvestmentRepository(db *gorm.DB) *GormInvestmentRepository {
	return &GormInvestmentRepository{db: db}
}

// FindByIDForOwner finds an investment by ID for a specific user
func (r *GormInvestmentRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*finance.Investment, error) {
	var model models.InvestmentModel
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

// FindAllForOwner finds all investments for a user
func (r *GormInvestmentRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID) ([]finance.Investment, error) {
	var investmentModels []models.InvestmentModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&investmentModels).Error; err != nil {
		return nil, err
	}
	investments := make([]finance.Investment, len(investmentModels))
	for i, model := range investmentModels {
		investments[i] = *model.ToDomain()
	}
	return investments, nil
}

// FindAll returns every investment across users. Both the SIP and the
// annual-interest pass scan the full collection; due filtering happens
// on the aggregate, not in SQL.
func (r *GormInvestmentRepository) FindAll(ctx context.Context) ([]finance.Investment, error) {
	var investmentModels []models.InvestmentModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&investmentModels).Error; err != nil {
		return nil, err
	}
	investments := make([]finance.Investment, len(investmentModels))
	for i, model := range investmentModels {
		investments[i] = *model.ToDomain()
	}
	return investments, nil
}

// Save inserts or updates an investment
func (r *GormInvestmentRepository) Save(ctx context.Context, inv *finance.Investment) error {
	model := models.InvestmentModelFromDomain(inv)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForOwner deletes an investment owned by the given user
func (r *GormInvestmentRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InvestmentModel{}, "owner_id = ? AND id = ?", ownerID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
