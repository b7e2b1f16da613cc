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

// GormLoanRepository implements LoanRepository using GORM
type GormLoanRepository struct {
	db *gorm.DB
}

// NewGormLoanRepository creates a new GormLoanRepository
func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// FindByIDForOwner finds a loan by ID for a specific user
func (r *GormLoanRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*finance.Loan, error) {
	var model models.LoanModel
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

// FindAllForOwner finds all loans for a user
func (r *GormLoanRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID) ([]finance.Loan, error) {
	var loanModels []models.LoanModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&loanModels).Error; err != nil {
		return nil, err
	}
	loans := make([]finance.Loan, len(loanModels))
	for i, model := range loanModels {
		loans[i] = *model.ToDomain()
	}
	return loans, nil
}

// FindAllActive returns every active loan across users, for the
// reconciliation pass
func (r *GormLoanRepository) FindAllActive(ctx context.Context) ([]finance.Loan, error) {
	var loanModels []models.LoanModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", finance.LoanStatusActive).
		Order("created_at ASC").
		Find(&loanModels).Error; err != nil {
		return nil, err
	}
	loans := make([]finance.Loan, len(loanModels))
	for i, model := range loanModels {
		loans[i] = *model.ToDomain()
	}
	return loans, nil
}

// Save inserts or updates a loan
func (r *GormLoanRepository) Save(ctx context.Context, loan *finance.Loan) error {
	model := models.LoanModelFromDomain(loan)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteForOwner deletes a loan owned by the given user
func (r *GormLoanRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LoanModel{}, "owner_id = ? AND id = ?", ownerID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
