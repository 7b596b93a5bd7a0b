package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/strata/backend/internal/domain/ledger"
	"github.com/strata/backend/internal/domain/shared"
	"github.com/strata/backend/internal/infrastructure/persistence/models"
)

// GormCashAccountRepository implements CashAccountRepository using GORM
type GormCashAccountRepository struct {
	db *gorm.DB
}

// NewGormCashAccountRepository creates a new GormCashAccountRepository
func NewGormCashAccountRepository(db *gorm.DB) *GormCashAccountRepository {
	return &GormCashAccountRepository{db: db}
}

// Create persists a new cash account
func (r *GormCashAccountRepository) Create(ctx context.Context, account *ledger.CashAccount) error {
	model := &models.CashAccountModel{}
	model.FromDomain(account)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByIDForTenant finds a cash account by ID for a specific tenant
func (r *GormCashAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.CashAccount, error) {
	var model models.CashAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ? AND status = ?", tenantID, id, shared.RecordStatusActive).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all active cash accounts for a tenant
func (r *GormCashAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]ledger.CashAccount, error) {
	var accountModels []models.CashAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, shared.RecordStatusActive).
		Order("created_at ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]ledger.CashAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

var _ ledger.CashAccountRepository = (*GormCashAccountRepository)(nil)
