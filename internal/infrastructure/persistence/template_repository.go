package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/strata/backend/internal/domain/ledger"
	"github.com/strata/backend/internal/domain/shared"
	"github.com/strata/backend/internal/infrastructure/persistence/models"
)

// GormTemplateRepository implements TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// SaveChargeTemplate creates or updates a charge template
func (r *GormTemplateRepository) SaveChargeTemplate(ctx context.Context, template *ledger.ChargeTemplate) error {
	model := &models.ChargeTemplateModel{}
	model.FromDomain(template)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveExpenseTemplate creates or updates an expense template
func (r *GormTemplateRepository) SaveExpenseTemplate(ctx context.Context, template *ledger.ExpenseTemplate) error {
	model := &models.ExpenseTemplateModel{}
	model.FromDomain(template)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindActiveChargeTemplates finds active charge templates for a tenant
func (r *GormTemplateRepository) FindActiveChargeTemplates(ctx context.Context, tenantID uuid.UUID) ([]ledger.ChargeTemplate, error) {
	var templateModels []models.ChargeTemplateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ? AND status = ?", tenantID, true, shared.RecordStatusActive).
		Order("created_at ASC").
		Find(&templateModels).Error; err != nil {
		return nil, err
	}
	templates := make([]ledger.ChargeTemplate, len(templateModels))
	for i, model := range templateModels {
		templates[i] = *model.ToDomain()
	}
	return templates, nil
}

// FindActiveExpenseTemplates finds active expense templates for a tenant
func (r *GormTemplateRepository) FindActiveExpenseTemplates(ctx context.Context, tenantID uuid.UUID) ([]ledger.ExpenseTemplate, error) {
	var templateModels []models.ExpenseTemplateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ? AND status = ?", tenantID, true, shared.RecordStatusActive).
		Order("created_at ASC").
		Find(&templateModels).Error; err != nil {
		return nil, err
	}
	templates := make([]ledger.ExpenseTemplate, len(templateModels))
	for i, model := range templateModels {
		templates[i] = *model.ToDomain()
	}
	return templates, nil
}

// MarkExpenseGenerated stamps last_generated_at after a generation run
func (r *GormTemplateRepository) MarkExpenseGenerated(ctx context.Context, tenantID, templateID uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.ExpenseTemplateModel{}).
		Where("tenant_id = ? AND id = ?", tenantID, templateID).
		Updates(map[string]interface{}{
			"last_generated_at": at,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ ledger.TemplateRepository = (*GormTemplateRepository)(nil)
