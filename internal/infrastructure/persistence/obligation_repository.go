package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/strata/backend/internal/domain/ledger"
	"github.com/strata/backend/internal/domain/shared"
	"github.com/strata/backend/internal/infrastructure/persistence/models"
)

// GormObligationRepository implements ObligationRepository using GORM
type GormObligationRepository struct {
	db *gorm.DB
}

// NewGormObligationRepository creates a new GormObligationRepository
func NewGormObligationRepository(db *gorm.DB) *GormObligationRepository {
	return &GormObligationRepository{db: db}
}

// Create persists a new obligation
func (r *GormObligationRepository) Create(ctx context.Context, obligation *ledger.Obligation) error {
	model := &models.ObligationModel{}
	model.FromDomain(obligation)
	return translateObligationError(r.db.WithContext(ctx).Create(model).Error)
}

// FindByIDForTenant finds an active obligation by ID for a specific tenant
func (r *GormObligationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Obligation, error) {
	var model models.ObligationModel
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

// FindByIDUnscoped finds an obligation by ID regardless of tenant or status.
// Reserved for the tenant decommissioning workflow.
func (r *GormObligationRepository) FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*ledger.Obligation, error) {
	var model models.ObligationModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads the obligation under an exclusive row lock.
// Must run inside a transaction.
func (r *GormObligationRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Obligation, error) {
	var model models.ObligationModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ? AND status = ?", tenantID, id, shared.RecordStatusActive).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateLockError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds obligations of one kind for a tenant with filtering
func (r *GormObligationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, kind ledger.ObligationKind, filter ledger.ObligationFilter) ([]ledger.Obligation, error) {
	var obligationModels []models.ObligationModel
	query := r.scopedQuery(ctx, tenantID, kind)
	query = applyObligationFilter(query, filter)
	query = applyObligationPaging(query, filter)

	if err := query.Order("due_date ASC, created_at ASC").Find(&obligationModels).Error; err != nil {
		return nil, err
	}
	obligations := make([]ledger.Obligation, len(obligationModels))
	for i, model := range obligationModels {
		obligations[i] = *model.ToDomain()
	}
	return obligations, nil
}

// CountForTenant counts obligations of one kind matching the filter
func (r *GormObligationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, kind ledger.ObligationKind, filter ledger.ObligationFilter) (int64, error) {
	var count int64
	query := r.scopedQuery(ctx, tenantID, kind)
	query = applyObligationFilter(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsCharge probes the charge identity key (tenant, apartment, period, account)
func (r *GormObligationRepository) ExistsCharge(ctx context.Context, tenantID, apartmentID uuid.UUID, period ledger.Period, accountID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ObligationModel{}).
		Where("tenant_id = ? AND kind = ? AND apartment_id = ? AND period = ? AND account_id = ? AND status = ?",
			tenantID, ledger.ObligationKindCharge, apartmentID, period.String(), accountID, shared.RecordStatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdatePaidAmount persists a recomputed paid amount
func (r *GormObligationRepository) UpdatePaidAmount(ctx context.Context, tenantID, id uuid.UUID, paidAmount decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.ObligationModel{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"paid_amount": paidAmount,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Archive marks the obligation archived. The paid-amount guard lives in the
// application layer.
func (r *GormObligationRepository) Archive(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.ObligationModel{}).
		Where("tenant_id = ? AND id = ? AND status = ?", tenantID, id, shared.RecordStatusActive).
		Updates(map[string]interface{}{
			"status":     shared.RecordStatusArchived,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DebtByApartment rolls up outstanding receivables per apartment
func (r *GormObligationRepository) DebtByApartment(ctx context.Context, tenantID uuid.UUID) ([]ledger.ApartmentDebt, error) {
	var rows []ledger.ApartmentDebt
	err := r.db.WithContext(ctx).Model(&models.ObligationModel{}).
		Select("apartment_id, SUM(amount) AS total_amount, SUM(paid_amount) AS total_paid, SUM(amount - paid_amount) AS outstanding").
		Where("tenant_id = ? AND kind = ? AND status = ?", tenantID, ledger.ObligationKindCharge, shared.RecordStatusActive).
		Group("apartment_id").
		Having("SUM(amount - paid_amount) > 0").
		Order("outstanding DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PayablesByVendor rolls up outstanding payables per vendor
func (r *GormObligationRepository) PayablesByVendor(ctx context.Context, tenantID uuid.UUID) ([]ledger.VendorPayable, error) {
	var rows []ledger.VendorPayable
	err := r.db.WithContext(ctx).Model(&models.ObligationModel{}).
		Select("vendor_id, SUM(amount) AS total_amount, SUM(paid_amount) AS total_paid, SUM(amount - paid_amount) AS outstanding").
		Where("tenant_id = ? AND kind = ? AND status = ?", tenantID, ledger.ObligationKindExpense, shared.RecordStatusActive).
		Group("vendor_id").
		Having("SUM(amount - paid_amount) > 0").
		Order("outstanding DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormObligationRepository) scopedQuery(ctx context.Context, tenantID uuid.UUID, kind ledger.ObligationKind) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ObligationModel{}).
		Where("tenant_id = ? AND kind = ? AND status = ?", tenantID, kind, shared.RecordStatusActive)
}

func applyObligationFilter(query *gorm.DB, filter ledger.ObligationFilter) *gorm.DB {
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.ApartmentID != nil {
		query = query.Where("apartment_id = ?", *filter.ApartmentID)
	}
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.Period != nil {
		query = query.Where("period = ?", filter.Period.String())
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	if filter.Unsettled {
		query = query.Where("amount > paid_amount")
	}
	return query
}

func applyObligationPaging(query *gorm.DB, filter ledger.ObligationFilter) *gorm.DB {
	if filter.PageSize <= 0 {
		return query
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	return query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
}

var _ ledger.ObligationRepository = (*GormObligationRepository)(nil)
