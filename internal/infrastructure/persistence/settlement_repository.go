package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/strata/backend/internal/domain/ledger"
	"github.com/strata/backend/internal/domain/shared"
	"github.com/strata/backend/internal/infrastructure/persistence/models"
)

// GormSettlementRepository implements SettlementRepository using GORM
type GormSettlementRepository struct {
	db *gorm.DB
}

// NewGormSettlementRepository creates a new GormSettlementRepository
func NewGormSettlementRepository(db *gorm.DB) *GormSettlementRepository {
	return &GormSettlementRepository{db: db}
}

// Create persists the settlement shell (no items, total zero)
func (r *GormSettlementRepository) Create(ctx context.Context, settlement *ledger.Settlement) error {
	model := &models.SettlementModel{}
	model.FromDomain(settlement)
	return r.db.WithContext(ctx).Create(model).Error
}

// AddItem persists one allocation line
func (r *GormSettlementRepository) AddItem(ctx context.Context, item *ledger.Allocation) error {
	model := &models.AllocationModel{}
	model.FromDomain(item)
	return r.db.WithContext(ctx).Create(model).Error
}

// UpdateTotal sets the settlement's derived total once all items exist
func (r *GormSettlementRepository) UpdateTotal(ctx context.Context, tenantID, id uuid.UUID, total decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.SettlementModel{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"total_amount": total,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByIDForTenant finds a settlement with its allocation items
func (r *GormSettlementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Settlement, error) {
	var model models.SettlementModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SumAllocationsForObligation returns the full sum of allocation amounts
// pointing at the obligation, across all settlements
func (r *GormSettlementRepository) SumAllocationsForObligation(ctx context.Context, obligationID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&models.AllocationModel{}).
		Select("SUM(amount)").
		Where("obligation_id = ?", obligationID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// FindByCashAccount returns active settlements of both kinds for the account
// with paid_at inside [from, to], ordered by paid_at ascending
func (r *GormSettlementRepository) FindByCashAccount(ctx context.Context, tenantID, cashAccountID uuid.UUID, from, to time.Time) ([]ledger.Settlement, error) {
	var settlementModels []models.SettlementModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND cash_account_id = ? AND status = ? AND paid_at >= ? AND paid_at <= ?",
			tenantID, cashAccountID, shared.RecordStatusActive, from, to).
		Order("paid_at ASC, created_at ASC").
		Find(&settlementModels).Error
	if err != nil {
		return nil, err
	}
	settlements := make([]ledger.Settlement, len(settlementModels))
	for i, model := range settlementModels {
		settlements[i] = *model.ToDomain()
	}
	return settlements, nil
}

// SumByCashAccount totals active settlement amounts of one kind for the
// account, restricted to paid_at strictly before the cutoff when before is
// non-nil. Archived settlements never count toward balances.
func (r *GormSettlementRepository) SumByCashAccount(ctx context.Context, tenantID, cashAccountID uuid.UUID, kind ledger.SettlementKind, before *time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	query := r.db.WithContext(ctx).Model(&models.SettlementModel{}).
		Select("SUM(total_amount)").
		Where("tenant_id = ? AND cash_account_id = ? AND kind = ? AND status = ?",
			tenantID, cashAccountID, kind, shared.RecordStatusActive)
	if before != nil {
		query = query.Where("paid_at < ?", *before)
	}
	if err := query.Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// MaxReceiptSequence returns the highest committed receipt sequence for the
// tenant and number prefix. Numbers are fixed width, so the lexicographic
// maximum is the numeric maximum. Archived settlements are counted too: a
// retired number must never be reissued. Must run inside a transaction,
// after the tenant row lock is held.
func (r *GormSettlementRepository) MaxReceiptSequence(ctx context.Context, tenantID uuid.UUID, prefix string) (int, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Model(&models.SettlementModel{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND receipt_number LIKE ?", tenantID, prefix+"-%").
		Order("receipt_number DESC").
		Limit(1).
		Pluck("receipt_number", &numbers).Error
	if err != nil {
		return 0, translateLockError(err)
	}
	if len(numbers) == 0 {
		return 0, nil
	}
	suffix := strings.TrimPrefix(numbers[0], prefix+"-")
	sequence, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Malformed receipt number: "+numbers[0])
	}
	return sequence, nil
}

var _ ledger.SettlementRepository = (*GormSettlementRepository)(nil)
