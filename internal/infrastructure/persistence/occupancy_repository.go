package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/strata/backend/internal/domain/estate"
	"github.com/strata/backend/internal/domain/shared"
	"github.com/strata/backend/internal/infrastructure/persistence/models"
)

// GormOccupancyRepository implements OccupancyRepository using GORM
type GormOccupancyRepository struct {
	db *gorm.DB
}

// NewGormOccupancyRepository creates a new GormOccupancyRepository
func NewGormOccupancyRepository(db *gorm.DB) *GormOccupancyRepository {
	return &GormOccupancyRepository{db: db}
}

// FindByApartment returns all occupancies recorded for an apartment
func (r *GormOccupancyRepository) FindByApartment(ctx context.Context, tenantID, apartmentID uuid.UUID) ([]estate.Occupancy, error) {
	var occupancyModels []models.OccupancyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND apartment_id = ? AND status = ?", tenantID, apartmentID, shared.RecordStatusActive).
		Order("start_date DESC").
		Find(&occupancyModels).Error; err != nil {
		return nil, err
	}
	occupancies := make([]estate.Occupancy, len(occupancyModels))
	for i, model := range occupancyModels {
		occupancies[i] = *model.ToDomain()
	}
	return occupancies, nil
}

// FindCurrentByResident returns the occupancies covering the given instant
// for a resident. Open-ended occupancies have a NULL end date.
func (r *GormOccupancyRepository) FindCurrentByResident(ctx context.Context, tenantID, residentID uuid.UUID, at time.Time) ([]estate.Occupancy, error) {
	var occupancyModels []models.OccupancyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND resident_id = ? AND status = ?", tenantID, residentID, shared.RecordStatusActive).
		Where("start_date <= ? AND (end_date IS NULL OR end_date >= ?)", at, at).
		Order("start_date DESC").
		Find(&occupancyModels).Error; err != nil {
		return nil, err
	}
	occupancies := make([]estate.Occupancy, len(occupancyModels))
	for i, model := range occupancyModels {
		occupancies[i] = *model.ToDomain()
	}
	return occupancies, nil
}

// Save creates or updates an occupancy
func (r *GormOccupancyRepository) Save(ctx context.Context, occupancy *estate.Occupancy) error {
	model := &models.OccupancyModel{}
	model.FromDomain(occupancy)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ estate.OccupancyRepository = (*GormOccupancyRepository)(nil)
