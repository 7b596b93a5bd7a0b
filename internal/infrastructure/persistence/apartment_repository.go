package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/strata/backend/internal/domain/estate"
	"github.com/strata/backend/internal/domain/shared"
	"github.com/strata/backend/internal/infrastructure/persistence/models"
)

// GormApartmentRepository implements ApartmentRepository using GORM
type GormApartmentRepository struct {
	db *gorm.DB
}

// NewGormApartmentRepository creates a new GormApartmentRepository
func NewGormApartmentRepository(db *gorm.DB) *GormApartmentRepository {
	return &GormApartmentRepository{db: db}
}

// FindByIDForTenant finds an apartment by ID within a tenant
func (r *GormApartmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*estate.Apartment, error) {
	var model models.ApartmentModel
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

// FindAllActive returns all active apartments for a tenant ordered by code
func (r *GormApartmentRepository) FindAllActive(ctx context.Context, tenantID uuid.UUID) ([]estate.Apartment, error) {
	var apartmentModels []models.ApartmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, shared.RecordStatusActive).
		Order("code ASC").
		Find(&apartmentModels).Error; err != nil {
		return nil, err
	}
	apartments := make([]estate.Apartment, len(apartmentModels))
	for i, model := range apartmentModels {
		apartments[i] = *model.ToDomain()
	}
	return apartments, nil
}

// FindByIDs returns the active apartments among the given IDs
func (r *GormApartmentRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]estate.Apartment, error) {
	if len(ids) == 0 {
		return []estate.Apartment{}, nil
	}
	var apartmentModels []models.ApartmentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ? AND status = ?", tenantID, ids, shared.RecordStatusActive).
		Order("code ASC").
		Find(&apartmentModels).Error; err != nil {
		return nil, err
	}
	apartments := make([]estate.Apartment, len(apartmentModels))
	for i, model := range apartmentModels {
		apartments[i] = *model.ToDomain()
	}
	return apartments, nil
}

// Save creates or updates an apartment
func (r *GormApartmentRepository) Save(ctx context.Context, apartment *estate.Apartment) error {
	model := &models.ApartmentModel{}
	model.FromDomain(apartment)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ estate.ApartmentRepository = (*GormApartmentRepository)(nil)
