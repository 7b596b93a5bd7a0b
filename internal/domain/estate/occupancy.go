package estate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/strata/backend/internal/domain/shared"
)

// OccupancyRelation describes how a resident is related to an apartment.
type OccupancyRelation string

const (
	OccupancyRelationOwner  OccupancyRelation = "OWNER"
	OccupancyRelationRenter OccupancyRelation = "RENTER"
)

// IsValid checks if the relation is a valid OccupancyRelation
func (r OccupancyRelation) IsValid() bool {
	return r == OccupancyRelationOwner || r == OccupancyRelationRenter
}

// Occupancy is a first-class association between an apartment and a resident
// user, with its own lifecycle. It replaces a bare many-to-many join: the
// relation type and validity window are proper fields, not pivot columns.
type Occupancy struct {
	shared.TenantEntity
	ApartmentID uuid.UUID
	ResidentID  uuid.UUID
	Relation    OccupancyRelation
	StartDate   time.Time
	EndDate     *time.Time
}

// NewOccupancy creates a new occupancy starting at the given date
func NewOccupancy(tenantID, apartmentID, residentID uuid.UUID, relation OccupancyRelation, startDate time.Time) (*Occupancy, error) {
	if apartmentID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Apartment ID cannot be empty")
	}
	if residentID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Resident ID cannot be empty")
	}
	if !relation.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Occupancy relation is not valid")
	}
	if startDate.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Start date is required")
	}
	return &Occupancy{
		TenantEntity: shared.NewTenantEntity(tenantID),
		ApartmentID:  apartmentID,
		ResidentID:   residentID,
		Relation:     relation,
		StartDate:    startDate,
	}, nil
}

// End closes the occupancy at the given date
func (o *Occupancy) End(endDate time.Time) error {
	if endDate.Before(o.StartDate) {
		return shared.NewDomainError("VALIDATION_ERROR", "End date cannot be before start date")
	}
	if o.EndDate != nil {
		return shared.ErrInvalidState
	}
	o.EndDate = &endDate
	o.UpdatedAt = time.Now()
	return nil
}

// IsCurrent reports whether the occupancy covers the given date
func (o *Occupancy) IsCurrent(at time.Time) bool {
	if at.Before(o.StartDate) {
		return false
	}
	return o.EndDate == nil || !at.After(*o.EndDate)
}

// OccupancyRepository defines persistence operations for occupancies.
type OccupancyRepository interface {
	FindByApartment(ctx context.Context, tenantID, apartmentID uuid.UUID) ([]Occupancy, error)
	FindCurrentByResident(ctx context.Context, tenantID, residentID uuid.UUID, at time.Time) ([]Occupancy, error)
	Save(ctx context.Context, occupancy *Occupancy) error
}
