package estate

import (
	"context"

	"github.com/google/uuid"
	"github.com/strata/backend/internal/domain/shared"
)

// Apartment represents a housing unit inside a tenant's complex. Physical
// attributes (floor, surface, block) are managed by the surrounding
// application; the ledger only needs identity, label and activity.
type Apartment struct {
	shared.TenantEntity
	Code  string // short label, e.g. "B-12"
	Label string
}

// NewApartment creates a new apartment for the given tenant
func NewApartment(tenantID uuid.UUID, code, label string) (*Apartment, error) {
	if code == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Apartment code cannot be empty")
	}
	return &Apartment{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Code:         code,
		Label:        label,
	}, nil
}

// DisplayName returns the label if present, the code otherwise
func (a *Apartment) DisplayName() string {
	if a.Label != "" {
		return a.Label
	}
	return a.Code
}

// ApartmentRepository defines the reads the ledger core needs on apartments.
type ApartmentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Apartment, error)
	FindAllActive(ctx context.Context, tenantID uuid.UUID) ([]Apartment, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Apartment, error)
	Save(ctx context.Context, apartment *Apartment) error
}
