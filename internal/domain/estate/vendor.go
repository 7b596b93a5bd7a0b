package estate

import (
	"context"

	"github.com/google/uuid"
	"github.com/strata/backend/internal/domain/shared"
)

// Vendor represents a supplier the organization owes money to. Contact
// details are managed outside the ledger core.
type Vendor struct {
	shared.TenantEntity
	Name string
}

// NewVendor creates a new vendor for the given tenant
func NewVendor(tenantID uuid.UUID, name string) (*Vendor, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor name cannot be empty")
	}
	return &Vendor{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
	}, nil
}

// VendorRepository defines the reads the ledger core needs on vendors.
type VendorRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Vendor, error)
	Save(ctx context.Context, vendor *Vendor) error
}
