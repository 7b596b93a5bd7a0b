package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/strata/backend/internal/domain/shared"
)

// Tenant represents a managed residential complex. All ledger data is scoped
// to exactly one tenant; the tenant row additionally serves as the lock anchor
// for receipt-number issuance.
type Tenant struct {
	shared.BaseEntity
	Name     string
	Timezone string
}

// NewTenant creates a new active tenant
func NewTenant(name string) (*Tenant, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Tenant name cannot be empty")
	}
	return &Tenant{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// Decommission marks the tenant archived. The actual purge of tenant data is
// owned by an external workflow.
func (t *Tenant) Decommission() error {
	if !t.IsActive() {
		return shared.ErrInvalidState
	}
	t.Status = shared.RecordStatusArchived
	t.UpdatedAt = time.Now()
	return nil
}

// TenantRepository defines persistence operations for tenants.
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindAllActive(ctx context.Context) ([]Tenant, error)
	Save(ctx context.Context, tenant *Tenant) error

	// LockByID acquires an exclusive row lock on the tenant, serializing all
	// receipt numbering for that tenant until the surrounding transaction
	// ends. Must be called inside a transaction.
	LockByID(ctx context.Context, id uuid.UUID) error
}
