package estate

import (
	"context"

	"github.com/google/uuid"
	"github.com/strata/backend/internal/domain/shared"
)

// AccountKind distinguishes receivable categories from payable ones.
type AccountKind string

const (
	AccountKindCharge  AccountKind = "CHARGE"  // dues owed by apartments
	AccountKindExpense AccountKind = "EXPENSE" // dues owed to vendors
)

// IsValid checks if the kind is a valid AccountKind
func (k AccountKind) IsValid() bool {
	return k == AccountKindCharge || k == AccountKindExpense
}

// Account is a charge or expense category ("maintenance fund", "elevator
// contract", ...). Obligations always reference exactly one account.
type Account struct {
	shared.TenantEntity
	Name string
	Kind AccountKind
}

// NewAccount creates a new account category for the given tenant
func NewAccount(tenantID uuid.UUID, name string, kind AccountKind) (*Account, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account name cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account kind is not valid")
	}
	return &Account{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		Kind:         kind,
	}, nil
}

// AccountRepository defines the reads the ledger core needs on accounts.
type AccountRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)
	Save(ctx context.Context, account *Account) error
}
