package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ObligationFilter defines filtering options for obligation list queries
type ObligationFilter struct {
	AccountID   *uuid.UUID
	ApartmentID *uuid.UUID
	VendorID    *uuid.UUID
	Period      *Period
	DueFrom     *time.Time
	DueTo       *time.Time
	Unsettled   bool // only obligations with remaining > 0
	Page        int
	PageSize    int
}

// ApartmentDebt is a per-apartment receivable rollup row
type ApartmentDebt struct {
	ApartmentID uuid.UUID
	TotalAmount decimal.Decimal
	TotalPaid   decimal.Decimal
	Outstanding decimal.Decimal
}

// VendorPayable is a per-vendor payable rollup row
type VendorPayable struct {
	VendorID    uuid.UUID
	TotalAmount decimal.Decimal
	TotalPaid   decimal.Decimal
	Outstanding decimal.Decimal
}

// ObligationRepository defines persistence operations for obligations.
// Every scoped method requires a tenant id; FindByIDUnscoped exists only for
// the external tenant-decommissioning workflow.
type ObligationRepository interface {
	Create(ctx context.Context, obligation *Obligation) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Obligation, error)
	FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*Obligation, error)

	// FindByIDForUpdate loads the obligation under an exclusive row lock,
	// serializing concurrent settlements against it. Must run inside a
	// transaction.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Obligation, error)

	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, kind ObligationKind, filter ObligationFilter) ([]Obligation, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, kind ObligationKind, filter ObligationFilter) (int64, error)

	// ExistsCharge probes the (tenant, apartment, period, account) key that
	// backs idempotent recurring generation.
	ExistsCharge(ctx context.Context, tenantID, apartmentID uuid.UUID, period Period, accountID uuid.UUID) (bool, error)

	// UpdatePaidAmount persists a recomputed paid amount.
	UpdatePaidAmount(ctx context.Context, tenantID, id uuid.UUID, paidAmount decimal.Decimal) error

	// Archive soft-deletes the obligation. Callers are responsible for the
	// paid-amount guard.
	Archive(ctx context.Context, tenantID, id uuid.UUID) error

	// Rollups for the report aggregators.
	DebtByApartment(ctx context.Context, tenantID uuid.UUID) ([]ApartmentDebt, error)
	PayablesByVendor(ctx context.Context, tenantID uuid.UUID) ([]VendorPayable, error)
}

// SettlementRepository defines persistence operations for settlements and
// their allocation items.
type SettlementRepository interface {
	// Create persists the settlement shell (no items, total zero).
	Create(ctx context.Context, settlement *Settlement) error

	// AddItem persists one allocation line.
	AddItem(ctx context.Context, item *Allocation) error

	// UpdateTotal sets the settlement's derived total once all items exist.
	UpdateTotal(ctx context.Context, tenantID, id uuid.UUID, total decimal.Decimal) error

	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Settlement, error)

	// SumAllocationsForObligation returns the full sum of allocation amounts
	// pointing at the obligation, across all settlements.
	SumAllocationsForObligation(ctx context.Context, obligationID uuid.UUID) (decimal.Decimal, error)

	// FindByCashAccount returns settlements of both kinds for the account
	// with paid_at inside [from, to], ordered by paid_at ascending.
	FindByCashAccount(ctx context.Context, tenantID, cashAccountID uuid.UUID, from, to time.Time) ([]Settlement, error)

	// SumByCashAccount totals settlement amounts of one kind for the
	// account, restricted to paid_at strictly before the cutoff when before
	// is non-nil.
	SumByCashAccount(ctx context.Context, tenantID, cashAccountID uuid.UUID, kind SettlementKind, before *time.Time) (decimal.Decimal, error)

	// MaxReceiptSequence returns the highest committed receipt sequence for
	// the tenant and number prefix, holding row locks on the scanned rows.
	// Must run inside a transaction, after the tenant row lock is held.
	MaxReceiptSequence(ctx context.Context, tenantID uuid.UUID, prefix string) (int, error)
}

// CashAccountRepository defines persistence operations for cash accounts.
type CashAccountRepository interface {
	Create(ctx context.Context, account *CashAccount) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CashAccount, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]CashAccount, error)
}

// TemplateRepository defines persistence operations for recurring templates.
// Templates are administered outside the core; the generator only reads them
// and stamps expense templates.
type TemplateRepository interface {
	SaveChargeTemplate(ctx context.Context, template *ChargeTemplate) error
	SaveExpenseTemplate(ctx context.Context, template *ExpenseTemplate) error
	FindActiveChargeTemplates(ctx context.Context, tenantID uuid.UUID) ([]ChargeTemplate, error)
	FindActiveExpenseTemplates(ctx context.Context, tenantID uuid.UUID) ([]ExpenseTemplate, error)

	// MarkExpenseGenerated stamps last_generated_at after a generation run.
	MarkExpenseGenerated(ctx context.Context, tenantID, templateID uuid.UUID, at time.Time) error
}
