package ledger

import (
	"context"

	"github.com/strata/backend/internal/domain/identity"
	"github.com/strata/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories a settlement
// touches within one transaction. All repositories returned share the same
// underlying database transaction.
//
// The tenant repository is included because receipt numbering serializes on
// the tenant row: the settlement flow locks the tenant before scanning for
// the highest committed sequence.
type TransactionalRepositories interface {
	// Obligations returns the obligation repository scoped to the current transaction
	Obligations() ledger.ObligationRepository
	// Settlements returns the settlement repository scoped to the current transaction
	Settlements() ledger.SettlementRepository
	// CashAccounts returns the cash account repository scoped to the current transaction
	CashAccounts() ledger.CashAccountRepository
	// Tenants returns the tenant repository scoped to the current transaction
	Tenants() identity.TenantRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	obligationRepo  ledger.ObligationRepository
	settlementRepo  ledger.SettlementRepository
	cashAccountRepo ledger.CashAccountRepository
	tenantRepo      identity.TenantRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	obligationRepo ledger.ObligationRepository,
	settlementRepo ledger.SettlementRepository,
	cashAccountRepo ledger.CashAccountRepository,
	tenantRepo identity.TenantRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		obligationRepo:  obligationRepo,
		settlementRepo:  settlementRepo,
		cashAccountRepo: cashAccountRepo,
		tenantRepo:      tenantRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Obligations returns the obligation repository.
func (s *NoOpTransactionScope) Obligations() ledger.ObligationRepository {
	return s.obligationRepo
}

// Settlements returns the settlement repository.
func (s *NoOpTransactionScope) Settlements() ledger.SettlementRepository {
	return s.settlementRepo
}

// CashAccounts returns the cash account repository.
func (s *NoOpTransactionScope) CashAccounts() ledger.CashAccountRepository {
	return s.cashAccountRepo
}

// Tenants returns the tenant repository.
func (s *NoOpTransactionScope) Tenants() identity.TenantRepository {
	return s.tenantRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
