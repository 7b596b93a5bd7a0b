package persistence

import (
	"context"

	"gorm.io/gorm"

	appledger "github.com/strata/backend/internal/application/ledger"
	"github.com/strata/backend/internal/domain/identity"
	"github.com/strata/backend/internal/domain/ledger"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Obligations returns the obligation repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Obligations() ledger.ObligationRepository {
	return NewGormObligationRepository(r.tx)
}

// Settlements returns the settlement repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Settlements() ledger.SettlementRepository {
	return NewGormSettlementRepository(r.tx)
}

// CashAccounts returns the cash account repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CashAccounts() ledger.CashAccountRepository {
	return NewGormCashAccountRepository(r.tx)
}

// Tenants returns the tenant repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Tenants() identity.TenantRepository {
	return NewGormTenantRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appledger.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
