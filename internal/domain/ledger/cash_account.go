package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/strata/backend/internal/domain/shared"
)

// CashAccount is a cash register or bank account the tenant collects into
// and pays from. Its balance is derived: opening balance plus receipts minus
// payments; nothing is persisted beyond the opening balance.
type CashAccount struct {
	shared.TenantEntity
	Name           string
	OpeningBalance decimal.Decimal
}

// NewCashAccount creates a cash account with the given opening balance
func NewCashAccount(tenantID uuid.UUID, name string, openingBalance decimal.Decimal) (*CashAccount, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cash account name cannot be empty")
	}
	return &CashAccount{
		TenantEntity:   shared.NewTenantEntity(tenantID),
		Name:           name,
		OpeningBalance: openingBalance,
	}, nil
}

// BalanceWith computes the derived balance from settlement sums
func (a *CashAccount) BalanceWith(receiptsTotal, paymentsTotal decimal.Decimal) decimal.Decimal {
	return a.OpeningBalance.Add(receiptsTotal).Sub(paymentsTotal)
}
