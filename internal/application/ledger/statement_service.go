package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/strata/backend/internal/domain/ledger"
	"github.com/strata/backend/internal/domain/shared"
)

// StatementService computes cash balances and statements. Balances are
// always derived from the settlement history at read time; nothing here
// writes.
type StatementService struct {
	settlementRepo  ledger.SettlementRepository
	cashAccountRepo ledger.CashAccountRepository
}

// NewStatementService creates a new StatementService
func NewStatementService(settlementRepo ledger.SettlementRepository, cashAccountRepo ledger.CashAccountRepository) *StatementService {
	return &StatementService{
		settlementRepo:  settlementRepo,
		cashAccountRepo: cashAccountRepo,
	}
}

// CashBalanceResponse is the derived balance of one cash account
type CashBalanceResponse struct {
	CashAccountID  uuid.UUID       `json:"cash_account_id"`
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalReceipts  decimal.Decimal `json:"total_receipts"`
	TotalPayments  decimal.Decimal `json:"total_payments"`
	Balance        decimal.Decimal `json:"balance"`
	AsOf           *time.Time      `json:"as_of,omitempty"`
}

// StatementLine is one settlement row in a cash statement, carrying the
// running balance after it was applied
type StatementLine struct {
	SettlementID  uuid.UUID       `json:"settlement_id"`
	Kind          string          `json:"kind"`
	ReceiptNumber string          `json:"receipt_number,omitempty"`
	ApartmentID   *uuid.UUID      `json:"apartment_id,omitempty"`
	VendorID      *uuid.UUID      `json:"vendor_id,omitempty"`
	PaidAt        time.Time       `json:"paid_at"`
	Method        string          `json:"method"`
	Reference     string          `json:"reference,omitempty"`
	Amount        decimal.Decimal `json:"amount"` // signed: receipts positive, payments negative
	Balance       decimal.Decimal `json:"balance"`
}

// CashStatementResponse is a cash account's movement over a date range
type CashStatementResponse struct {
	CashAccountID  uuid.UUID       `json:"cash_account_id"`
	Name           string          `json:"name"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"opening_balance"` // balance just before From
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Lines          []StatementLine `json:"lines"`
}

// Balance computes a cash account's balance: opening balance plus all
// receipts minus all payments. A non-nil asOf restricts the sums to
// settlements paid strictly before it.
func (s *StatementService) Balance(ctx context.Context, tc shared.TenantContext, cashAccountID uuid.UUID, asOf *time.Time) (*CashBalanceResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	account, err := s.cashAccountRepo.FindByIDForTenant(ctx, tc.TenantID, cashAccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cash account not found")
	}

	receipts, err := s.settlementRepo.SumByCashAccount(ctx, tc.TenantID, cashAccountID, ledger.SettlementKindReceipt, asOf)
	if err != nil {
		return nil, err
	}
	payments, err := s.settlementRepo.SumByCashAccount(ctx, tc.TenantID, cashAccountID, ledger.SettlementKindPayment, asOf)
	if err != nil {
		return nil, err
	}

	return &CashBalanceResponse{
		CashAccountID:  account.ID,
		Name:           account.Name,
		OpeningBalance: account.OpeningBalance,
		TotalReceipts:  receipts,
		TotalPayments:  payments,
		Balance:        account.BalanceWith(receipts, payments),
		AsOf:           asOf,
	}, nil
}

// Statement builds a cash account statement for [from, to]: the balance
// carried into the range, every settlement inside it in paid order with a
// running balance, and the closing balance.
func (s *StatementService) Statement(ctx context.Context, tc shared.TenantContext, cashAccountID uuid.UUID, from, to time.Time) (*CashStatementResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, ledger.ErrInvalidDateRange
	}
	account, err := s.cashAccountRepo.FindByIDForTenant(ctx, tc.TenantID, cashAccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cash account not found")
	}

	carriedReceipts, err := s.settlementRepo.SumByCashAccount(ctx, tc.TenantID, cashAccountID, ledger.SettlementKindReceipt, &from)
	if err != nil {
		return nil, err
	}
	carriedPayments, err := s.settlementRepo.SumByCashAccount(ctx, tc.TenantID, cashAccountID, ledger.SettlementKindPayment, &from)
	if err != nil {
		return nil, err
	}
	opening := account.BalanceWith(carriedReceipts, carriedPayments)

	settlements, err := s.settlementRepo.FindByCashAccount(ctx, tc.TenantID, cashAccountID, from, to)
	if err != nil {
		return nil, err
	}

	statement := &CashStatementResponse{
		CashAccountID:  account.ID,
		Name:           account.Name,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		Lines:          make([]StatementLine, 0, len(settlements)),
	}

	running := opening
	for _, settlement := range settlements {
		signed := settlement.TotalAmount
		if settlement.Direction() < 0 {
			signed = signed.Neg()
		}
		running = running.Add(signed)
		statement.Lines = append(statement.Lines, StatementLine{
			SettlementID:  settlement.ID,
			Kind:          settlement.Kind.String(),
			ReceiptNumber: settlement.ReceiptNumber,
			ApartmentID:   settlement.ApartmentID,
			VendorID:      settlement.VendorID,
			PaidAt:        settlement.PaidAt,
			Method:        settlement.Method.String(),
			Reference:     settlement.Reference,
			Amount:        signed,
			Balance:       running,
		})
	}
	statement.ClosingBalance = running
	return statement, nil
}

// ListCashAccounts returns every cash account of the tenant with its derived balance
func (s *StatementService) ListCashAccounts(ctx context.Context, tc shared.TenantContext) ([]CashBalanceResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	accounts, err := s.cashAccountRepo.FindAllForTenant(ctx, tc.TenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]CashBalanceResponse, 0, len(accounts))
	for _, account := range accounts {
		balance, err := s.Balance(ctx, tc, account.ID, nil)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *balance)
	}
	return responses, nil
}
