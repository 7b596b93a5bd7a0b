package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/strata/backend/internal/domain/ledger"
	"github.com/strata/backend/internal/domain/shared"
)

// receiptNumberPrefix is the fixed lead of every receipt number. The full
// shape is RCP-<year>-<six digit sequence>, with the sequence restarting at
// one each year per tenant.
const receiptNumberPrefix = "RCP"

// AllocationService settles money against obligations. Every settlement and
// all of its allocation items are written in one database transaction, so a
// settlement is either fully recorded with every capped item and updated
// paid amount, or not recorded at all.
type AllocationService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(scope TransactionScope, logger *zap.Logger) *AllocationService {
	return &AllocationService{scope: scope, logger: logger}
}

// AllocationRequest asks for an amount to be applied to one obligation. The
// amount is a ceiling: the applied amount is capped to the obligation's
// remaining balance at lock time.
type AllocationRequest struct {
	ObligationID uuid.UUID       `json:"obligation_id" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// SettleReceivableRequest collects money from an apartment against its charges
type SettleReceivableRequest struct {
	ApartmentID   uuid.UUID           `json:"apartment_id" binding:"required"`
	CashAccountID uuid.UUID           `json:"cash_account_id" binding:"required"`
	PaidAt        time.Time           `json:"paid_at" binding:"required"`
	Method        string              `json:"method" binding:"required"`
	Reference     string              `json:"reference"`
	Allocations   []AllocationRequest `json:"allocations" binding:"required"`
}

// SettlePayableRequest pays a vendor against its expenses
type SettlePayableRequest struct {
	VendorID      uuid.UUID           `json:"vendor_id" binding:"required"`
	CashAccountID uuid.UUID           `json:"cash_account_id" binding:"required"`
	PaidAt        time.Time           `json:"paid_at" binding:"required"`
	Method        string              `json:"method" binding:"required"`
	Reference     string              `json:"reference"`
	Allocations   []AllocationRequest `json:"allocations" binding:"required"`
}

// AllocationResponse represents one applied allocation item
type AllocationResponse struct {
	ID           uuid.UUID       `json:"id"`
	ObligationID uuid.UUID       `json:"obligation_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// SettlementResponse represents a settlement in API responses
type SettlementResponse struct {
	ID            uuid.UUID            `json:"id"`
	TenantID      uuid.UUID            `json:"tenant_id"`
	Kind          string               `json:"kind"`
	CashAccountID uuid.UUID            `json:"cash_account_id"`
	ApartmentID   *uuid.UUID           `json:"apartment_id,omitempty"`
	VendorID      *uuid.UUID           `json:"vendor_id,omitempty"`
	ReceiptNumber string               `json:"receipt_number,omitempty"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	PaidAt        time.Time            `json:"paid_at"`
	Method        string               `json:"method"`
	Reference     string               `json:"reference,omitempty"`
	Items         []AllocationResponse `json:"items"`
	CreatedAt     time.Time            `json:"created_at"`
}

func toSettlementResponse(s *ledger.Settlement) *SettlementResponse {
	resp := &SettlementResponse{
		ID:            s.ID,
		TenantID:      s.TenantID,
		Kind:          s.Kind.String(),
		CashAccountID: s.CashAccountID,
		ApartmentID:   s.ApartmentID,
		VendorID:      s.VendorID,
		ReceiptNumber: s.ReceiptNumber,
		TotalAmount:   s.TotalAmount,
		PaidAt:        s.PaidAt,
		Method:        s.Method.String(),
		Reference:     s.Reference,
		CreatedAt:     s.CreatedAt,
	}
	for _, item := range s.Items {
		resp.Items = append(resp.Items, AllocationResponse{
			ID:           item.ID,
			ObligationID: item.ObligationID,
			Amount:       item.Amount,
		})
	}
	return resp
}

// SettleReceivable collects money from an apartment and spreads it over the
// requested charges. Each allocation is capped to the charge's remaining
// balance under a row lock, so concurrent settlements against the same
// charge can never overpay it. When every allocation caps to zero the whole
// transaction rolls back and a nil response is returned.
//
// The receipt number is reserved inside the same transaction while holding
// an exclusive lock on the tenant row, which serializes numbering across
// concurrent settlements: committed numbers are gapless and strictly
// increasing within a tenant and year.
func (s *AllocationService) SettleReceivable(ctx context.Context, tc shared.TenantContext, req SettleReceivableRequest) (*SettlementResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if req.ApartmentID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Apartment ID cannot be empty")
	}
	if err := validateAllocations(req.Allocations); err != nil {
		return nil, err
	}
	ctx = shared.WithTenant(ctx, tc.TenantID)

	var settlement *ledger.Settlement
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := s.ensureCashAccount(ctx, repos, tc.TenantID, req.CashAccountID); err != nil {
			return err
		}

		number, err := s.nextReceiptNumber(ctx, repos, tc.TenantID, req.PaidAt)
		if err != nil {
			return err
		}

		settlement, err = ledger.NewReceipt(tc, req.ApartmentID, req.CashAccountID,
			number, req.PaidAt, ledger.PaymentMethod(req.Method), req.Reference)
		if err != nil {
			return err
		}
		if err := repos.Settlements().Create(ctx, settlement); err != nil {
			return err
		}

		return s.applyAllocations(ctx, repos, tc.TenantID, settlement, req.Allocations, verifyChargeTarget(req.ApartmentID))
	})
	if err != nil {
		if errors.Is(err, ledger.ErrNothingToAllocate) {
			s.logger.Info("settlement skipped, nothing left to allocate",
				zap.String("tenant_id", tc.TenantID.String()),
				zap.String("apartment_id", req.ApartmentID.String()))
			return nil, nil
		}
		return nil, err
	}
	return toSettlementResponse(settlement), nil
}

// SettlePayable pays a vendor and spreads the money over the requested
// expenses, with the same capping and atomicity as SettleReceivable.
// Payments do not carry receipt numbers.
func (s *AllocationService) SettlePayable(ctx context.Context, tc shared.TenantContext, req SettlePayableRequest) (*SettlementResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if req.VendorID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor ID cannot be empty")
	}
	if err := validateAllocations(req.Allocations); err != nil {
		return nil, err
	}
	ctx = shared.WithTenant(ctx, tc.TenantID)

	var settlement *ledger.Settlement
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := s.ensureCashAccount(ctx, repos, tc.TenantID, req.CashAccountID); err != nil {
			return err
		}

		var err error
		settlement, err = ledger.NewPayment(tc, req.VendorID, req.CashAccountID,
			req.PaidAt, ledger.PaymentMethod(req.Method), req.Reference)
		if err != nil {
			return err
		}
		if err := repos.Settlements().Create(ctx, settlement); err != nil {
			return err
		}

		return s.applyAllocations(ctx, repos, tc.TenantID, settlement, req.Allocations, verifyExpenseTarget(req.VendorID))
	})
	if err != nil {
		if errors.Is(err, ledger.ErrNothingToAllocate) {
			s.logger.Info("payment skipped, nothing left to allocate",
				zap.String("tenant_id", tc.TenantID.String()),
				zap.String("vendor_id", req.VendorID.String()))
			return nil, nil
		}
		return nil, err
	}
	return toSettlementResponse(settlement), nil
}

// CollectCharge is a single-obligation convenience wrapper over SettleReceivable
func (s *AllocationService) CollectCharge(ctx context.Context, tc shared.TenantContext, chargeID, apartmentID, cashAccountID uuid.UUID, amount decimal.Decimal, paidAt time.Time, method, reference string) (*SettlementResponse, error) {
	return s.SettleReceivable(ctx, tc, SettleReceivableRequest{
		ApartmentID:   apartmentID,
		CashAccountID: cashAccountID,
		PaidAt:        paidAt,
		Method:        method,
		Reference:     reference,
		Allocations:   []AllocationRequest{{ObligationID: chargeID, Amount: amount}},
	})
}

// PayExpense is a single-obligation convenience wrapper over SettlePayable
func (s *AllocationService) PayExpense(ctx context.Context, tc shared.TenantContext, expenseID, vendorID, cashAccountID uuid.UUID, amount decimal.Decimal, paidAt time.Time, method, reference string) (*SettlementResponse, error) {
	return s.SettlePayable(ctx, tc, SettlePayableRequest{
		VendorID:      vendorID,
		CashAccountID: cashAccountID,
		PaidAt:        paidAt,
		Method:        method,
		Reference:     reference,
		Allocations:   []AllocationRequest{{ObligationID: expenseID, Amount: amount}},
	})
}

// GetSettlement gets a settlement with its allocation items
func (s *AllocationService) GetSettlement(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*SettlementResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	var settlement *ledger.Settlement
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		settlement, err = repos.Settlements().FindByIDForTenant(ctx, tc.TenantID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Settlement not found")
	}
	return toSettlementResponse(settlement), nil
}

// nextReceiptNumber reserves the next receipt number for the tenant and the
// settlement year. It must run inside the settle transaction: the tenant row
// lock is what serializes concurrent reservations.
func (s *AllocationService) nextReceiptNumber(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, paidAt time.Time) (string, error) {
	if err := repos.Tenants().LockByID(ctx, tenantID); err != nil {
		return "", err
	}
	prefix := fmt.Sprintf("%s-%04d", receiptNumberPrefix, paidAt.Year())
	last, err := repos.Settlements().MaxReceiptSequence(ctx, tenantID, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", prefix, last+1), nil
}

// targetCheck verifies that a locked obligation may be settled by the
// settlement being built.
type targetCheck func(o *ledger.Obligation) error

func verifyChargeTarget(apartmentID uuid.UUID) targetCheck {
	return func(o *ledger.Obligation) error {
		if o.Kind != ledger.ObligationKindCharge {
			return shared.NewDomainError("VALIDATION_ERROR", "Receipts can only settle charges")
		}
		if o.ApartmentID == nil || *o.ApartmentID != apartmentID {
			return shared.NewDomainError("VALIDATION_ERROR", "Charge belongs to a different apartment")
		}
		return nil
	}
}

func verifyExpenseTarget(vendorID uuid.UUID) targetCheck {
	return func(o *ledger.Obligation) error {
		if o.Kind != ledger.ObligationKindExpense {
			return shared.NewDomainError("VALIDATION_ERROR", "Payments can only settle expenses")
		}
		if o.VendorID == nil || *o.VendorID != vendorID {
			return shared.NewDomainError("VALIDATION_ERROR", "Expense belongs to a different vendor")
		}
		return nil
	}
}

// applyAllocations locks each requested obligation, caps the requested amount
// to its remaining balance, persists the item, and recomputes the paid amount
// from the full allocation sum. Fully settled obligations are skipped. When
// nothing at all could be applied, ErrNothingToAllocate rolls the whole
// settlement back.
func (s *AllocationService) applyAllocations(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, settlement *ledger.Settlement, requests []AllocationRequest, check targetCheck) error {
	for _, req := range requests {
		obligation, err := repos.Obligations().FindByIDForUpdate(ctx, tenantID, req.ObligationID)
		if err != nil {
			return err
		}
		if obligation == nil {
			return shared.NewDomainError("NOT_FOUND", "Obligation not found")
		}
		if err := check(obligation); err != nil {
			return err
		}

		applied := decimal.Min(req.Amount, obligation.Remaining())
		if !applied.IsPositive() {
			continue
		}

		item := settlement.AddItem(obligation.ID, applied)
		if err := repos.Settlements().AddItem(ctx, &item); err != nil {
			return err
		}

		allocated, err := repos.Settlements().SumAllocationsForObligation(ctx, obligation.ID)
		if err != nil {
			return err
		}
		obligation.RecomputePaid(allocated)
		if err := repos.Obligations().UpdatePaidAmount(ctx, tenantID, obligation.ID, obligation.PaidAmount); err != nil {
			return err
		}
	}

	if !settlement.TotalAmount.IsPositive() {
		return ledger.ErrNothingToAllocate
	}
	return repos.Settlements().UpdateTotal(ctx, tenantID, settlement.ID, settlement.TotalAmount)
}

func validateAllocations(requests []AllocationRequest) error {
	if len(requests) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "At least one allocation is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(requests))
	for _, req := range requests {
		if req.ObligationID == uuid.Nil {
			return shared.NewDomainError("VALIDATION_ERROR", "Allocation obligation ID cannot be empty")
		}
		if !req.Amount.IsPositive() {
			return shared.NewDomainError("VALIDATION_ERROR", "Allocation amount must be positive")
		}
		if _, dup := seen[req.ObligationID]; dup {
			return shared.NewDomainError("VALIDATION_ERROR", "Duplicate obligation in allocation list")
		}
		seen[req.ObligationID] = struct{}{}
	}
	return nil
}

func (s *AllocationService) ensureCashAccount(ctx context.Context, repos TransactionalRepositories, tenantID, cashAccountID uuid.UUID) error {
	account, err := repos.CashAccounts().FindByIDForTenant(ctx, tenantID, cashAccountID)
	if err != nil {
		return err
	}
	if account == nil || !account.IsActive() {
		return shared.NewDomainError("NOT_FOUND", "Cash account not found")
	}
	return nil
}
