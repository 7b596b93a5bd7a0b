package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/strata/backend/internal/domain/shared"
)

// SettlementKind distinguishes collections from disbursements.
type SettlementKind string

const (
	SettlementKindReceipt SettlementKind = "RECEIPT" // collection from an apartment
	SettlementKindPayment SettlementKind = "PAYMENT" // disbursement to a vendor
)

// IsValid checks if the kind is a valid SettlementKind
func (k SettlementKind) IsValid() bool {
	return k == SettlementKindReceipt || k == SettlementKindPayment
}

// String returns the string representation of SettlementKind
func (k SettlementKind) String() string {
	return string(k)
}

// PaymentMethod represents how money changed hands.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "CASH"
	PaymentMethodBank PaymentMethod = "BANK"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodBank
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Allocation links one settlement to one obligation with a positive amount,
// capped at the obligation's remaining balance at creation time.
type Allocation struct {
	ID           uuid.UUID       `json:"id"`
	SettlementID uuid.UUID       `json:"settlement_id"`
	ObligationID uuid.UUID       `json:"obligation_id"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewAllocation creates an allocation line item
func NewAllocation(settlementID, obligationID uuid.UUID, amount decimal.Decimal) Allocation {
	return Allocation{
		ID:           uuid.New(),
		SettlementID: settlementID,
		ObligationID: obligationID,
		Amount:       amount,
		CreatedAt:    time.Now(),
	}
}

// Settlement records a collection (Receipt) or disbursement (Payment) against
// one or more obligations. Its total is derived from its allocation items and
// is immutable after the creating transaction commits.
type Settlement struct {
	shared.TenantEntity
	Kind          SettlementKind
	CashAccountID uuid.UUID
	ApartmentID   *uuid.UUID // receipts
	VendorID      *uuid.UUID // payments
	ReceiptNumber string     // receipts only: PREFIX-YEAR-NNNNNN
	TotalAmount   decimal.Decimal
	PaidAt        time.Time
	Method        PaymentMethod
	Reference     string // optional human-readable identifier
	Items         []Allocation
}

// NewReceipt creates a receipt settlement shell with a reserved number and no
// items yet; items are attached and the total set inside the settle
// transaction.
func NewReceipt(tc shared.TenantContext, apartmentID, cashAccountID uuid.UUID, receiptNumber string, paidAt time.Time, method PaymentMethod, reference string) (*Settlement, error) {
	if err := validateSettlementInputs(tc, cashAccountID, paidAt, method); err != nil {
		return nil, err
	}
	if apartmentID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Apartment ID cannot be empty")
	}
	if receiptNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Receipt number cannot be empty")
	}
	return &Settlement{
		TenantEntity:  shared.NewTenantEntityWithCreator(tc.TenantID, tc.ActorID),
		Kind:          SettlementKindReceipt,
		CashAccountID: cashAccountID,
		ApartmentID:   &apartmentID,
		ReceiptNumber: receiptNumber,
		TotalAmount:   decimal.Zero,
		PaidAt:        paidAt,
		Method:        method,
		Reference:     reference,
		Items:         make([]Allocation, 0),
	}, nil
}

// NewPayment creates a payment settlement shell with no items yet.
func NewPayment(tc shared.TenantContext, vendorID, cashAccountID uuid.UUID, paidAt time.Time, method PaymentMethod, reference string) (*Settlement, error) {
	if err := validateSettlementInputs(tc, cashAccountID, paidAt, method); err != nil {
		return nil, err
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor ID cannot be empty")
	}
	return &Settlement{
		TenantEntity:  shared.NewTenantEntityWithCreator(tc.TenantID, tc.ActorID),
		Kind:          SettlementKindPayment,
		CashAccountID: cashAccountID,
		VendorID:      &vendorID,
		TotalAmount:   decimal.Zero,
		PaidAt:        paidAt,
		Method:        method,
		Reference:     reference,
		Items:         make([]Allocation, 0),
	}, nil
}

func validateSettlementInputs(tc shared.TenantContext, cashAccountID uuid.UUID, paidAt time.Time, method PaymentMethod) error {
	if err := tc.Validate(); err != nil {
		return err
	}
	if cashAccountID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Cash account ID cannot be empty")
	}
	if paidAt.IsZero() {
		return shared.NewDomainError("VALIDATION_ERROR", "Settlement date is required")
	}
	if !method.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment method is not valid")
	}
	return nil
}

// AddItem attaches an allocation line and accumulates the running total.
func (s *Settlement) AddItem(obligationID uuid.UUID, amount decimal.Decimal) Allocation {
	item := NewAllocation(s.ID, obligationID, amount)
	s.Items = append(s.Items, item)
	s.TotalAmount = s.TotalAmount.Add(amount)
	s.UpdatedAt = time.Now()
	return item
}

// ItemSum returns the sum of all allocation item amounts. The settlement
// invariant is TotalAmount == ItemSum().
func (s *Settlement) ItemSum() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range s.Items {
		sum = sum.Add(it.Amount)
	}
	return sum
}

// Direction returns +1 for receipts (money in) and -1 for payments (money
// out) from the cash account's point of view.
func (s *Settlement) Direction() int {
	if s.Kind == SettlementKindReceipt {
		return 1
	}
	return -1
}
