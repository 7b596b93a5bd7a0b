package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/strata/backend/internal/domain/shared"
	"github.com/strata/backend/internal/domain/shared/valueobject"
)

// ObligationKind distinguishes the two sides of the ledger.
type ObligationKind string

const (
	ObligationKindCharge  ObligationKind = "CHARGE"  // receivable: owed by an apartment
	ObligationKindExpense ObligationKind = "EXPENSE" // payable: owed to a vendor
)

// IsValid checks if the kind is a valid ObligationKind
func (k ObligationKind) IsValid() bool {
	return k == ObligationKindCharge || k == ObligationKindExpense
}

// String returns the string representation of ObligationKind
func (k ObligationKind) String() string {
	return string(k)
}

// ObligationStatus is derived from (amount, paid_amount, due_date, today).
// It is never stored; persistence keeps only amount and paid_amount.
type ObligationStatus string

const (
	// Charge statuses
	ObligationStatusPaid    ObligationStatus = "PAID"
	ObligationStatusOverdue ObligationStatus = "OVERDUE"
	ObligationStatusOpen    ObligationStatus = "OPEN"
	// Expense statuses (Paid is shared)
	ObligationStatusPartial ObligationStatus = "PARTIAL"
	ObligationStatusUnpaid  ObligationStatus = "UNPAID"
)

// String returns the string representation of ObligationStatus
func (s ObligationStatus) String() string {
	return string(s)
}

// Obligation represents an amount owed: a Charge owed by an apartment or an
// Expense owed to a vendor. Amount is fixed at creation; paid_amount is only
// ever set by recomputation from allocation items.
type Obligation struct {
	shared.TenantEntity
	Kind        ObligationKind
	AccountID   uuid.UUID
	ApartmentID *uuid.UUID // set for charges
	VendorID    *uuid.UUID // set for expenses
	Description string
	Amount      decimal.Decimal
	PaidAmount  decimal.Decimal
	DueDate     time.Time
	ExpenseDate *time.Time // expenses: the date the expense was incurred
	Period      Period     // charges: the billed year-month
}

// NewCharge creates a receivable obligation owed by an apartment.
func NewCharge(tc shared.TenantContext, apartmentID, accountID uuid.UUID, amount valueobject.Money, dueDate time.Time, period Period, description string) (*Obligation, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if apartmentID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Apartment ID cannot be empty")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Charge amount must be positive")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Due date is required")
	}
	if period.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Period is required")
	}

	o := &Obligation{
		TenantEntity: shared.NewTenantEntityWithCreator(tc.TenantID, tc.ActorID),
		Kind:         ObligationKindCharge,
		AccountID:    accountID,
		ApartmentID:  &apartmentID,
		Description:  description,
		Amount:       amount.Amount(),
		PaidAmount:   decimal.Zero,
		DueDate:      dueDate,
		Period:       period,
	}
	return o, nil
}

// NewExpense creates a payable obligation owed to a vendor.
func NewExpense(tc shared.TenantContext, vendorID, accountID uuid.UUID, amount valueobject.Money, expenseDate, dueDate time.Time, description string) (*Obligation, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor ID cannot be empty")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Expense amount must be positive")
	}
	if expenseDate.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Expense date is required")
	}
	if dueDate.IsZero() {
		dueDate = expenseDate
	}

	o := &Obligation{
		TenantEntity: shared.NewTenantEntityWithCreator(tc.TenantID, tc.ActorID),
		Kind:         ObligationKindExpense,
		AccountID:    accountID,
		VendorID:     &vendorID,
		Description:  description,
		Amount:       amount.Amount(),
		PaidAmount:   decimal.Zero,
		DueDate:      dueDate,
		ExpenseDate:  &expenseDate,
		Period:       PeriodOf(expenseDate),
	}
	return o, nil
}

// Remaining returns max(0, amount - paid_amount).
func (o *Obligation) Remaining() decimal.Decimal {
	r := o.Amount.Sub(o.PaidAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// IsSettled returns true once the obligation is fully paid
func (o *Obligation) IsSettled() bool {
	return o.PaidAmount.GreaterThanOrEqual(o.Amount)
}

// StatusAt derives the obligation status for the given reference date.
// Charges are Paid / Overdue / Open; expenses are Paid / Partial / Unpaid.
func (o *Obligation) StatusAt(today time.Time) ObligationStatus {
	if o.IsSettled() {
		return ObligationStatusPaid
	}
	if o.Kind == ObligationKindCharge {
		if o.DueDate.Before(truncateToDay(today)) {
			return ObligationStatusOverdue
		}
		return ObligationStatusOpen
	}
	if o.PaidAmount.GreaterThan(decimal.Zero) {
		return ObligationStatusPartial
	}
	return ObligationStatusUnpaid
}

// Status derives the obligation status as of now
func (o *Obligation) Status() ObligationStatus {
	return o.StatusAt(time.Now())
}

// RecomputePaid sets the paid amount to the full sum of the obligation's
// allocation items. Recomputation is idempotent: re-running it after a
// double-processed allocation cannot drift the total.
func (o *Obligation) RecomputePaid(allocatedSum decimal.Decimal) {
	o.PaidAmount = allocatedSum
	o.UpdatedAt = time.Now()
}

// CanDelete reports whether the obligation may be archived. Obligations with
// any collected amount are protected: allocation items point at them.
func (o *Obligation) CanDelete() bool {
	return o.PaidAmount.LessThanOrEqual(decimal.Zero)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
