package ledger

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/strata/backend/internal/domain/shared"
)

// ApartmentIDList is the explicit apartment set of a SELECTED-scope charge
// template, stored as a JSONB array.
type ApartmentIDList []uuid.UUID

// Value implements driver.Valuer for GORM to store as JSONB
func (l ApartmentIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (l *ApartmentIDList) Scan(value interface{}) error {
	if value == nil {
		*l = ApartmentIDList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ApartmentIDList", value)
	}
	return json.Unmarshal(bytes, l)
}

// ChargeTemplateScope selects which apartments a charge template targets.
type ChargeTemplateScope string

const (
	ChargeScopeAllApartments ChargeTemplateScope = "ALL"      // every active apartment in the tenant
	ChargeScopeSelected      ChargeTemplateScope = "SELECTED" // the template's explicit apartment set
)

// IsValid checks if the scope is a valid ChargeTemplateScope
func (s ChargeTemplateScope) IsValid() bool {
	return s == ChargeScopeAllApartments || s == ChargeScopeSelected
}

// ChargeTemplate describes a recurring monthly charge materialized once per
// period per target apartment. Idempotency is anchored on the
// (tenant, apartment, period, account) uniqueness constraint, not on any
// state kept here.
type ChargeTemplate struct {
	shared.TenantEntity
	Name         string
	AccountID    uuid.UUID
	Amount       decimal.Decimal
	DueDay       int // 1-31, clipped to the generated month's length
	Scope        ChargeTemplateScope
	ApartmentIDs ApartmentIDList // used when Scope == SELECTED
	Active       bool
}

// NewChargeTemplate creates an active charge template
func NewChargeTemplate(tenantID uuid.UUID, name string, accountID uuid.UUID, amount decimal.Decimal, dueDay int, scope ChargeTemplateScope, apartmentIDs ApartmentIDList) (*ChargeTemplate, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Template name cannot be empty")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Template amount must be positive")
	}
	if dueDay < 1 || dueDay > 31 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Due day must be between 1 and 31")
	}
	if !scope.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Template scope is not valid")
	}
	if scope == ChargeScopeSelected && len(apartmentIDs) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Selected scope requires at least one apartment")
	}
	return &ChargeTemplate{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		AccountID:    accountID,
		Amount:       amount,
		DueDay:       dueDay,
		Scope:        scope,
		ApartmentIDs: apartmentIDs,
		Active:       true,
	}, nil
}

// ExpensePeriodUnit is the recurrence interval of an expense template.
type ExpensePeriodUnit string

const (
	ExpenseEveryMonth   ExpensePeriodUnit = "MONTHLY"
	ExpenseEveryQuarter ExpensePeriodUnit = "QUARTERLY"
	ExpenseEveryYear    ExpensePeriodUnit = "YEARLY"
)

// IsValid checks if the unit is a valid ExpensePeriodUnit
func (u ExpensePeriodUnit) IsValid() bool {
	switch u {
	case ExpenseEveryMonth, ExpenseEveryQuarter, ExpenseEveryYear:
		return true
	}
	return false
}

// Months returns the recurrence interval in months
func (u ExpensePeriodUnit) Months() int {
	switch u {
	case ExpenseEveryQuarter:
		return 3
	case ExpenseEveryYear:
		return 12
	default:
		return 1
	}
}

// ExpenseTemplate describes a recurring vendor expense. Unlike charges there
// is no uniqueness constraint backing this pass: eligibility is decided from
// last_generated_at, so the generator must not run concurrently with itself.
type ExpenseTemplate struct {
	shared.TenantEntity
	Name            string
	VendorID        uuid.UUID
	AccountID       uuid.UUID
	Amount          decimal.Decimal
	DueDay          int // 1-31, clipped
	Every           ExpensePeriodUnit
	Active          bool
	LastGeneratedAt *time.Time
}

// NewExpenseTemplate creates an active expense template
func NewExpenseTemplate(tenantID uuid.UUID, name string, vendorID, accountID uuid.UUID, amount decimal.Decimal, dueDay int, every ExpensePeriodUnit) (*ExpenseTemplate, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Template name cannot be empty")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Vendor ID cannot be empty")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Template amount must be positive")
	}
	if dueDay < 1 || dueDay > 31 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Due day must be between 1 and 31")
	}
	if !every.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Recurrence unit is not valid")
	}
	return &ExpenseTemplate{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		VendorID:     vendorID,
		AccountID:    accountID,
		Amount:       amount,
		DueDay:       dueDay,
		Every:        every,
		Active:       true,
	}, nil
}

// ShouldGenerate reports whether the template is due for generation today:
// never generated before, or at least one full recurrence interval of
// calendar months has elapsed since the last generation.
func (t *ExpenseTemplate) ShouldGenerate(today time.Time) bool {
	if !t.Active {
		return false
	}
	if t.LastGeneratedAt == nil {
		return true
	}
	elapsed := PeriodOf(today).MonthsSince(PeriodOf(*t.LastGeneratedAt))
	return elapsed >= t.Every.Months()
}

// MarkGenerated stamps the template after a successful generation
func (t *ExpenseTemplate) MarkGenerated(at time.Time) {
	t.LastGeneratedAt = &at
	t.UpdatedAt = time.Now()
}
