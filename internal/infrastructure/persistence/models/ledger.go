package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/strata/backend/internal/domain/ledger"
)

// ObligationModel is the persistence model for the Obligation entity.
// The composite unique index on (tenant_id, apartment_id, period, account_id)
// backs idempotent charge generation; expenses never collide with it because
// their apartment_id is NULL.
type ObligationModel struct {
	TenantModel
	Kind        ledger.ObligationKind `gorm:"type:varchar(20);not null;index"`
	AccountID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	ApartmentID *uuid.UUID            `gorm:"type:uuid;index"`
	VendorID    *uuid.UUID            `gorm:"type:uuid;index"`
	Description string                `gorm:"type:text"`
	Amount      decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	PaidAmount  decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	DueDate     time.Time             `gorm:"not null;index"`
	ExpenseDate *time.Time
	Period      string `gorm:"type:varchar(7);not null;index"`
}

// TableName returns the table name for GORM
func (ObligationModel) TableName() string {
	return "obligations"
}

// ToDomain converts the persistence model to a domain Obligation entity
func (m *ObligationModel) ToDomain() *ledger.Obligation {
	period, _ := ledger.ParsePeriod(m.Period)
	return &ledger.Obligation{
		TenantEntity: m.TenantModel.ToDomain(),
		Kind:         m.Kind,
		AccountID:    m.AccountID,
		ApartmentID:  m.ApartmentID,
		VendorID:     m.VendorID,
		Description:  m.Description,
		Amount:       m.Amount,
		PaidAmount:   m.PaidAmount,
		DueDate:      m.DueDate,
		ExpenseDate:  m.ExpenseDate,
		Period:       period,
	}
}

// FromDomain populates the persistence model from a domain Obligation entity
func (m *ObligationModel) FromDomain(o *ledger.Obligation) {
	m.FromDomainTenantEntity(o.TenantEntity)
	m.Kind = o.Kind
	m.AccountID = o.AccountID
	m.ApartmentID = o.ApartmentID
	m.VendorID = o.VendorID
	m.Description = o.Description
	m.Amount = o.Amount
	m.PaidAmount = o.PaidAmount
	m.DueDate = o.DueDate
	m.ExpenseDate = o.ExpenseDate
	m.Period = o.Period.String()
}

// SettlementModel is the persistence model for the Settlement entity.
// Receipt numbers are unique per tenant; payments leave the column NULL.
type SettlementModel struct {
	TenantModel
	Kind          ledger.SettlementKind `gorm:"type:varchar(20);not null;index"`
	CashAccountID uuid.UUID             `gorm:"type:uuid;not null;index"`
	ApartmentID   *uuid.UUID            `gorm:"type:uuid;index"`
	VendorID      *uuid.UUID            `gorm:"type:uuid;index"`
	ReceiptNumber *string               `gorm:"type:varchar(50);uniqueIndex:idx_settlement_tenant_receipt,priority:2"`
	TotalAmount   decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAt        time.Time             `gorm:"not null;index"`
	Method        ledger.PaymentMethod  `gorm:"type:varchar(20);not null"`
	Reference     string                `gorm:"type:varchar(200)"`
	Items         []AllocationModel     `gorm:"foreignKey:SettlementID;references:ID"`
}

// TableName returns the table name for GORM
func (SettlementModel) TableName() string {
	return "settlements"
}

// ToDomain converts the persistence model to a domain Settlement entity
func (m *SettlementModel) ToDomain() *ledger.Settlement {
	s := &ledger.Settlement{
		TenantEntity:  m.TenantModel.ToDomain(),
		Kind:          m.Kind,
		CashAccountID: m.CashAccountID,
		ApartmentID:   m.ApartmentID,
		VendorID:      m.VendorID,
		TotalAmount:   m.TotalAmount,
		PaidAt:        m.PaidAt,
		Method:        m.Method,
		Reference:     m.Reference,
	}
	if m.ReceiptNumber != nil {
		s.ReceiptNumber = *m.ReceiptNumber
	}
	for _, item := range m.Items {
		s.Items = append(s.Items, *item.ToDomain())
	}
	return s
}

// FromDomain populates the persistence model from a domain Settlement entity.
// Items are intentionally not mapped: allocation rows are written one by one
// inside the settle transaction.
func (m *SettlementModel) FromDomain(s *ledger.Settlement) {
	m.FromDomainTenantEntity(s.TenantEntity)
	m.Kind = s.Kind
	m.CashAccountID = s.CashAccountID
	m.ApartmentID = s.ApartmentID
	m.VendorID = s.VendorID
	if s.ReceiptNumber != "" {
		number := s.ReceiptNumber
		m.ReceiptNumber = &number
	}
	m.TotalAmount = s.TotalAmount
	m.PaidAt = s.PaidAt
	m.Method = s.Method
	m.Reference = s.Reference
}

// AllocationModel is the persistence model for one allocation line
type AllocationModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	SettlementID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ObligationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AllocationModel) TableName() string {
	return "allocations"
}

// ToDomain converts the persistence model to a domain Allocation
func (m *AllocationModel) ToDomain() *ledger.Allocation {
	return &ledger.Allocation{
		ID:           m.ID,
		SettlementID: m.SettlementID,
		ObligationID: m.ObligationID,
		Amount:       m.Amount,
		CreatedAt:    m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Allocation
func (m *AllocationModel) FromDomain(a *ledger.Allocation) {
	m.ID = a.ID
	m.SettlementID = a.SettlementID
	m.ObligationID = a.ObligationID
	m.Amount = a.Amount
	m.CreatedAt = a.CreatedAt
}

// CashAccountModel is the persistence model for the CashAccount entity
type CashAccountModel struct {
	TenantModel
	Name           string          `gorm:"type:varchar(200);not null"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (CashAccountModel) TableName() string {
	return "cash_accounts"
}

// ToDomain converts the persistence model to a domain CashAccount entity
func (m *CashAccountModel) ToDomain() *ledger.CashAccount {
	return &ledger.CashAccount{
		TenantEntity:   m.TenantModel.ToDomain(),
		Name:           m.Name,
		OpeningBalance: m.OpeningBalance,
	}
}

// FromDomain populates the persistence model from a domain CashAccount entity
func (m *CashAccountModel) FromDomain(a *ledger.CashAccount) {
	m.FromDomainTenantEntity(a.TenantEntity)
	m.Name = a.Name
	m.OpeningBalance = a.OpeningBalance
}

// ChargeTemplateModel is the persistence model for the ChargeTemplate entity
type ChargeTemplateModel struct {
	TenantModel
	Name         string                     `gorm:"type:varchar(200);not null"`
	AccountID    uuid.UUID                  `gorm:"type:uuid;not null"`
	Amount       decimal.Decimal            `gorm:"type:decimal(18,2);not null"`
	DueDay       int                        `gorm:"not null"`
	Scope        ledger.ChargeTemplateScope `gorm:"type:varchar(20);not null"`
	ApartmentIDs ledger.ApartmentIDList     `gorm:"type:jsonb;default:'[]'"`
	Active       bool                       `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ChargeTemplateModel) TableName() string {
	return "charge_templates"
}

// ToDomain converts the persistence model to a domain ChargeTemplate entity
func (m *ChargeTemplateModel) ToDomain() *ledger.ChargeTemplate {
	return &ledger.ChargeTemplate{
		TenantEntity: m.TenantModel.ToDomain(),
		Name:         m.Name,
		AccountID:    m.AccountID,
		Amount:       m.Amount,
		DueDay:       m.DueDay,
		Scope:        m.Scope,
		ApartmentIDs: m.ApartmentIDs,
		Active:       m.Active,
	}
}

// FromDomain populates the persistence model from a domain ChargeTemplate entity
func (m *ChargeTemplateModel) FromDomain(t *ledger.ChargeTemplate) {
	m.FromDomainTenantEntity(t.TenantEntity)
	m.Name = t.Name
	m.AccountID = t.AccountID
	m.Amount = t.Amount
	m.DueDay = t.DueDay
	m.Scope = t.Scope
	m.ApartmentIDs = t.ApartmentIDs
	m.Active = t.Active
}

// ExpenseTemplateModel is the persistence model for the ExpenseTemplate entity
type ExpenseTemplateModel struct {
	TenantModel
	Name            string                   `gorm:"type:varchar(200);not null"`
	VendorID        uuid.UUID                `gorm:"type:uuid;not null"`
	AccountID       uuid.UUID                `gorm:"type:uuid;not null"`
	Amount          decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	DueDay          int                      `gorm:"not null"`
	Every           ledger.ExpensePeriodUnit `gorm:"type:varchar(20);not null"`
	Active          bool                     `gorm:"not null;default:true;index"`
	LastGeneratedAt *time.Time
}

// TableName returns the table name for GORM
func (ExpenseTemplateModel) TableName() string {
	return "expense_templates"
}

// ToDomain converts the persistence model to a domain ExpenseTemplate entity
func (m *ExpenseTemplateModel) ToDomain() *ledger.ExpenseTemplate {
	return &ledger.ExpenseTemplate{
		TenantEntity:    m.TenantModel.ToDomain(),
		Name:            m.Name,
		VendorID:        m.VendorID,
		AccountID:       m.AccountID,
		Amount:          m.Amount,
		DueDay:          m.DueDay,
		Every:           m.Every,
		Active:          m.Active,
		LastGeneratedAt: m.LastGeneratedAt,
	}
}

// FromDomain populates the persistence model from a domain ExpenseTemplate entity
func (m *ExpenseTemplateModel) FromDomain(t *ledger.ExpenseTemplate) {
	m.FromDomainTenantEntity(t.TenantEntity)
	m.Name = t.Name
	m.VendorID = t.VendorID
	m.AccountID = t.AccountID
	m.Amount = t.Amount
	m.DueDay = t.DueDay
	m.Every = t.Every
	m.Active = t.Active
	m.LastGeneratedAt = t.LastGeneratedAt
}
