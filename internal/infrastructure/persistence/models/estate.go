package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/strata/backend/internal/domain/estate"
)

// ApartmentModel is the persistence model for the Apartment entity
type ApartmentModel struct {
	TenantModel
	Code  string `gorm:"type:varchar(50);not null;uniqueIndex:idx_apartment_tenant_code,priority:2"`
	Label string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ApartmentModel) TableName() string {
	return "apartments"
}

// ToDomain converts the persistence model to a domain Apartment entity
func (m *ApartmentModel) ToDomain() *estate.Apartment {
	return &estate.Apartment{
		TenantEntity: m.TenantModel.ToDomain(),
		Code:         m.Code,
		Label:        m.Label,
	}
}

// FromDomain populates the persistence model from a domain Apartment entity
func (m *ApartmentModel) FromDomain(a *estate.Apartment) {
	m.FromDomainTenantEntity(a.TenantEntity)
	m.Code = a.Code
	m.Label = a.Label
}

// VendorModel is the persistence model for the Vendor entity
type VendorModel struct {
	TenantModel
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (VendorModel) TableName() string {
	return "vendors"
}

// ToDomain converts the persistence model to a domain Vendor entity
func (m *VendorModel) ToDomain() *estate.Vendor {
	return &estate.Vendor{
		TenantEntity: m.TenantModel.ToDomain(),
		Name:         m.Name,
	}
}

// FromDomain populates the persistence model from a domain Vendor entity
func (m *VendorModel) FromDomain(v *estate.Vendor) {
	m.FromDomainTenantEntity(v.TenantEntity)
	m.Name = v.Name
}

// AccountModel is the persistence model for the Account entity
type AccountModel struct {
	TenantModel
	Name string             `gorm:"type:varchar(200);not null"`
	Kind estate.AccountKind `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account entity
func (m *AccountModel) ToDomain() *estate.Account {
	return &estate.Account{
		TenantEntity: m.TenantModel.ToDomain(),
		Name:         m.Name,
		Kind:         m.Kind,
	}
}

// FromDomain populates the persistence model from a domain Account entity
func (m *AccountModel) FromDomain(a *estate.Account) {
	m.FromDomainTenantEntity(a.TenantEntity)
	m.Name = a.Name
	m.Kind = a.Kind
}

// OccupancyModel is the persistence model for the Occupancy entity
type OccupancyModel struct {
	TenantModel
	ApartmentID uuid.UUID                `gorm:"type:uuid;not null;index"`
	ResidentID  uuid.UUID                `gorm:"type:uuid;not null;index"`
	Relation    estate.OccupancyRelation `gorm:"type:varchar(20);not null"`
	StartDate   time.Time                `gorm:"not null"`
	EndDate     *time.Time
}

// TableName returns the table name for GORM
func (OccupancyModel) TableName() string {
	return "occupancies"
}

// ToDomain converts the persistence model to a domain Occupancy entity
func (m *OccupancyModel) ToDomain() *estate.Occupancy {
	return &estate.Occupancy{
		TenantEntity: m.TenantModel.ToDomain(),
		ApartmentID:  m.ApartmentID,
		ResidentID:   m.ResidentID,
		Relation:     m.Relation,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
	}
}

// FromDomain populates the persistence model from a domain Occupancy entity
func (m *OccupancyModel) FromDomain(o *estate.Occupancy) {
	m.FromDomainTenantEntity(o.TenantEntity)
	m.ApartmentID = o.ApartmentID
	m.ResidentID = o.ResidentID
	m.Relation = o.Relation
	m.StartDate = o.StartDate
	m.EndDate = o.EndDate
}
