package models

import (
	"github.com/strata/backend/internal/domain/identity"
)

// TenantRecordModel is the persistence model for the Tenant entity. Beyond
// holding tenant metadata the row is the lock anchor for receipt numbering.
type TenantRecordModel struct {
	BaseModel
	Name     string `gorm:"type:varchar(200);not null"`
	Timezone string `gorm:"type:varchar(64)"`
}

// TableName returns the table name for GORM
func (TenantRecordModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant entity
func (m *TenantRecordModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Timezone:   m.Timezone,
	}
}

// FromDomain populates the persistence model from a domain Tenant entity
func (m *TenantRecordModel) FromDomain(t *identity.Tenant) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Name = t.Name
	m.Timezone = t.Timezone
}
