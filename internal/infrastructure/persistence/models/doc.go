// Package models holds the GORM persistence models backing the domain
// entities. Keeping them separate means domain types never carry ORM tags
// and derived values such as obligation status are recomputed on read
// instead of being stored.
//
// base.go defines the shared embeddable models, identity.go and estate.go
// the master data (tenants, apartments, vendors, accounts, occupancies),
// and ledger.go the financial records (obligations, settlements,
// allocations, cash accounts and recurring templates).
package models
