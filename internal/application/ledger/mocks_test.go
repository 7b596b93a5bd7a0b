package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/strata/backend/internal/domain/estate"
	"github.com/strata/backend/internal/domain/identity"
	"github.com/strata/backend/internal/domain/ledger"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockObligationRepository is a mock implementation of ledger.ObligationRepository
type MockObligationRepository struct {
	mock.Mock
}

func (m *MockObligationRepository) Create(ctx context.Context, obligation *ledger.Obligation) error {
	args := m.Called(ctx, obligation)
	return args.Error(0)
}

func (m *MockObligationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Obligation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*ledger.Obligation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Obligation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, kind ledger.ObligationKind, filter ledger.ObligationFilter) ([]ledger.Obligation, error) {
	args := m.Called(ctx, tenantID, kind, filter)
	return args.Get(0).([]ledger.Obligation), args.Error(1)
}

func (m *MockObligationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, kind ledger.ObligationKind, filter ledger.ObligationFilter) (int64, error) {
	args := m.Called(ctx, tenantID, kind, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockObligationRepository) ExistsCharge(ctx context.Context, tenantID, apartmentID uuid.UUID, period ledger.Period, accountID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, apartmentID, period, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockObligationRepository) UpdatePaidAmount(ctx context.Context, tenantID, id uuid.UUID, paidAmount decimal.Decimal) error {
	args := m.Called(ctx, tenantID, id, paidAmount)
	return args.Error(0)
}

func (m *MockObligationRepository) Archive(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockObligationRepository) DebtByApartment(ctx context.Context, tenantID uuid.UUID) ([]ledger.ApartmentDebt, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]ledger.ApartmentDebt), args.Error(1)
}

func (m *MockObligationRepository) PayablesByVendor(ctx context.Context, tenantID uuid.UUID) ([]ledger.VendorPayable, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]ledger.VendorPayable), args.Error(1)
}

// MockSettlementRepository is a mock implementation of ledger.SettlementRepository
type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) Create(ctx context.Context, settlement *ledger.Settlement) error {
	args := m.Called(ctx, settlement)
	return args.Error(0)
}

func (m *MockSettlementRepository) AddItem(ctx context.Context, item *ledger.Allocation) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockSettlementRepository) UpdateTotal(ctx context.Context, tenantID, id uuid.UUID, total decimal.Decimal) error {
	args := m.Called(ctx, tenantID, id, total)
	return args.Error(0)
}

func (m *MockSettlementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Settlement, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) SumAllocationsForObligation(ctx context.Context, obligationID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, obligationID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSettlementRepository) FindByCashAccount(ctx context.Context, tenantID, cashAccountID uuid.UUID, from, to time.Time) ([]ledger.Settlement, error) {
	args := m.Called(ctx, tenantID, cashAccountID, from, to)
	return args.Get(0).([]ledger.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) SumByCashAccount(ctx context.Context, tenantID, cashAccountID uuid.UUID, kind ledger.SettlementKind, before *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, cashAccountID, kind, before)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSettlementRepository) MaxReceiptSequence(ctx context.Context, tenantID uuid.UUID, prefix string) (int, error) {
	args := m.Called(ctx, tenantID, prefix)
	return args.Int(0), args.Error(1)
}

// MockCashAccountRepository is a mock implementation of ledger.CashAccountRepository
type MockCashAccountRepository struct {
	mock.Mock
}

func (m *MockCashAccountRepository) Create(ctx context.Context, account *ledger.CashAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockCashAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.CashAccount, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.CashAccount), args.Error(1)
}

func (m *MockCashAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]ledger.CashAccount, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]ledger.CashAccount), args.Error(1)
}

// MockTemplateRepository is a mock implementation of ledger.TemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) SaveChargeTemplate(ctx context.Context, template *ledger.ChargeTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) SaveExpenseTemplate(ctx context.Context, template *ledger.ExpenseTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) FindActiveChargeTemplates(ctx context.Context, tenantID uuid.UUID) ([]ledger.ChargeTemplate, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]ledger.ChargeTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindActiveExpenseTemplates(ctx context.Context, tenantID uuid.UUID) ([]ledger.ExpenseTemplate, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]ledger.ExpenseTemplate), args.Error(1)
}

func (m *MockTemplateRepository) MarkExpenseGenerated(ctx context.Context, tenantID, templateID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, tenantID, templateID, at)
	return args.Error(0)
}

// MockTenantRepository is a mock implementation of identity.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAllActive(ctx context.Context) ([]identity.Tenant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) LockByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockApartmentRepository is a mock implementation of estate.ApartmentRepository
type MockApartmentRepository struct {
	mock.Mock
}

func (m *MockApartmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*estate.Apartment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*estate.Apartment), args.Error(1)
}

func (m *MockApartmentRepository) FindAllActive(ctx context.Context, tenantID uuid.UUID) ([]estate.Apartment, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]estate.Apartment), args.Error(1)
}

func (m *MockApartmentRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]estate.Apartment, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]estate.Apartment), args.Error(1)
}

func (m *MockApartmentRepository) Save(ctx context.Context, apartment *estate.Apartment) error {
	args := m.Called(ctx, apartment)
	return args.Error(0)
}

// MockVendorRepository is a mock implementation of estate.VendorRepository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*estate.Vendor, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*estate.Vendor), args.Error(1)
}

func (m *MockVendorRepository) Save(ctx context.Context, vendor *estate.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

// MockAccountRepository is a mock implementation of estate.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*estate.Account, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*estate.Account), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *estate.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockSchedulerLock is a mock implementation of SchedulerLock
type MockSchedulerLock struct {
	mock.Mock
}

func (m *MockSchedulerLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockSchedulerLock) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockOccupancyRepository is a mock implementation of estate.OccupancyRepository
type MockOccupancyRepository struct {
	mock.Mock
}

func (m *MockOccupancyRepository) FindByApartment(ctx context.Context, tenantID, apartmentID uuid.UUID) ([]estate.Occupancy, error) {
	args := m.Called(ctx, tenantID, apartmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]estate.Occupancy), args.Error(1)
}

func (m *MockOccupancyRepository) FindCurrentByResident(ctx context.Context, tenantID, residentID uuid.UUID, at time.Time) ([]estate.Occupancy, error) {
	args := m.Called(ctx, tenantID, residentID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]estate.Occupancy), args.Error(1)
}

func (m *MockOccupancyRepository) Save(ctx context.Context, occupancy *estate.Occupancy) error {
	args := m.Called(ctx, occupancy)
	return args.Error(0)
}
