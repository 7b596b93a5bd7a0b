// Package integration provides integration tests for the ledger module.
// This file tests the critical business flows against a real database:
// - Settlement with allocation capping under row locks
// - Tenant-scoped sequential receipt numbering under concurrency
// - Cash balance and statement derivation
// - Idempotent recurring generation from templates
package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	ledgerapp "github.com/strata/backend/internal/application/ledger"
	"github.com/strata/backend/internal/domain/ledger"
	"github.com/strata/backend/internal/domain/shared"
	"github.com/strata/backend/internal/infrastructure/cache"
	"github.com/strata/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// LedgerTestSetup provides test infrastructure for ledger integration tests
type LedgerTestSetup struct {
	DB          *TestDB
	Obligations *ledgerapp.ObligationService
	Allocations *ledgerapp.AllocationService
	Statements  *ledgerapp.StatementService
	Recurring   *ledgerapp.RecurringService

	ObligationRepo ledger.ObligationRepository
	TemplateRepo   ledger.TemplateRepository

	TenantID         uuid.UUID
	TenantCtx        shared.TenantContext
	ApartmentID      uuid.UUID
	VendorID         uuid.UUID
	ChargeAccountID  uuid.UUID
	ExpenseAccountID uuid.UUID
	CashAccountID    uuid.UUID
}

// NewLedgerTestSetup creates test infrastructure with a real database and a
// seeded tenant: one apartment, one vendor, one charge and one expense
// account, and a cash account opened at 1000.
func NewLedgerTestSetup(t *testing.T) *LedgerTestSetup {
	t.Helper()

	testDB := NewTestDB(t)

	obligationRepo := persistence.NewGormObligationRepository(testDB.DB)
	settlementRepo := persistence.NewGormSettlementRepository(testDB.DB)
	cashAccountRepo := persistence.NewGormCashAccountRepository(testDB.DB)
	apartmentRepo := persistence.NewGormApartmentRepository(testDB.DB)
	vendorRepo := persistence.NewGormVendorRepository(testDB.DB)
	accountRepo := persistence.NewGormAccountRepository(testDB.DB)
	tenantRepo := persistence.NewGormTenantRepository(testDB.DB)
	templateRepo := persistence.NewGormTemplateRepository(testDB.DB)
	scope := persistence.NewGormTransactionScope(testDB.DB)
	logger := zap.NewNop()

	tenantID := uuid.New()
	apartmentID := uuid.New()
	vendorID := uuid.New()
	chargeAccountID := uuid.New()
	expenseAccountID := uuid.New()
	cashAccountID := uuid.New()

	testDB.CreateTestTenant(tenantID, "Seaside Residences")
	testDB.CreateTestApartment(tenantID, apartmentID, "A-101")
	testDB.CreateTestVendor(tenantID, vendorID, "Cleaning Co")
	testDB.CreateTestAccount(tenantID, chargeAccountID, "Maintenance Dues", "CHARGE")
	testDB.CreateTestAccount(tenantID, expenseAccountID, "Cleaning Services", "EXPENSE")
	testDB.CreateTestCashAccount(tenantID, cashAccountID, "Main Cash", "1000.00")

	return &LedgerTestSetup{
		DB:             testDB,
		Obligations:    ledgerapp.NewObligationService(obligationRepo, apartmentRepo, vendorRepo, accountRepo),
		Allocations:    ledgerapp.NewAllocationService(scope, logger),
		Statements:     ledgerapp.NewStatementService(settlementRepo, cashAccountRepo),
		Recurring:      ledgerapp.NewRecurringService(obligationRepo, templateRepo, apartmentRepo, tenantRepo, cache.NewInMemorySchedulerLock(), logger),
		ObligationRepo: obligationRepo,
		TemplateRepo:   templateRepo,

		TenantID:         tenantID,
		TenantCtx:        shared.NewTenantContext(tenantID, uuid.New()),
		ApartmentID:      apartmentID,
		VendorID:         vendorID,
		ChargeAccountID:  chargeAccountID,
		ExpenseAccountID: expenseAccountID,
		CashAccountID:    cashAccountID,
	}
}

func (s *LedgerTestSetup) createCharge(t *testing.T, amount int64, period string) *ledgerapp.ObligationResponse {
	t.Helper()

	due, err := ledger.ParsePeriod(period)
	require.NoError(t, err)
	charge, err := s.Obligations.CreateCharge(context.Background(), s.TenantCtx, ledgerapp.CreateChargeRequest{
		ApartmentID: s.ApartmentID,
		AccountID:   s.ChargeAccountID,
		Amount:      decimal.NewFromInt(amount),
		DueDate:     due.DueDate(10),
		Period:      period,
		Description: "Maintenance " + period,
	})
	require.NoError(t, err)
	return charge
}

func (s *LedgerTestSetup) createExpense(t *testing.T, amount int64) *ledgerapp.ObligationResponse {
	t.Helper()

	expenseDate := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	expense, err := s.Obligations.CreateExpense(context.Background(), s.TenantCtx, ledgerapp.CreateExpenseRequest{
		VendorID:    s.VendorID,
		AccountID:   s.ExpenseAccountID,
		Amount:      decimal.NewFromInt(amount),
		ExpenseDate: expenseDate,
		DueDate:     expenseDate.AddDate(0, 0, 30),
		Description: "Monthly cleaning",
	})
	require.NoError(t, err)
	return expense
}

func (s *LedgerTestSetup) settlementCount(t *testing.T) int64 {
	t.Helper()

	var count int64
	err := s.DB.DB.Table("settlements").Where("tenant_id = ?", s.TenantID).Count(&count).Error
	require.NoError(t, err)
	return count
}

var testPaidAt = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func TestAllocation_SettleReceivable_CapsToRemaining(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewLedgerTestSetup(t)
	ctx := context.Background()

	charge := setup.createCharge(t, 500, "2026-06")

	// Request more than the charge carries; only the remainder is applied.
	resp, err := setup.Allocations.SettleReceivable(ctx, setup.TenantCtx, ledgerapp.SettleReceivableRequest{
		ApartmentID:   setup.ApartmentID,
		CashAccountID: setup.CashAccountID,
		PaidAt:        testPaidAt,
		Method:        "CASH",
		Allocations: []ledgerapp.AllocationRequest{
			{ObligationID: charge.ID, Amount: decimal.NewFromInt(800)},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, "RCP-2026-000001", resp.ReceiptNumber)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(500)),
		"expected total 500, got %s", resp.TotalAmount)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].Amount.Equal(decimal.NewFromInt(500)))

	settled, err := setup.Obligations.GetObligation(ctx, setup.TenantCtx, charge.ID)
	require.NoError(t, err)
	assert.True(t, settled.PaidAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, settled.Remaining.IsZero())
	assert.Equal(t, ledger.ObligationStatusPaid.String(), settled.Status)
}

func TestAllocation_SettleReceivable_PartialThenRemainder(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewLedgerTestSetup(t)
	ctx := context.Background()

	charge := setup.createCharge(t, 1000, "2026-06")

	first, err := setup.Allocations.SettleReceivable(ctx, setup.TenantCtx, ledgerapp.SettleReceivableRequest{
		ApartmentID:   setup.ApartmentID,
		CashAccountID: setup.CashAccountID,
		PaidAt:        testPaidAt,
		Method:        "BANK",
		Reference:     "wire-001",
		Allocations: []ledgerapp.AllocationRequest{
			{ObligationID: charge.ID, Amount: decimal.NewFromInt(400)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "RCP-2026-000001", first.ReceiptNumber)

	partial, err := setup.Obligations.GetObligation(ctx, setup.TenantCtx, charge.ID)
	require.NoError(t, err)
	assert.True(t, partial.PaidAmount.Equal(decimal.NewFromInt(400)))
	assert.True(t, partial.Remaining.Equal(decimal.NewFromInt(600)))

	// Second settlement asks for the full amount again; it is capped to the
	// remaining 600 and the receipt number advances.
	second, err := setup.Allocations.SettleReceivable(ctx, setup.TenantCtx, ledgerapp.SettleReceivableRequest{
		ApartmentID:   setup.ApartmentID,
		CashAccountID: setup.CashAccountID,
		PaidAt:        testPaidAt.AddDate(0, 0, 1),
		Method:        "CASH",
		Allocations: []ledgerapp.AllocationRequest{
			{ObligationID: charge.ID, Amount: decimal.NewFromInt(1000)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "RCP-2026-000002", second.ReceiptNumber)
	assert.True(t, second.TotalAmount.Equal(decimal.NewFromInt(600)))

	paid, err := setup.Obligations.GetObligation(ctx, setup.TenantCtx, charge.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.ObligationStatusPaid.String(), paid.Status)
}

func TestAllocation_SettleReceivable_NothingLeftRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewLedgerTestSetup(t)
	ctx := context.Background()

	charge := setup.createCharge(t, 300, "2026-06")

	resp, err := setup.Allocations.SettleReceivable(ctx, setup.TenantCtx, ledgerapp.SettleReceivableRequest{
		ApartmentID:   setup.ApartmentID,
		CashAccountID: setup.CashAccountID,
		PaidAt:        testPaidAt,
		Method:        "CASH",
		Allocations: []ledgerapp.AllocationRequest{
			{ObligationID: charge.ID, Amount: decimal.NewFromInt(300)},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, int64(1), setup.settlementCount(t))

	// Settling a fully paid charge applies nothing; the whole settlement,
	// receipt number included, is rolled back rather than persisted empty.
	resp, err = setup.Allocations.SettleReceivable(ctx, setup.TenantCtx, ledgerapp.SettleReceivableRequest{
		ApartmentID:   setup.ApartmentID,
		CashAccountID: setup.CashAccountID,
		PaidAt:        testPaidAt,
		Method:        "CASH",
		Allocations: []ledgerapp.AllocationRequest{
			{ObligationID: charge.ID, Amount: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, int64(1), setup.settlementCount(t))

	// The reserved number was never committed, so the next settlement
	// continues the sequence without a gap.
	next := setup.createCharge(t, 200, "2026-07")
	resp, err = setup.Allocations.SettleReceivable(ctx, setup.TenantCtx, ledgerapp.SettleReceivableRequest{
		ApartmentID:   setup.ApartmentID,
		CashAccountID: setup.CashAccountID,
		PaidAt:        testPaidAt,
		Method:        "CASH",
		Allocations: []ledgerapp.AllocationRequest{
			{ObligationID: next.ID, Amount: decimal.NewFromInt(200)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "RCP-2026-000002", resp.ReceiptNumber)
}

func TestAllocation_ConcurrentSettlements_UniqueReceiptNumbers(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewLedgerTestSetup(t)
	ctx := context.Background()

	const workers = 50
	charges := make([]*ledgerapp.ObligationResponse, workers)
	for i := 0; i < workers; i++ {
		// Distinct periods keep the charge identity index out of the way.
		charges[i] = setup.createCharge(t, 100, fmt.Sprintf("%04d-%02d", 2022+i/12, i%12+1))
	}

	var wg sync.WaitGroup
	numbers := make(chan string, workers)
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(chargeID uuid.UUID) {
			defer wg.Done()
			resp, err := setup.Allocations.SettleReceivable(ctx, setup.TenantCtx, ledgerapp.SettleReceivableRequest{
				ApartmentID:   setup.ApartmentID,
				CashAccountID: setup.CashAccountID,
				PaidAt:        testPaidAt,
				Method:        "CASH",
				Allocations: []ledgerapp.AllocationRequest{
					{ObligationID: chargeID, Amount: decimal.NewFromInt(100)},
				},
			})
			if err != nil {
				errs <- err
				return
			}
			numbers <- resp.ReceiptNumber
		}(charges[i].ID)
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent settlement failed: %v", err)
	}

	var got []string
	for number := range numbers {
		got = append(got, number)
	}
	sort.Strings(got)

	// The tenant row lock serializes numbering: fifty settlements commit
	// fifty distinct, gapless sequence values.
	require.Len(t, got, workers)
	for i, number := range got {
		assert.Equal(t, fmt.Sprintf("RCP-2026-%06d", i+1), number)
	}
}

func TestAllocation_TenantIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewLedgerTestSetup(t)
	ctx := context.Background()

	charge := setup.createCharge(t, 500, "2026-06")

	// Second tenant with its own apartment and cash account.
	otherTenantID := uuid.New()
	otherApartmentID := uuid.New()
	otherCashAccountID := uuid.New()
	setup.DB.CreateTestTenant(otherTenantID, "Harbor View")
	setup.DB.CreateTestApartment(otherTenantID, otherApartmentID, "B-201")
	setup.DB.CreateTestCashAccount(otherTenantID, otherCashAccountID, "Harbor Cash", "0.00")
	otherCtx := shared.NewTenantContext(otherTenantID, uuid.New())

	t.Run("cannot read another tenant's obligation", func(t *testing.T) {
		_, err := setup.Obligations.GetObligation(ctx, otherCtx, charge.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("cannot settle another tenant's obligation", func(t *testing.T) {
		_, err := setup.Allocations.SettleReceivable(ctx, otherCtx, ledgerapp.SettleReceivableRequest{
			ApartmentID:   otherApartmentID,
			CashAccountID: otherCashAccountID,
			PaidAt:        testPaidAt,
			Method:        "CASH",
			Allocations: []ledgerapp.AllocationRequest{
				{ObligationID: charge.ID, Amount: decimal.NewFromInt(500)},
			},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)

		untouched, err := setup.Obligations.GetObligation(ctx, setup.TenantCtx, charge.ID)
		require.NoError(t, err)
		assert.True(t, untouched.PaidAmount.IsZero())
	})

	t.Run("receipt sequences are independent per tenant", func(t *testing.T) {
		resp, err := setup.Allocations.SettleReceivable(ctx, setup.TenantCtx, ledgerapp.SettleReceivableRequest{
			ApartmentID:   setup.ApartmentID,
			CashAccountID: setup.CashAccountID,
			PaidAt:        testPaidAt,
			Method:        "CASH",
			Allocations: []ledgerapp.AllocationRequest{
				{ObligationID: charge.ID, Amount: decimal.NewFromInt(500)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "RCP-2026-000001", resp.ReceiptNumber)

		otherAccountID := uuid.New()
		setup.DB.CreateTestAccount(otherTenantID, otherAccountID, "Harbor Dues", "CHARGE")

		otherCharge, err := setup.Obligations.CreateCharge(ctx, otherCtx, ledgerapp.CreateChargeRequest{
			ApartmentID: otherApartmentID,
			AccountID:   otherAccountID,
			Amount:      decimal.NewFromInt(250),
			DueDate:     testPaidAt,
			Period:      "2026-06",
			Description: "Maintenance 2026-06",
		})
		require.NoError(t, err)

		otherResp, err := setup.Allocations.SettleReceivable(ctx, otherCtx, ledgerapp.SettleReceivableRequest{
			ApartmentID:   otherApartmentID,
			CashAccountID: otherCashAccountID,
			PaidAt:        testPaidAt,
			Method:        "CASH",
			Allocations: []ledgerapp.AllocationRequest{
				{ObligationID: otherCharge.ID, Amount: decimal.NewFromInt(250)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "RCP-2026-000001", otherResp.ReceiptNumber)
	})
}

func TestAllocation_SettlePayable_AndCashStatement(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewLedgerTestSetup(t)
	ctx := context.Background()

	charge := setup.createCharge(t, 500, "2026-06")
	expense := setup.createExpense(t, 300)

	receipt, err := setup.Allocations.SettleReceivable(ctx, setup.TenantCtx, ledgerapp.SettleReceivableRequest{
		ApartmentID:   setup.ApartmentID,
		CashAccountID: setup.CashAccountID,
		PaidAt:        testPaidAt,
		Method:        "CASH",
		Allocations: []ledgerapp.AllocationRequest{
			{ObligationID: charge.ID, Amount: decimal.NewFromInt(500)},
		},
	})
	require.NoError(t, err)

	payment, err := setup.Allocations.SettlePayable(ctx, setup.TenantCtx, ledgerapp.SettlePayableRequest{
		VendorID:      setup.VendorID,
		CashAccountID: setup.CashAccountID,
		PaidAt:        testPaidAt.AddDate(0, 0, 2),
		Method:        "BANK",
		Reference:     "inv-2026-0042",
		Allocations: []ledgerapp.AllocationRequest{
			{ObligationID: expense.ID, Amount: decimal.NewFromInt(300)},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, payment.ReceiptNumber, "payments carry no receipt number")

	t.Run("balance is opening plus receipts minus payments", func(t *testing.T) {
		balance, err := setup.Statements.Balance(ctx, setup.TenantCtx, setup.CashAccountID, nil)
		require.NoError(t, err)
		assert.True(t, balance.OpeningBalance.Equal(decimal.NewFromInt(1000)))
		assert.True(t, balance.TotalReceipts.Equal(decimal.NewFromInt(500)))
		assert.True(t, balance.TotalPayments.Equal(decimal.NewFromInt(300)))
		assert.True(t, balance.Balance.Equal(decimal.NewFromInt(1200)),
			"expected balance 1200, got %s", balance.Balance)
	})

	t.Run("balance as of a cutoff excludes later settlements", func(t *testing.T) {
		cutoff := testPaidAt.AddDate(0, 0, 1)
		balance, err := setup.Statements.Balance(ctx, setup.TenantCtx, setup.CashAccountID, &cutoff)
		require.NoError(t, err)
		assert.True(t, balance.TotalPayments.IsZero())
		assert.True(t, balance.Balance.Equal(decimal.NewFromInt(1500)))
	})

	t.Run("statement carries signed lines and running balance", func(t *testing.T) {
		from := testPaidAt.AddDate(0, 0, -1)
		to := testPaidAt.AddDate(0, 0, 7)
		statement, err := setup.Statements.Statement(ctx, setup.TenantCtx, setup.CashAccountID, from, to)
		require.NoError(t, err)

		assert.True(t, statement.OpeningBalance.Equal(decimal.NewFromInt(1000)))
		assert.True(t, statement.ClosingBalance.Equal(decimal.NewFromInt(1200)))
		require.Len(t, statement.Lines, 2)

		assert.Equal(t, receipt.ID, statement.Lines[0].SettlementID)
		assert.True(t, statement.Lines[0].Amount.Equal(decimal.NewFromInt(500)))
		assert.True(t, statement.Lines[0].Balance.Equal(decimal.NewFromInt(1500)))

		assert.Equal(t, payment.ID, statement.Lines[1].SettlementID)
		assert.True(t, statement.Lines[1].Amount.Equal(decimal.NewFromInt(-300)))
		assert.True(t, statement.Lines[1].Balance.Equal(decimal.NewFromInt(1200)))
	})
}

func TestObligation_DeleteGuard(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewLedgerTestSetup(t)
	ctx := context.Background()

	charge := setup.createCharge(t, 500, "2026-06")

	t.Run("unsettled obligation can be archived", func(t *testing.T) {
		untouched := setup.createCharge(t, 200, "2026-07")
		require.NoError(t, setup.Obligations.DeleteObligation(ctx, setup.TenantCtx, untouched.ID))

		_, err := setup.Obligations.GetObligation(ctx, setup.TenantCtx, untouched.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("partially settled obligation is protected", func(t *testing.T) {
		_, err := setup.Allocations.SettleReceivable(ctx, setup.TenantCtx, ledgerapp.SettleReceivableRequest{
			ApartmentID:   setup.ApartmentID,
			CashAccountID: setup.CashAccountID,
			PaidAt:        testPaidAt,
			Method:        "CASH",
			Allocations: []ledgerapp.AllocationRequest{
				{ObligationID: charge.ID, Amount: decimal.NewFromInt(100)},
			},
		})
		require.NoError(t, err)

		err = setup.Obligations.DeleteObligation(ctx, setup.TenantCtx, charge.ID)
		assert.ErrorIs(t, err, ledger.ErrObligationHasSettlements)
	})
}

func TestRecurring_GenerateCharges_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewLedgerTestSetup(t)
	ctx := context.Background()

	// Two more apartments so the ALL scope fans out.
	for _, code := range []string{"A-102", "A-103"} {
		setup.DB.CreateTestApartment(setup.TenantID, uuid.New(), code)
	}

	template, err := ledger.NewChargeTemplate(setup.TenantID, "Monthly maintenance",
		setup.ChargeAccountID, decimal.NewFromInt(150), 10, ledger.ChargeScopeAllApartments, nil)
	require.NoError(t, err)
	require.NoError(t, setup.TemplateRepo.SaveChargeTemplate(ctx, template))

	period, err := ledger.ParsePeriod("2026-09")
	require.NoError(t, err)

	first, err := setup.Recurring.GenerateCharges(ctx, setup.TenantCtx, period)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Created)
	assert.Equal(t, 0, first.Skipped)

	// Re-run for the same period: every apartment already carries the
	// charge, nothing is created twice.
	second, err := setup.Recurring.GenerateCharges(ctx, setup.TenantCtx, period)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 3, second.Skipped)

	periodFilter := "2026-09"
	verify, total, err := setup.Obligations.ListCharges(ctx, setup.TenantCtx, ledgerapp.ObligationListFilter{
		Period: periodFilter,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, charge := range verify {
		assert.True(t, charge.Amount.Equal(decimal.NewFromInt(150)))
		assert.Equal(t, "Monthly maintenance", charge.Description)
	}

	// A different period generates afresh.
	nextPeriod, err := ledger.ParsePeriod("2026-10")
	require.NoError(t, err)
	third, err := setup.Recurring.GenerateCharges(ctx, setup.TenantCtx, nextPeriod)
	require.NoError(t, err)
	assert.Equal(t, 3, third.Created)
}

func TestRecurring_GenerateExpenses_RespectsRecurrence(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewLedgerTestSetup(t)
	ctx := context.Background()

	template, err := ledger.NewExpenseTemplate(setup.TenantID, "Cleaning contract",
		setup.VendorID, setup.ExpenseAccountID, decimal.NewFromInt(300), 15, ledger.ExpenseEveryMonth)
	require.NoError(t, err)
	require.NoError(t, setup.TemplateRepo.SaveExpenseTemplate(ctx, template))

	today := time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)

	first, err := setup.Recurring.GenerateExpenses(ctx, setup.TenantCtx, today)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, 1, first.Created)

	// Same month again: the stamp from the first run keeps the template
	// quiet until a full recurrence interval has elapsed.
	second, err := setup.Recurring.GenerateExpenses(ctx, setup.TenantCtx, today.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Skipped)

	nextMonth := today.AddDate(0, 1, 0)
	third, err := setup.Recurring.GenerateExpenses(ctx, setup.TenantCtx, nextMonth)
	require.NoError(t, err)
	require.NotNil(t, third)
	assert.Equal(t, 1, third.Created)

	expenses, total, err := setup.Obligations.ListExpenses(ctx, setup.TenantCtx, ledgerapp.ObligationListFilter{
		VendorID: &setup.VendorID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, expense := range expenses {
		assert.True(t, expense.Amount.Equal(decimal.NewFromInt(300)))
	}
}
