package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/strata/backend/internal/domain/estate"
	"github.com/strata/backend/internal/domain/ledger"
	"github.com/strata/backend/internal/domain/shared"
)

// ReportService aggregates obligations into the standing debt and payable
// views. Everything here is read-only.
type ReportService struct {
	obligationRepo ledger.ObligationRepository
	occupancyRepo  estate.OccupancyRepository
}

// NewReportService creates a new ReportService
func NewReportService(obligationRepo ledger.ObligationRepository, occupancyRepo estate.OccupancyRepository) *ReportService {
	return &ReportService{
		obligationRepo: obligationRepo,
		occupancyRepo:  occupancyRepo,
	}
}

// ApartmentDebtResponse is a per-apartment receivable rollup
type ApartmentDebtResponse struct {
	ApartmentID uuid.UUID       `json:"apartment_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// VendorPayableResponse is a per-vendor payable rollup
type VendorPayableResponse struct {
	VendorID    uuid.UUID       `json:"vendor_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// DebtByApartment returns the outstanding receivable per apartment,
// apartments with no open charges excluded.
func (s *ReportService) DebtByApartment(ctx context.Context, tc shared.TenantContext) ([]ApartmentDebtResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.obligationRepo.DebtByApartment(ctx, tc.TenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]ApartmentDebtResponse, len(rows))
	for i, row := range rows {
		responses[i] = ApartmentDebtResponse{
			ApartmentID: row.ApartmentID,
			TotalAmount: row.TotalAmount,
			TotalPaid:   row.TotalPaid,
			Outstanding: row.Outstanding,
		}
	}
	return responses, nil
}

// PayablesByVendor returns the outstanding payable per vendor
func (s *ReportService) PayablesByVendor(ctx context.Context, tc shared.TenantContext) ([]VendorPayableResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.obligationRepo.PayablesByVendor(ctx, tc.TenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]VendorPayableResponse, len(rows))
	for i, row := range rows {
		responses[i] = VendorPayableResponse{
			VendorID:    row.VendorID,
			TotalAmount: row.TotalAmount,
			TotalPaid:   row.TotalPaid,
			Outstanding: row.Outstanding,
		}
	}
	return responses, nil
}

// ResidentDebtResponse rolls up what a resident owes through the
// apartments they currently occupy
type ResidentDebtResponse struct {
	ResidentID  uuid.UUID               `json:"resident_id"`
	AsOf        time.Time               `json:"as_of"`
	Apartments  []ApartmentDebtResponse `json:"apartments"`
	Outstanding decimal.Decimal         `json:"outstanding"`
}

// DebtForResident sums the open charges of every apartment the resident
// occupies as of the given date. An apartment shared by several residents
// shows its full debt to each of them.
func (s *ReportService) DebtForResident(ctx context.Context, tc shared.TenantContext, residentID uuid.UUID, asOf time.Time) (*ResidentDebtResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if residentID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Resident ID cannot be empty")
	}

	occupancies, err := s.occupancyRepo.FindCurrentByResident(ctx, tc.TenantID, residentID, asOf)
	if err != nil {
		return nil, err
	}

	response := &ResidentDebtResponse{
		ResidentID: residentID,
		AsOf:       asOf,
		Apartments: []ApartmentDebtResponse{},
	}
	for _, occupancy := range occupancies {
		apartmentID := occupancy.ApartmentID
		charges, err := s.obligationRepo.FindAllForTenant(ctx, tc.TenantID, ledger.ObligationKindCharge,
			ledger.ObligationFilter{ApartmentID: &apartmentID, Unsettled: true})
		if err != nil {
			return nil, err
		}

		debt := ApartmentDebtResponse{ApartmentID: apartmentID}
		for _, charge := range charges {
			debt.TotalAmount = debt.TotalAmount.Add(charge.Amount)
			debt.TotalPaid = debt.TotalPaid.Add(charge.PaidAmount)
		}
		debt.Outstanding = debt.TotalAmount.Sub(debt.TotalPaid)
		if debt.Outstanding.IsNegative() {
			debt.Outstanding = decimal.Zero
		}
		response.Apartments = append(response.Apartments, debt)
		response.Outstanding = response.Outstanding.Add(debt.Outstanding)
	}
	return response, nil
}

// AccountStatementLine is one obligation booked against the account,
// dated by due date for charges and by expense date for expenses
type AccountStatementLine struct {
	ObligationID uuid.UUID       `json:"obligation_id"`
	Kind         string          `json:"kind"`
	Date         time.Time       `json:"date"`
	Description  string          `json:"description,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	Remaining    decimal.Decimal `json:"remaining"`
	Status       string          `json:"status"`
}

// AccountStatementResponse is a booking account's obligation activity
// over a date range
type AccountStatementResponse struct {
	AccountID   uuid.UUID              `json:"account_id"`
	From        time.Time              `json:"from"`
	To          time.Time              `json:"to"`
	TotalAmount decimal.Decimal        `json:"total_amount"`
	TotalPaid   decimal.Decimal        `json:"total_paid"`
	Outstanding decimal.Decimal        `json:"outstanding"`
	Lines       []AccountStatementLine `json:"lines"`
}

// AccountStatement lists a booking account's charges and expenses within
// the range, merged chronologically with running totals.
func (s *ReportService) AccountStatement(ctx context.Context, tc shared.TenantContext, accountID uuid.UUID, from, to time.Time) (*AccountStatementResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account ID cannot be empty")
	}
	if to.Before(from) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Statement range end cannot precede its start")
	}

	filter := ledger.ObligationFilter{AccountID: &accountID}
	charges, err := s.obligationRepo.FindAllForTenant(ctx, tc.TenantID, ledger.ObligationKindCharge, filter)
	if err != nil {
		return nil, err
	}
	expenses, err := s.obligationRepo.FindAllForTenant(ctx, tc.TenantID, ledger.ObligationKindExpense, filter)
	if err != nil {
		return nil, err
	}

	statement := &AccountStatementResponse{
		AccountID: accountID,
		From:      from,
		To:        to,
		Lines:     []AccountStatementLine{},
	}
	for _, o := range append(charges, expenses...) {
		date := obligationActivityDate(&o)
		if date.Before(from) || date.After(to) {
			continue
		}
		statement.Lines = append(statement.Lines, AccountStatementLine{
			ObligationID: o.ID,
			Kind:         o.Kind.String(),
			Date:         date,
			Description:  o.Description,
			Amount:       o.Amount,
			PaidAmount:   o.PaidAmount,
			Remaining:    o.Remaining(),
			Status:       o.Status().String(),
		})
		statement.TotalAmount = statement.TotalAmount.Add(o.Amount)
		statement.TotalPaid = statement.TotalPaid.Add(o.PaidAmount)
	}
	sort.SliceStable(statement.Lines, func(i, j int) bool {
		return statement.Lines[i].Date.Before(statement.Lines[j].Date)
	})

	statement.Outstanding = statement.TotalAmount.Sub(statement.TotalPaid)
	if statement.Outstanding.IsNegative() {
		statement.Outstanding = decimal.Zero
	}
	return statement, nil
}

// obligationActivityDate is the date an obligation shows up on an account
// statement: the due date for charges, the incurred date for expenses.
func obligationActivityDate(o *ledger.Obligation) time.Time {
	if o.Kind == ledger.ObligationKindExpense && o.ExpenseDate != nil {
		return *o.ExpenseDate
	}
	return o.DueDate
}

// PeriodSummary totals a period's charges by status
type PeriodSummary struct {
	Period      string          `json:"period"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	ChargeCount int             `json:"charge_count"`
	PaidCount   int             `json:"paid_count"`
	OpenCount   int             `json:"open_count"`
	OverdueCnt  int             `json:"overdue_count"`
}

// ChargesForPeriod summarizes one billing period's charges
func (s *ReportService) ChargesForPeriod(ctx context.Context, tc shared.TenantContext, period ledger.Period) (*PeriodSummary, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	charges, err := s.obligationRepo.FindAllForTenant(ctx, tc.TenantID, ledger.ObligationKindCharge,
		ledger.ObligationFilter{Period: &period})
	if err != nil {
		return nil, err
	}

	summary := &PeriodSummary{Period: period.String(), ChargeCount: len(charges)}
	for _, charge := range charges {
		summary.TotalAmount = summary.TotalAmount.Add(charge.Amount)
		summary.TotalPaid = summary.TotalPaid.Add(charge.PaidAmount)
		switch charge.Status() {
		case ledger.ObligationStatusPaid:
			summary.PaidCount++
		case ledger.ObligationStatusOverdue:
			summary.OverdueCnt++
		default:
			summary.OpenCount++
		}
	}
	summary.Outstanding = summary.TotalAmount.Sub(summary.TotalPaid)
	if summary.Outstanding.IsNegative() {
		summary.Outstanding = decimal.Zero
	}
	return summary, nil
}
