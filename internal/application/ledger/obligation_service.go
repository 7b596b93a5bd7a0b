package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/strata/backend/internal/domain/estate"
	"github.com/strata/backend/internal/domain/ledger"
	"github.com/strata/backend/internal/domain/shared"
	"github.com/strata/backend/internal/domain/shared/valueobject"
)

// ObligationService provides application-level operations on the obligation
// lifecycle: raising charges against apartments, recording vendor expenses,
// and the guarded delete.
type ObligationService struct {
	obligationRepo ledger.ObligationRepository
	apartmentRepo  estate.ApartmentRepository
	vendorRepo     estate.VendorRepository
	accountRepo    estate.AccountRepository
}

// NewObligationService creates a new ObligationService
func NewObligationService(
	obligationRepo ledger.ObligationRepository,
	apartmentRepo estate.ApartmentRepository,
	vendorRepo estate.VendorRepository,
	accountRepo estate.AccountRepository,
) *ObligationService {
	return &ObligationService{
		obligationRepo: obligationRepo,
		apartmentRepo:  apartmentRepo,
		vendorRepo:     vendorRepo,
		accountRepo:    accountRepo,
	}
}

// ObligationResponse represents an obligation in API responses. Status and
// remaining are derived at read time and never stored.
type ObligationResponse struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	Kind        string          `json:"kind"`
	AccountID   uuid.UUID       `json:"account_id"`
	ApartmentID *uuid.UUID      `json:"apartment_id,omitempty"`
	VendorID    *uuid.UUID      `json:"vendor_id,omitempty"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Remaining   decimal.Decimal `json:"remaining"`
	Status      string          `json:"status"`
	DueDate     time.Time       `json:"due_date"`
	ExpenseDate *time.Time      `json:"expense_date,omitempty"`
	Period      string          `json:"period,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toObligationResponse(o *ledger.Obligation) *ObligationResponse {
	resp := &ObligationResponse{
		ID:          o.ID,
		TenantID:    o.TenantID,
		Kind:        o.Kind.String(),
		AccountID:   o.AccountID,
		ApartmentID: o.ApartmentID,
		VendorID:    o.VendorID,
		Description: o.Description,
		Amount:      o.Amount,
		PaidAmount:  o.PaidAmount,
		Remaining:   o.Remaining(),
		Status:      o.Status().String(),
		DueDate:     o.DueDate,
		ExpenseDate: o.ExpenseDate,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	if o.Kind == ledger.ObligationKindCharge {
		resp.Period = o.Period.String()
	}
	return resp
}

// CreateChargeRequest carries the inputs for raising a charge against an apartment
type CreateChargeRequest struct {
	ApartmentID uuid.UUID       `json:"apartment_id" binding:"required"`
	AccountID   uuid.UUID       `json:"account_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	DueDate     time.Time       `json:"due_date" binding:"required"`
	Period      string          `json:"period" binding:"required"`
	Description string          `json:"description"`
}

// CreateExpenseRequest carries the inputs for recording a vendor expense
type CreateExpenseRequest struct {
	VendorID    uuid.UUID       `json:"vendor_id" binding:"required"`
	AccountID   uuid.UUID       `json:"account_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ExpenseDate time.Time       `json:"expense_date" binding:"required"`
	DueDate     time.Time       `json:"due_date"`
	Description string          `json:"description"`
}

// BulkChargeRequest raises the same charge against a set of apartments
type BulkChargeRequest struct {
	ApartmentIDs []uuid.UUID     `json:"apartment_ids" binding:"required"`
	AccountID    uuid.UUID       `json:"account_id" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	DueDate      time.Time       `json:"due_date" binding:"required"`
	Period       string          `json:"period" binding:"required"`
	Description  string          `json:"description"`
}

// BulkChargeResult reports the outcome of a bulk charge run
type BulkChargeResult struct {
	Created []ObligationResponse `json:"created"`
	Skipped []uuid.UUID          `json:"skipped"` // apartments that already had the charge
}

// CreateCharge raises a charge against an apartment
func (s *ObligationService) CreateCharge(ctx context.Context, tc shared.TenantContext, req CreateChargeRequest) (*ObligationResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	period, err := ledger.ParsePeriod(req.Period)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAccount(ctx, tc.TenantID, req.AccountID, estate.AccountKindCharge); err != nil {
		return nil, err
	}
	apartment, err := s.apartmentRepo.FindByIDForTenant(ctx, tc.TenantID, req.ApartmentID)
	if err != nil {
		return nil, err
	}
	if apartment == nil || !apartment.IsActive() {
		return nil, shared.NewDomainError("NOT_FOUND", "Apartment not found")
	}

	charge, err := ledger.NewCharge(tc, req.ApartmentID, req.AccountID,
		valueobject.NewMoney(req.Amount), req.DueDate, period, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.obligationRepo.Create(ctx, charge); err != nil {
		return nil, err
	}
	return toObligationResponse(charge), nil
}

// CreateExpense records a vendor expense
func (s *ObligationService) CreateExpense(ctx context.Context, tc shared.TenantContext, req CreateExpenseRequest) (*ObligationResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureAccount(ctx, tc.TenantID, req.AccountID, estate.AccountKindExpense); err != nil {
		return nil, err
	}
	vendor, err := s.vendorRepo.FindByIDForTenant(ctx, tc.TenantID, req.VendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil || !vendor.IsActive() {
		return nil, shared.NewDomainError("NOT_FOUND", "Vendor not found")
	}

	expense, err := ledger.NewExpense(tc, req.VendorID, req.AccountID,
		valueobject.NewMoney(req.Amount), req.ExpenseDate, req.DueDate, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.obligationRepo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return toObligationResponse(expense), nil
}

// CreateBulkCharges raises the same charge against each listed apartment.
// Apartments that already carry a charge for the (period, account) pair are
// skipped rather than failed, so re-running a partially applied bulk charge
// is safe.
func (s *ObligationService) CreateBulkCharges(ctx context.Context, tc shared.TenantContext, req BulkChargeRequest) (*BulkChargeResult, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if len(req.ApartmentIDs) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "At least one apartment is required")
	}
	period, err := ledger.ParsePeriod(req.Period)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAccount(ctx, tc.TenantID, req.AccountID, estate.AccountKindCharge); err != nil {
		return nil, err
	}
	apartments, err := s.apartmentRepo.FindByIDs(ctx, tc.TenantID, req.ApartmentIDs)
	if err != nil {
		return nil, err
	}
	if len(apartments) != len(req.ApartmentIDs) {
		return nil, shared.NewDomainError("NOT_FOUND", "One or more apartments not found")
	}

	result := &BulkChargeResult{}
	for _, apartment := range apartments {
		exists, err := s.obligationRepo.ExistsCharge(ctx, tc.TenantID, apartment.ID, period, req.AccountID)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Skipped = append(result.Skipped, apartment.ID)
			continue
		}
		charge, err := ledger.NewCharge(tc, apartment.ID, req.AccountID,
			valueobject.NewMoney(req.Amount), req.DueDate, period, req.Description)
		if err != nil {
			return nil, err
		}
		if err := s.obligationRepo.Create(ctx, charge); err != nil {
			if errors.Is(err, ledger.ErrDuplicateObligation) {
				result.Skipped = append(result.Skipped, apartment.ID)
				continue
			}
			return nil, err
		}
		result.Created = append(result.Created, *toObligationResponse(charge))
	}
	return result, nil
}

// GetObligation gets an obligation by ID
func (s *ObligationService) GetObligation(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*ObligationResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	obligation, err := s.obligationRepo.FindByIDForTenant(ctx, tc.TenantID, id)
	if err != nil {
		return nil, err
	}
	if obligation == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Obligation not found")
	}
	return toObligationResponse(obligation), nil
}

// ObligationListFilter defines filtering options for obligation list queries
type ObligationListFilter struct {
	AccountID   *uuid.UUID `form:"account_id"`
	ApartmentID *uuid.UUID `form:"apartment_id"`
	VendorID    *uuid.UUID `form:"vendor_id"`
	Period      string     `form:"period"`
	DueFrom     *time.Time `form:"due_from"`
	DueTo       *time.Time `form:"due_to"`
	Unsettled   bool       `form:"unsettled"`
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size"`
}

func (f ObligationListFilter) toDomain() (ledger.ObligationFilter, error) {
	domainFilter := ledger.ObligationFilter{
		AccountID:   f.AccountID,
		ApartmentID: f.ApartmentID,
		VendorID:    f.VendorID,
		DueFrom:     f.DueFrom,
		DueTo:       f.DueTo,
		Unsettled:   f.Unsettled,
		Page:        f.Page,
		PageSize:    f.PageSize,
	}
	if f.Period != "" {
		period, err := ledger.ParsePeriod(f.Period)
		if err != nil {
			return ledger.ObligationFilter{}, err
		}
		domainFilter.Period = &period
	}
	return domainFilter, nil
}

// ListCharges lists charges with filtering
func (s *ObligationService) ListCharges(ctx context.Context, tc shared.TenantContext, filter ObligationListFilter) ([]ObligationResponse, int64, error) {
	return s.list(ctx, tc, ledger.ObligationKindCharge, filter)
}

// ListExpenses lists expenses with filtering
func (s *ObligationService) ListExpenses(ctx context.Context, tc shared.TenantContext, filter ObligationListFilter) ([]ObligationResponse, int64, error) {
	return s.list(ctx, tc, ledger.ObligationKindExpense, filter)
}

func (s *ObligationService) list(ctx context.Context, tc shared.TenantContext, kind ledger.ObligationKind, filter ObligationListFilter) ([]ObligationResponse, int64, error) {
	if err := tc.Validate(); err != nil {
		return nil, 0, err
	}
	domainFilter, err := filter.toDomain()
	if err != nil {
		return nil, 0, err
	}

	obligations, err := s.obligationRepo.FindAllForTenant(ctx, tc.TenantID, kind, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.obligationRepo.CountForTenant(ctx, tc.TenantID, kind, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ObligationResponse, len(obligations))
	for i, o := range obligations {
		responses[i] = *toObligationResponse(&o)
	}
	return responses, total, nil
}

// DeleteObligation archives an obligation, refusing when settlement money is
// already allocated against it.
func (s *ObligationService) DeleteObligation(ctx context.Context, tc shared.TenantContext, id uuid.UUID) error {
	if err := tc.Validate(); err != nil {
		return err
	}
	obligation, err := s.obligationRepo.FindByIDForTenant(ctx, tc.TenantID, id)
	if err != nil {
		return err
	}
	if obligation == nil {
		return shared.NewDomainError("NOT_FOUND", "Obligation not found")
	}
	if !obligation.CanDelete() {
		return ledger.ErrObligationHasSettlements
	}
	return s.obligationRepo.Archive(ctx, tc.TenantID, id)
}

func (s *ObligationService) ensureAccount(ctx context.Context, tenantID, accountID uuid.UUID, kind estate.AccountKind) error {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	if account == nil || !account.IsActive() {
		return shared.NewDomainError("NOT_FOUND", "Account not found")
	}
	if account.Kind != kind {
		return shared.NewDomainError("VALIDATION_ERROR", "Account kind does not match the obligation kind")
	}
	return nil
}
