package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/strata/backend/internal/domain/estate"
	"github.com/strata/backend/internal/domain/identity"
	"github.com/strata/backend/internal/domain/ledger"
	"github.com/strata/backend/internal/domain/shared"
	"github.com/strata/backend/internal/domain/shared/valueobject"
)

// SchedulerLock guards generation passes that are not idempotent on their
// own. Acquire returns false when another process already holds the key.
type SchedulerLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// expenseLockTTL bounds how long a crashed generator can block the next run.
const expenseLockTTL = 10 * time.Minute

// RecurringService materializes obligations from recurring templates.
//
// Charge generation is idempotent through the (tenant, apartment, period,
// account) uniqueness key: re-running a period creates only what is missing
// and never duplicates. Expense generation has no such key, so it is
// serialized with a scheduler lock instead.
type RecurringService struct {
	obligationRepo ledger.ObligationRepository
	templateRepo   ledger.TemplateRepository
	apartmentRepo  estate.ApartmentRepository
	tenantRepo     identity.TenantRepository
	lock           SchedulerLock
	logger         *zap.Logger
}

// NewRecurringService creates a new RecurringService
func NewRecurringService(
	obligationRepo ledger.ObligationRepository,
	templateRepo ledger.TemplateRepository,
	apartmentRepo estate.ApartmentRepository,
	tenantRepo identity.TenantRepository,
	lock SchedulerLock,
	logger *zap.Logger,
) *RecurringService {
	return &RecurringService{
		obligationRepo: obligationRepo,
		templateRepo:   templateRepo,
		apartmentRepo:  apartmentRepo,
		tenantRepo:     tenantRepo,
		lock:           lock,
		logger:         logger,
	}
}

// GenerationResult reports the outcome of one generation pass
type GenerationResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"` // already existed (charges) or not yet due (expenses)
}

// GenerateCharges materializes the tenant's active charge templates for the
// given period. Safe to re-run: apartments that already carry the charge for
// (period, account) are skipped, and the uniqueness constraint absorbs any
// race with a concurrent pass.
func (s *RecurringService) GenerateCharges(ctx context.Context, tc shared.TenantContext, period ledger.Period) (*GenerationResult, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	templates, err := s.templateRepo.FindActiveChargeTemplates(ctx, tc.TenantID)
	if err != nil {
		return nil, err
	}

	result := &GenerationResult{}
	for i := range templates {
		template := &templates[i]
		apartments, err := s.targetApartments(ctx, tc.TenantID, template)
		if err != nil {
			return nil, err
		}
		dueDate := period.DueDate(template.DueDay)

		for _, apartment := range apartments {
			exists, err := s.obligationRepo.ExistsCharge(ctx, tc.TenantID, apartment.ID, period, template.AccountID)
			if err != nil {
				return nil, err
			}
			if exists {
				result.Skipped++
				continue
			}
			charge, err := ledger.NewCharge(tc, apartment.ID, template.AccountID,
				valueobject.NewMoney(template.Amount), dueDate, period, template.Name)
			if err != nil {
				return nil, err
			}
			if err := s.obligationRepo.Create(ctx, charge); err != nil {
				if errors.Is(err, ledger.ErrDuplicateObligation) {
					result.Skipped++
					continue
				}
				return nil, err
			}
			result.Created++
		}
	}

	s.logger.Info("charge generation finished",
		zap.String("tenant_id", tc.TenantID.String()),
		zap.String("period", period.String()),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// GenerateExpenses materializes the tenant's due expense templates as of
// today. Eligibility rests on last_generated_at alone, so the pass runs
// under a per-tenant scheduler lock; when the lock is held elsewhere the
// pass is skipped and a nil result returned.
func (s *RecurringService) GenerateExpenses(ctx context.Context, tc shared.TenantContext, today time.Time) (*GenerationResult, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("scheduler:expense-generation:%s", tc.TenantID)
	acquired, err := s.lock.Acquire(ctx, key, expenseLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		s.logger.Info("expense generation already running elsewhere, skipping",
			zap.String("tenant_id", tc.TenantID.String()))
		return nil, nil
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("failed to release expense generation lock",
				zap.String("tenant_id", tc.TenantID.String()),
				zap.Error(err))
		}
	}()

	templates, err := s.templateRepo.FindActiveExpenseTemplates(ctx, tc.TenantID)
	if err != nil {
		return nil, err
	}

	period := ledger.PeriodOf(today)
	result := &GenerationResult{}
	for i := range templates {
		template := &templates[i]
		if !template.ShouldGenerate(today) {
			result.Skipped++
			continue
		}
		expense, err := ledger.NewExpense(tc, template.VendorID, template.AccountID,
			valueobject.NewMoney(template.Amount), today, period.DueDate(template.DueDay), template.Name)
		if err != nil {
			return nil, err
		}
		if err := s.obligationRepo.Create(ctx, expense); err != nil {
			return nil, err
		}
		if err := s.templateRepo.MarkExpenseGenerated(ctx, tc.TenantID, template.ID, today); err != nil {
			return nil, err
		}
		result.Created++
	}

	s.logger.Info("expense generation finished",
		zap.String("tenant_id", tc.TenantID.String()),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// RunScheduledGeneration runs both generation passes for every active
// tenant, as the scheduler's entry point. Per-tenant failures are logged
// and do not stop the sweep.
func (s *RecurringService) RunScheduledGeneration(ctx context.Context, now time.Time) {
	tenants, err := s.tenantRepo.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("scheduled generation could not list tenants", zap.Error(err))
		return
	}
	period := ledger.PeriodOf(now)
	for _, tenant := range tenants {
		tc := shared.NewTenantContext(tenant.ID, uuid.Nil)
		ctx := shared.WithTenant(ctx, tenant.ID)
		if _, err := s.GenerateCharges(ctx, tc, period); err != nil {
			s.logger.Error("charge generation failed",
				zap.String("tenant_id", tenant.ID.String()),
				zap.Error(err))
		}
		if _, err := s.GenerateExpenses(ctx, tc, now); err != nil {
			s.logger.Error("expense generation failed",
				zap.String("tenant_id", tenant.ID.String()),
				zap.Error(err))
		}
	}
}

func (s *RecurringService) targetApartments(ctx context.Context, tenantID uuid.UUID, template *ledger.ChargeTemplate) ([]estate.Apartment, error) {
	if template.Scope == ledger.ChargeScopeSelected {
		return s.apartmentRepo.FindByIDs(ctx, tenantID, template.ApartmentIDs)
	}
	return s.apartmentRepo.FindAllActive(ctx, tenantID)
}
