package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	ledgerapp "github.com/strata/backend/internal/application/ledger"
	"github.com/strata/backend/internal/infrastructure/cache"
	"github.com/strata/backend/internal/infrastructure/config"
	"github.com/strata/backend/internal/infrastructure/logger"
	"github.com/strata/backend/internal/infrastructure/persistence"
)

// application bundles the wired services. Transport layers bind against
// these; the core itself only runs the recurring generation scheduler.
type application struct {
	Obligations *ledgerapp.ObligationService
	Allocations *ledgerapp.AllocationService
	Statements  *ledgerapp.StatementService
	Reports     *ledgerapp.ReportService
	Recurring   *ledgerapp.RecurringService
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Strata Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.Open(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	apartmentRepo := persistence.NewGormApartmentRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	obligationRepo := persistence.NewGormObligationRepository(db.DB)
	settlementRepo := persistence.NewGormSettlementRepository(db.DB)
	cashAccountRepo := persistence.NewGormCashAccountRepository(db.DB)
	occupancyRepo := persistence.NewGormOccupancyRepository(db.DB)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)

	// Initialize transaction scope for atomic settlement
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize scheduler lock. Redis keeps concurrent instances from
	// sweeping expense generation at the same time; fall back to the
	// in-memory lock when Redis is unreachable.
	var schedulerLock ledgerapp.SchedulerLock
	redisLock, err := cache.NewRedisSchedulerLock(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory scheduler lock", zap.Error(err))
		schedulerLock = cache.NewInMemorySchedulerLock()
	} else {
		defer func() {
			if err := redisLock.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		schedulerLock = redisLock
	}

	// Initialize application services
	app := &application{
		Obligations: ledgerapp.NewObligationService(obligationRepo, apartmentRepo, vendorRepo, accountRepo),
		Allocations: ledgerapp.NewAllocationService(txScope, log),
		Statements:  ledgerapp.NewStatementService(settlementRepo, cashAccountRepo),
		Reports:     ledgerapp.NewReportService(obligationRepo, occupancyRepo),
		Recurring:   ledgerapp.NewRecurringService(obligationRepo, templateRepo, apartmentRepo, tenantRepo, schedulerLock, log),
	}
	log.Info("Application services initialized")

	// Run the recurring generation scheduler
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Scheduler.Enabled {
		go runScheduler(ctx, cfg.Scheduler, app.Recurring, log)
		log.Info("Recurring generation scheduler started",
			zap.Duration("tick_interval", cfg.Scheduler.TickInterval),
		)
	} else {
		log.Info("Recurring generation scheduler disabled")
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	cancel()

	log.Info("Server exited")
}

// runScheduler sweeps all active tenants on every tick, generating the
// recurring charges and expenses that have come due.
func runScheduler(ctx context.Context, cfg config.SchedulerConfig, svc *ledgerapp.RecurringService, log *zap.Logger) {
	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()

	// Run one sweep at startup so a restarted instance catches up immediately
	sweep(ctx, cfg, svc)

	for {
		select {
		case <-ctx.Done():
			log.Info("Scheduler stopped")
			return
		case <-ticker.C:
			sweep(ctx, cfg, svc)
		}
	}
}

func sweep(ctx context.Context, cfg config.SchedulerConfig, svc *ledgerapp.RecurringService) {
	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()
	svc.RunScheduledGeneration(runCtx, time.Now())
}
