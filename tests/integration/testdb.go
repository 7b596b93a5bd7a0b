// Package integration exercises the ledger services against a real
// PostgreSQL instance started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const postgresImage = "postgres:16-alpine"

// TestDB owns one throwaway PostgreSQL container with the full schema
// applied. Every test gets its own container, so nothing leaks between
// tests and row locks behave exactly as they do in production.
type TestDB struct {
	DB *gorm.DB

	t         *testing.T
	sqlDB     *sql.DB
	container testcontainers.Container
}

// NewTestDB starts a PostgreSQL container, applies all migrations and
// returns a connected handle. Container and connection are torn down
// through t.Cleanup.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase("strata_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "resolve container connection string")

	tdb := &TestDB{t: t, container: container}
	tdb.connect(dsn)
	t.Cleanup(func() { tdb.sqlDB.Close() })

	tdb.migrate()

	return tdb
}

func (tdb *TestDB) connect(dsn string) {
	tdb.t.Helper()

	logLevel := gormlogger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	require.NoError(tdb.t, err, "open gorm connection")

	sqlDB, err := db.DB()
	require.NoError(tdb.t, err, "unwrap sql.DB")

	// Concurrency tests run 50 settlements at once, each inside its own
	// transaction, so the pool must not become the serialization point.
	sqlDB.SetMaxOpenConns(60)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	tdb.DB = db
	tdb.sqlDB = sqlDB
}

func (tdb *TestDB) migrate() {
	tdb.t.Helper()

	dir := migrationsDir()
	require.NotEmpty(tdb.t, dir, "migrations directory not found")

	driver, err := mpg.WithInstance(tdb.sqlDB, &mpg.Config{})
	require.NoError(tdb.t, err, "create migration driver")

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	require.NoError(tdb.t, err, "create migrator")

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(tdb.t, err, "apply migrations")
	}
}

// migrationsDir walks up from this source file until it finds the
// migrations directory at the repository root.
func migrationsDir() string {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}

	dir := filepath.Dir(thisFile)
	for range 5 {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	return ""
}

// CreateTestTenant inserts a tenant row for testing.
func (tdb *TestDB) CreateTestTenant(tenantID fmt.Stringer, name string) {
	tdb.t.Helper()

	err := tdb.DB.Exec(`
		INSERT INTO tenants (id, created_at, updated_at, status, name, timezone)
		VALUES (?, NOW(), NOW(), 'ACTIVE', ?, 'UTC')
		ON CONFLICT (id) DO NOTHING
	`, tenantID.String(), name).Error
	require.NoError(tdb.t, err, "Failed to create test tenant")
}

// CreateTestApartment inserts an apartment row for testing.
func (tdb *TestDB) CreateTestApartment(tenantID, apartmentID fmt.Stringer, code string) {
	tdb.t.Helper()

	err := tdb.DB.Exec(`
		INSERT INTO apartments (id, created_at, updated_at, status, tenant_id, code, label)
		VALUES (?, NOW(), NOW(), 'ACTIVE', ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, apartmentID.String(), tenantID.String(), code, "Apartment "+code).Error
	require.NoError(tdb.t, err, "Failed to create test apartment")
}

// CreateTestAccount inserts a booking account row for testing.
func (tdb *TestDB) CreateTestAccount(tenantID, accountID fmt.Stringer, name, kind string) {
	tdb.t.Helper()

	err := tdb.DB.Exec(`
		INSERT INTO accounts (id, created_at, updated_at, status, tenant_id, name, kind)
		VALUES (?, NOW(), NOW(), 'ACTIVE', ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, accountID.String(), tenantID.String(), name, kind).Error
	require.NoError(tdb.t, err, "Failed to create test account")
}

// CreateTestCashAccount inserts a cash account row for testing.
func (tdb *TestDB) CreateTestCashAccount(tenantID, cashAccountID fmt.Stringer, name string, openingBalance string) {
	tdb.t.Helper()

	err := tdb.DB.Exec(`
		INSERT INTO cash_accounts (id, created_at, updated_at, status, tenant_id, name, opening_balance)
		VALUES (?, NOW(), NOW(), 'ACTIVE', ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, cashAccountID.String(), tenantID.String(), name, openingBalance).Error
	require.NoError(tdb.t, err, "Failed to create test cash account")
}

// CreateTestVendor inserts a vendor row for testing.
func (tdb *TestDB) CreateTestVendor(tenantID, vendorID fmt.Stringer, name string) {
	tdb.t.Helper()

	err := tdb.DB.Exec(`
		INSERT INTO vendors (id, created_at, updated_at, status, tenant_id, name)
		VALUES (?, NOW(), NOW(), 'ACTIVE', ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, vendorID.String(), tenantID.String(), name).Error
	require.NoError(tdb.t, err, "Failed to create test vendor")
}
