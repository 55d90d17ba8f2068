//go:build integration

// Package integration runs the storefront repositories and HTTP API against a real PostgreSQL.
// It uses testcontainers to start the database and the embedded migrations to build the schema.
package integration

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/storefront/backend/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testDBName     = "storefront_test"
	testDBUser     = "postgres"
	testDBPassword = "storefront123"
)

var (
	// Shared container for all tests in the package
	sharedContainer   *tcpostgres.PostgresContainer
	sharedContainerMu sync.Mutex
	sharedConfig      config.DatabaseConfig
)

// TestDB is a migrated PostgreSQL database with a ready Store
type TestDB struct {
	Store  *persistence.Store
	DB     *gorm.DB
	Config config.DatabaseConfig
	t      *testing.T
}

// NewTestDB returns a connection to the shared, migrated container with empty tables
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := sharedDatabase(t)

	gormLog := gormlogger.Default.LogMode(gormlogger.Silent)
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormLog = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := persistence.Open(context.Background(), &cfg, persistence.WithGormLogger(gormLog))
	require.NoError(t, err, "Failed to connect to database")

	store := persistence.NewReadyStore(db)
	tdb := &TestDB{Store: store, DB: db, Config: cfg, t: t}
	tdb.CleanTables()

	t.Cleanup(func() {
		_ = store.Close()
	})
	return tdb
}

// sharedDatabase starts the container and applies migrations once per package run
func sharedDatabase(t *testing.T) config.DatabaseConfig {
	t.Helper()

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		return sharedConfig
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(testDBName),
		tcpostgres.WithUsername(testDBUser),
		tcpostgres.WithPassword(testDBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	host, err := container.Host(ctx)
	require.NoError(t, err, "Failed to get container host")
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err, "Failed to get container port")

	cfg := config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		Host:            host,
		Port:            port.Int(),
		User:            testDBUser,
		Password:        testDBPassword,
		DBName:          testDBName,
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
		ConnectTimeout:  5 * time.Second,
	}

	runMigrations(t, cfg.DSN())

	sharedContainer = container
	sharedConfig = cfg
	return cfg
}

// runMigrations applies the embedded migrations on a dedicated connection.
// The migrator closes the connection it is given.
func runMigrations(t *testing.T, dsn string) {
	t.Helper()

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "Failed to open migration connection")

	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	defer m.Close()

	require.NoError(t, m.Up(), "Failed to run migrations")
}

// CleanupSharedContainer terminates the shared container.
// Call it from TestMain.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = sharedContainer.Terminate(ctx)
		sharedContainer = nil
		sharedConfig = config.DatabaseConfig{}
	}
}

// CleanTables truncates every storefront table
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	err := tdb.DB.Exec("TRUNCATE TABLE admin, products, orders, logos").Error
	require.NoError(tdb.t, err, "Failed to truncate tables")
}

// SeedOrder inserts an order the way the external checkout flow would
func (tdb *TestDB) SeedOrder(amount float64, createdAt time.Time, details models.Details) uuid.UUID {
	tdb.t.Helper()

	id := uuid.New()
	err := tdb.DB.Create(&models.OrderModel{
		ID:          id,
		Status:      "pending",
		TotalAmount: amount,
		CreatedAt:   createdAt.UTC(),
		Details:     details,
	}).Error
	require.NoError(tdb.t, err, "Failed to seed order")
	return id
}

// SeedLogo inserts an unapproved logo request
func (tdb *TestDB) SeedLogo(price float64, details models.Details) uuid.UUID {
	tdb.t.Helper()

	id := uuid.New()
	err := tdb.DB.Create(&models.LogoModel{
		ID:        id,
		Approval:  false,
		Price:     price,
		CreatedAt: time.Now().UTC(),
		Details:   details,
	}).Error
	require.NoError(tdb.t, err, "Failed to seed logo")
	return id
}
