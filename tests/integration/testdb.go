//go:build integration

// Package integration runs the storefront against real PostgreSQL and Redis
// containers started with testcontainers.
package integration

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	applog "github.com/styleco/storefront/internal/infrastructure/logger"
	"github.com/styleco/storefront/internal/infrastructure/migration"
	"github.com/styleco/storefront/migrations"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// one migrated PostgreSQL serves every test in the package
var shared struct {
	mu        sync.Mutex
	container testcontainers.Container
	dsn       string
}

// TestDB is a connection to the shared, migrated database
type TestDB struct {
	DB *gorm.DB
	t  *testing.T
}

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("storefront"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		return nil, "", fmt.Errorf("start postgres: %w", err)
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, "", err
	}
	return container, dsn, nil
}

// NewSharedTestDB connects to the package's PostgreSQL, starting and
// migrating it on first use. Call CleanTables before relying on row counts.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.container == nil {
		container, dsn, err := startPostgres(context.Background())
		require.NoError(t, err)
		shared.container, shared.dsn = container, dsn

		db := open(t, dsn)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		m, err := migration.New(sqlDB, migrations.FS, zaptest.NewLogger(t))
		require.NoError(t, err)
		require.NoError(t, m.Up(), "apply migrations")
		require.NoError(t, m.Close())
	}
	return &TestDB{DB: open(t, shared.dsn), t: t}
}

// open connects with gorm output going to the test log
func open(t *testing.T, dsn string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: applog.NewGormLogger(zaptest.NewLogger(t), gormlogger.Warn, applog.WithSQL(true)),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(5)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CleanTables empties every storefront table in one statement
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()
	var tables []string
	require.NoError(tdb.t, tdb.DB.Raw(`
		SELECT quote_ident(tablename) FROM pg_tables
		WHERE schemaname = 'public' AND tablename <> 'schema_migrations'`).Scan(&tables).Error)
	if len(tables) == 0 {
		return
	}
	require.NoError(tdb.t, tdb.DB.Exec("TRUNCATE TABLE "+strings.Join(tables, ", ")+" CASCADE").Error)
}

// CleanupSharedContainer stops the shared PostgreSQL; TestMain calls it
func CleanupSharedContainer() {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	if shared.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = shared.container.Terminate(ctx)
	shared.container, shared.dsn = nil, ""
}

// NewTestRedis starts a throwaway Redis and returns a connected client
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "start redis")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	addr, err := container.PortEndpoint(ctx, "6379/tcp", "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err(), "ping redis")
	return client
}
