// Package testutil holds the helpers storefront tests share: databases,
// gin contexts, HTTP case tables and event recorders.
package testutil

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/infrastructure/persistence"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var quiet = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

// MockDB is a postgres-dialect gorm handle over sqlmock. Pings are
// monitored, so readiness probes need an ExpectPing.
type MockDB struct {
	DB   *gorm.DB
	Mock sqlmock.Sqlmock
}

func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger:                 quiet.Logger,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)
	return &MockDB{DB: db, Mock: mock}
}

// Verify fails the test on unmet expectations
func (m *MockDB) Verify(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet())
}

// NewSQLiteDB opens an in-memory sqlite database holding every storefront
// table. It is pinned to one connection, or the schema would vanish.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), quiet)
	require.NoError(t, err)
	conn, err := db.DB()
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.AutoMigrate(persistence.AllModels()...))
	return db
}
