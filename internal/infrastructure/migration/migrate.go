// Package migration runs and scaffolds the PostgreSQL schema migrations.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Migrator wraps golang-migrate over a postgres connection. Closing it also
// closes db, so the server, which keeps using db, never closes it.
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// New reads migrations from the root of fsys: migrations.FS, or os.DirFS
// for a directory on disk.
func New(db *sql.DB, fsys fs.FS, logger *zap.Logger) (*Migrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}
	target, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres target: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", target)
	if err != nil {
		return nil, fmt.Errorf("init migrate: %w", err)
	}
	m.Log = migrateLogger{logger.Named("migrate")}
	return &Migrator{m: m, logger: logger}, nil
}

// migrateLogger sends golang-migrate's progress lines to zap at debug
type migrateLogger struct{ l *zap.Logger }

func (ml migrateLogger) Printf(format string, v ...any) {
	ml.l.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (ml migrateLogger) Verbose() bool {
	return ml.l.Core().Enabled(zap.DebugLevel)
}

// ignoreNoChange treats "nothing to apply" as success
func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	if err := ignoreNoChange(m.m.Up()); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return m.report("Schema migrated")
}

// Down reverts every migration
func (m *Migrator) Down() error {
	m.logger.Warn("Reverting all migrations")
	if err := ignoreNoChange(m.m.Down()); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return m.report("Schema reverted")
}

// Steps moves n migrations, forward when positive
func (m *Migrator) Steps(n int) error {
	if err := ignoreNoChange(m.m.Steps(n)); err != nil {
		return fmt.Errorf("migrate %d steps: %w", n, err)
	}
	return m.report("Schema stepped")
}

// Version is 0 on an empty schema. dirty means a migration failed halfway
// and Force is needed.
func (m *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Force records version as applied and clean without running anything
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing schema version", zap.Int("version", version))
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (m *Migrator) report(msg string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
