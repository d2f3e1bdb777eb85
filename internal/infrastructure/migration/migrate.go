// Package migration wraps golang-migrate for schema management of the
// partner database. The server never migrates on boot; all schema
// changes go through the migrate CLI.
package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator applies versioned SQL migrations from a directory of
// .up.sql/.down.sql file pairs.
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// New builds a Migrator on top of an open postgres connection.
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationsPath,
		"postgres",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}

	return &Migrator{m: m, logger: logger}, nil
}

// Up applies every pending migration.
func (mg *Migrator) Up() error {
	mg.logger.Info("Applying pending migrations")
	return mg.finish("apply", mg.m.Up())
}

// Down rolls back every applied migration.
func (mg *Migrator) Down() error {
	mg.logger.Warn("Rolling back all migrations")
	return mg.finish("rollback", mg.m.Down())
}

// Steps applies n migrations forward, or rolls back -n when negative.
func (mg *Migrator) Steps(n int) error {
	mg.logger.Info("Stepping migrations", zap.Int("steps", n))
	return mg.finish("step", mg.m.Steps(n))
}

// GoTo migrates up or down to exactly the given version.
func (mg *Migrator) GoTo(version uint) error {
	mg.logger.Info("Migrating to version", zap.Uint("target", version))
	return mg.finish("goto", mg.m.Migrate(version))
}

// Version reports the currently applied version and whether the
// schema is dirty (a migration failed part-way). A fresh database
// reports version 0.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded version without running any SQL.
// Only useful to clear a dirty flag after fixing a failed migration
// by hand.
func (mg *Migrator) Force(version int) error {
	mg.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version: %w", err)
	}
	mg.logVersion()
	return nil
}

// Drop deletes everything in the connected schema, including the
// migration bookkeeping table.
func (mg *Migrator) Drop() error {
	mg.logger.Warn("Dropping all database objects")
	if err := mg.m.Drop(); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	mg.logger.Info("Database dropped")
	return nil
}

// Close releases the source and database handles held by the
// underlying migrate instance.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return fmt.Errorf("close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}

// finish folds the shared outcome handling of the movement commands:
// ErrNoChange is success, anything else is wrapped, and on success the
// resulting version is logged.
func (mg *Migrator) finish(action string, err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		mg.logger.Info("Schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s migrations: %w", action, err)
	}
	mg.logVersion()
	return nil
}

func (mg *Migrator) logVersion() {
	version, dirty, err := mg.Version()
	if err != nil {
		mg.logger.Warn("Could not read migration version", zap.Error(err))
		return
	}
	mg.logger.Info("Migration complete",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
}
