// Package migrations creates the subscription schema. SQL files are embedded
// per driver and applied with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed mysql/*.sql sqlite3/*.sql
var migrationsFS embed.FS

// ErrMigrationFailed is returned when the schema could not be brought up to date.
var ErrMigrationFailed = errors.New("database migration failed")

// Migrate applies every pending up migration for driverName ("mysql" or
// "sqlite3"). Running it against an up-to-date schema is a no-op.
func Migrate(db *sql.DB, driverName string) error {
	if db == nil {
		return fmt.Errorf("%w: db is not initialized", ErrMigrationFailed)
	}

	var (
		driver database.Driver
		err    error
	)
	switch driverName {
	case "mysql":
		driver, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	case "sqlite3":
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return fmt.Errorf("%w: unsupported driver %q", ErrMigrationFailed, driverName)
	}
	if err != nil {
		return fmt.Errorf("%w: create driver: %v", ErrMigrationFailed, err)
	}

	source, err := iofs.New(migrationsFS, driverName)
	if err != nil {
		return fmt.Errorf("%w: create source: %v", ErrMigrationFailed, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		return fmt.Errorf("%w: create migrator: %v", ErrMigrationFailed, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}
	return nil
}
