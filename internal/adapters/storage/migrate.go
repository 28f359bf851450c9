package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// RunMigrations brings the schema up to date. It uses its own connection
// because closing a migrate instance closes the database it was given.
func RunMigrations(opts Options) error {
	migrateDB, err := sql.Open(opts.Driver, opts.DSN)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	var (
		driver database.Driver
		dir    string
		name   string
	)

	switch opts.Driver {
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(migrateDB, &migratesqlite.Config{})
		dir, name = "migrations/sqlite", "sqlite"
	case DriverPgx, DriverPostgres:
		driver, err = postgres.WithInstance(migrateDB, &postgres.Config{})
		dir, name = "migrations/postgres", "postgres"
	default:
		return fmt.Errorf("storage: unsupported driver %q", opts.Driver)
	}
	if err != nil {
		return fmt.Errorf("create %s migration driver: %w", name, err)
	}

	d, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, name, driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
