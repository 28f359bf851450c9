package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Options selects the database driver and where to find the data.
type Options struct {
	Driver string
	// DSN is the Postgres connection string, or the database file for sqlite.
	DSN string
}

// Open connects to the database described by opts and applies pending migrations.
func Open(ctx context.Context, opts Options) (*sqlx.DB, error) {
	switch opts.Driver {
	case DriverPgx, DriverPostgres:
		return openPostgres(ctx, opts)
	case DriverSQLite:
		return openSQLite(ctx, opts)
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", opts.Driver)
	}
}

func openPostgres(ctx context.Context, opts Options) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, opts.Driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("storage: connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := RunMigrations(opts); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func openSQLite(ctx context.Context, opts Options) (*sqlx.DB, error) {
	if dir := filepath.Dir(opts.DSN); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create db directory: %w", err)
		}
	}

	if err := RunMigrations(opts); err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, DriverSQLite, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite database: %w", err)
	}

	// Pragmas are per connection, so keep exactly one.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: exec pragma %q: %w", p, err)
		}
	}

	return db, nil
}

// IsUniqueViolation reports whether err is a unique or primary key
// constraint failure from any of the supported drivers.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}
