// Package db provides database connectivity for the jobtrack service.
// It opens either a pgx connection pool (PostgreSQL) or an sqlx handle over the pure-Go
// modernc SQLite driver, runs schema migrations with golang-migrate, and
// offers transaction helpers that commit on success and roll back on any failure.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/user/jobtrack-go/apperror"
	"github.com/user/jobtrack-go/config"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// DB is an open database. Exactly one of Pool (postgres) or SQL (sqlite) is set,
// according to Driver.
type DB struct {
	Driver string
	Pool   *pgxpool.Pool
	SQL    *sqlx.DB

	dsn string
}

// Open connects to the database described by cfg and verifies the connection with a ping.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := createPgxPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &DB{Driver: cfg.Driver, Pool: pool, dsn: cfg.DSN}, nil
	case config.DriverSQLite:
		sqlDB, err := OpenSQLite(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &DB{Driver: cfg.Driver, SQL: sqlDB, dsn: cfg.DSN}, nil
	default:
		return nil, apperror.NewConfigError(fmt.Sprintf("unsupported database driver %q", cfg.Driver), nil)
	}
}

// createPgxPool establishes a pgxpool connection pool and pings it.
func createPgxPool(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, apperror.NewDatabaseError("error parsing postgres DSN", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	createCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(createCtx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError("error creating pgxpool", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError("error connecting to postgres", err)
	}
	return pool, nil
}

// OpenSQLite opens a SQLite database at path (":memory:" for an in-memory database)
// with foreign keys enabled. The handle is limited to one connection: SQLite allows a
// single writer, and an in-memory database only lives as long as its connection.
func OpenSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, apperror.NewDatabaseError("error opening sqlite database", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := sqlDB.ExecContext(pingCtx, "PRAGMA foreign_keys = ON;"); err != nil {
		_ = sqlDB.Close()
		return nil, apperror.NewDatabaseError("error connecting to sqlite database", err)
	}
	return sqlDB, nil
}

// Ping checks that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	if d.Pool != nil {
		return d.Pool.Ping(ctx)
	}
	if d.SQL != nil {
		return d.SQL.PingContext(ctx)
	}
	return errors.New("database is not open")
}

// Close releases the underlying pool or handle.
func (d *DB) Close() {
	if d.Pool != nil {
		d.Pool.Close()
	}
	if d.SQL != nil {
		_ = d.SQL.Close()
	}
}

// IsUniqueViolation reports whether err is a unique constraint violation from either driver.
// When constraint is non-empty the violated constraint (postgres) or message (sqlite) must
// mention it.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, constraint)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE && strings.Contains(liteErr.Error(), constraint)
	}
	return false
}
