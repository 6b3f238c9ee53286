// Package dbtest provides migrated throwaway databases for tests.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/user/jobtrack-go/config"
	"github.com/user/jobtrack-go/db"
)

// NewSQLite opens an in-memory SQLite database with the full schema applied.
// It is closed when the test finishes.
func NewSQLite(t testing.TB) *db.DB {
	t.Helper()
	d, err := db.Open(context.Background(), &config.DatabaseConfig{
		Driver:   config.DriverSQLite,
		DSN:      ":memory:",
		MaxConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(d.Close)
	require.NoError(t, db.RunMigrations(d, nil))
	return d
}

// PostgresEnv names the variable holding a DSN for a disposable PostgreSQL database.
const PostgresEnv = "JOBTRACK_TEST_POSTGRES_URL"

// NewPostgres connects to the database named by PostgresEnv and migrates it, skipping the
// test when the variable is unset. Tables are shared between tests, so callers use unique
// usernames.
func NewPostgres(t testing.TB) *db.DB {
	t.Helper()
	dsn := os.Getenv(PostgresEnv)
	if dsn == "" {
		t.Skipf("%s not set", PostgresEnv)
	}
	d, err := db.Open(context.Background(), &config.DatabaseConfig{
		Driver:   config.DriverPostgres,
		DSN:      dsn,
		MaxConns: 4,
	})
	require.NoError(t, err)
	t.Cleanup(d.Close)
	require.NoError(t, db.RunMigrations(d, nil))
	return d
}
