package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/jobtrack-go/config"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	d, err := Open(context.Background(), &config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:", MaxConns: 1})
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.DatabaseConfig{Driver: "mysql"})
	require.Error(t, err)
}

func TestMigrator_UpDownVersion(t *testing.T) {
	d := openMemory(t)
	mg, err := NewMigrator(d, zap.NewNop())
	require.NoError(t, err)
	defer mg.Close()

	v, dirty, err := mg.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), v)
	assert.False(t, dirty)

	require.NoError(t, mg.Up())
	require.NoError(t, mg.Up(), "second Up is a no-op")

	v, dirty, err = mg.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)
	assert.False(t, dirty)

	_, err = d.SQL.Exec(`SELECT id, owner_id, company, status, url, applied_at, updated_at FROM job_applications`)
	require.NoError(t, err)

	require.NoError(t, mg.Down())
	_, err = d.SQL.Exec(`SELECT id FROM users`)
	require.Error(t, err, "users table is dropped by Down")

	require.NoError(t, d.Ping(context.Background()), "Down must not close the shared handle")
}

func TestRunMigrations_ForeignKeysAndUnique(t *testing.T) {
	d := openMemory(t)
	require.NoError(t, RunMigrations(d, nil))

	_, err := d.SQL.Exec(`INSERT INTO users (id, username, hashed_password, created_at, updated_at) VALUES ('u1', 'alice', 'h', 1, 1)`)
	require.NoError(t, err)

	_, err = d.SQL.Exec(`INSERT INTO users (id, username, hashed_password, created_at, updated_at) VALUES ('u2', 'alice', 'h', 1, 1)`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err, "username"))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))

	_, err = d.SQL.Exec(`INSERT INTO job_applications (id, owner_id, company, status, applied_at) VALUES ('a1', 'nobody', 'Acme', 'reviewing', 1)`)
	require.Error(t, err, "owner must exist")

	_, err = d.SQL.Exec(`INSERT INTO job_applications (id, owner_id, company, status, applied_at) VALUES ('a1', 'u1', 'Acme', 'ghosted', 1)`)
	require.Error(t, err, "status is constrained")
}

func TestWithSQLTx(t *testing.T) {
	d := openMemory(t)
	require.NoError(t, RunMigrations(d, nil))
	ctx := context.Background()

	insert := func(id, name string) func(tx *sqlx.Tx) error {
		return func(tx *sqlx.Tx) error {
			_, err := tx.ExecContext(ctx, `INSERT INTO users (id, username, hashed_password, created_at, updated_at) VALUES (?, ?, 'h', 1, 1)`, id, name)
			return err
		}
	}

	require.NoError(t, WithSQLTx(ctx, d.SQL, insert("u1", "alice")))

	boom := errors.New("boom")
	err := WithSQLTx(ctx, d.SQL, func(tx *sqlx.Tx) error {
		require.NoError(t, insert("u2", "bob")(tx))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Panics(t, func() {
		_ = WithSQLTx(ctx, d.SQL, func(tx *sqlx.Tx) error {
			require.NoError(t, insert("u3", "carol")(tx))
			panic("kaboom")
		})
	})

	var count int
	require.NoError(t, d.SQL.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 1, count)
}
