package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // registers postgres:// for DSN-based migrations
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq" // database/sql driver used by migrate's postgres driver
	"go.uber.org/zap"

	"github.com/user/jobtrack-go/apperror"
	"github.com/user/jobtrack-go/config"
	"github.com/user/jobtrack-go/migrations"
)

// Migrator applies the embedded schema migrations to an open DB.
type Migrator struct {
	m        *migrate.Migrate
	closeAll bool // false when m shares the caller's *sql.DB
}

// migrateLogger adapts zap to migrate.Logger.
type migrateLogger struct {
	l *zap.Logger
}

func (ml migrateLogger) Printf(format string, v ...interface{}) {
	ml.l.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (ml migrateLogger) Verbose() bool { return false }

// NewMigrator builds a Migrator for d. For postgres, migrate opens its own connection
// from the DSN; for sqlite it reuses d.SQL, which must stay open for the Migrator's lifetime.
func NewMigrator(d *DB, log *zap.Logger) (*Migrator, error) {
	fsys, err := migrations.FS(d.Driver)
	if err != nil {
		return nil, apperror.NewConfigError("no migrations for database driver", err)
	}
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to open migration source", err)
	}

	var (
		m        *migrate.Migrate
		closeAll bool
	)
	switch d.Driver {
	case config.DriverPostgres:
		m, err = migrate.NewWithSourceInstance("iofs", src, d.dsn)
		closeAll = true
	case config.DriverSQLite:
		driver, derr := sqlite.WithInstance(d.SQL.DB, &sqlite.Config{})
		if derr != nil {
			_ = src.Close()
			return nil, apperror.NewDatabaseError("failed to create sqlite migration driver", derr)
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite", driver)
	default:
		err = fmt.Errorf("unsupported driver %q", d.Driver)
	}
	if err != nil {
		_ = src.Close()
		return nil, apperror.NewDatabaseError("failed to create migrator", err)
	}
	if log != nil {
		m.Log = migrateLogger{l: log.With(zap.String("component", "migrate"))}
	}
	return &Migrator{m: m, closeAll: closeAll}, nil
}

// Up applies all pending migrations. Having nothing to apply is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewDatabaseError("failed to run migrations", err)
	}
	return nil
}

// Down rolls back every applied migration.
func (mg *Migrator) Down() error {
	if err := mg.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewDatabaseError("failed to roll back migrations", err)
	}
	return nil
}

// Steps applies n migrations forward (n > 0) or backward (n < 0).
func (mg *Migrator) Steps(n int) error {
	if err := mg.m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewDatabaseError(fmt.Sprintf("failed to migrate %d steps", n), err)
	}
	return nil
}

// Version returns the current schema version. version is 0 when no migration has run.
func (mg *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, apperror.NewDatabaseError("failed to read schema version", err)
	}
	return version, dirty, nil
}

// Close releases the migration source, and the database connection when migrate owns it.
func (mg *Migrator) Close() error {
	if !mg.closeAll {
		// Closing the sqlite driver would close the shared *sql.DB.
		return nil
	}
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// RunMigrations applies all pending migrations to d.
func RunMigrations(d *DB, log *zap.Logger) error {
	mg, err := NewMigrator(d, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := mg.Close(); cerr != nil && log != nil {
			log.Warn("error closing migrator", zap.Error(cerr))
		}
	}()
	return mg.Up()
}
