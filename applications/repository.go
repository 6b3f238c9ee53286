package applications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/user/jobtrack-go/apperror"
	"github.com/user/jobtrack-go/db"
)

// Repository persists applications. Reads that take an owner only see that owner's rows;
// Update and Delete load by id alone and let the callback decide.
type Repository interface {
	List(ctx context.Context, ownerID uuid.UUID, page Page) ([]Application, error)
	// Get returns NotFound when the row is absent or belongs to another owner.
	Get(ctx context.Context, ownerID, id uuid.UUID) (*Application, error)
	Insert(ctx context.Context, app *Application) error
	// Update locks the row, passes it to mutate and writes the result back, all in one
	// transaction. An error from mutate aborts without writing.
	Update(ctx context.Context, id uuid.UUID, mutate func(app *Application) error) (*Application, error)
	// Delete locks the row, passes it to check and deletes it unless check fails.
	Delete(ctx context.Context, id uuid.UUID, check func(app *Application) error) error
}

// NewRepository returns the Repository implementation for d's driver.
func NewRepository(d *db.DB) Repository {
	if d.Pool != nil {
		return NewPgRepository(d.Pool)
	}
	return NewSQLiteRepository(d.SQL)
}

func notFound(id uuid.UUID) error {
	return apperror.NewNotFoundError("Job application not found", fmt.Errorf("application %s", id))
}

const selectColumns = `SELECT id, owner_id, company, status, url, applied_at, updated_at FROM job_applications`

// PgRepository stores applications in PostgreSQL.
type PgRepository struct {
	db *pgxpool.Pool
}

// NewPgRepository creates a PgRepository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: pool}
}

func scanPg(row pgx.Row) (*Application, error) {
	var (
		a      Application
		status string
	)
	if err := row.Scan(&a.ID, &a.OwnerID, &a.Company, &status, &a.URL, &a.AppliedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = Status(status)
	a.AppliedAt = a.AppliedAt.UTC()
	if a.UpdatedAt != nil {
		t := a.UpdatedAt.UTC()
		a.UpdatedAt = &t
	}
	return &a, nil
}

func (r *PgRepository) List(ctx context.Context, ownerID uuid.UUID, page Page) ([]Application, error) {
	rows, err := r.db.Query(ctx, selectColumns+`
		WHERE owner_id = $1
		ORDER BY applied_at, id
		OFFSET $2 LIMIT $3`, ownerID, page.Offset, page.Limit)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list applications", err)
	}
	defer rows.Close()

	apps := make([]Application, 0, page.Limit)
	for rows.Next() {
		a, err := scanPg(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan application", err)
		}
		apps = append(apps, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to list applications", err)
	}
	return apps, nil
}

func (r *PgRepository) Get(ctx context.Context, ownerID, id uuid.UUID) (*Application, error) {
	a, err := scanPg(r.db.QueryRow(ctx, selectColumns+` WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, apperror.NewDatabaseError("failed to get application", err)
	}
	return a, nil
}

func (r *PgRepository) Insert(ctx context.Context, app *Application) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO job_applications (id, owner_id, company, status, url, applied_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		app.ID, app.OwnerID, app.Company, string(app.Status), app.URL, app.AppliedAt, app.UpdatedAt)
	if err != nil {
		return apperror.NewDatabaseError("failed to create application", err)
	}
	return nil
}

// lockPg reads the row with SELECT ... FOR UPDATE inside tx.
func lockPg(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*Application, error) {
	a, err := scanPg(tx.QueryRow(ctx, selectColumns+` WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, apperror.NewDatabaseError("failed to lock application", err)
	}
	return a, nil
}

func (r *PgRepository) Update(ctx context.Context, id uuid.UUID, mutate func(app *Application) error) (*Application, error) {
	var updated *Application
	err := db.WithPgxTx(ctx, r.db, func(tx pgx.Tx) error {
		a, err := lockPg(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := mutate(a); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE job_applications
			SET company = $2, status = $3, url = $4, updated_at = $5
			WHERE id = $1`,
			a.ID, a.Company, string(a.Status), a.URL, a.UpdatedAt); err != nil {
			return apperror.NewDatabaseError("failed to update application", err)
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return updated, nil
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID, check func(app *Application) error) error {
	err := db.WithPgxTx(ctx, r.db, func(tx pgx.Tx) error {
		a, err := lockPg(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := check(a); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM job_applications WHERE id = $1`, id); err != nil {
			return apperror.NewDatabaseError("failed to delete application", err)
		}
		return nil
	})
	return asAppError(err)
}

// asAppError passes application errors through and classifies the rest (begin/commit
// failures) as database errors.
func asAppError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.FromError(err); ok {
		return err
	}
	return apperror.NewDatabaseError("transaction failed", err)
}

// SQLiteRepository stores applications in SQLite. Ids are TEXT and times are unix
// microseconds. The handle has a single connection, so a transaction excludes all other
// access for its duration.
type SQLiteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository creates a SQLiteRepository.
func NewSQLiteRepository(sqlDB *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{db: sqlDB}
}

// applicationRow is an application as SQLite stores it.
type applicationRow struct {
	ID        string         `db:"id"`
	OwnerID   string         `db:"owner_id"`
	Company   string         `db:"company"`
	Status    string         `db:"status"`
	URL       sql.NullString `db:"url"`
	AppliedAt int64          `db:"applied_at"`
	UpdatedAt sql.NullInt64  `db:"updated_at"`
}

func toRow(a *Application) applicationRow {
	row := applicationRow{
		ID:        a.ID.String(),
		OwnerID:   a.OwnerID.String(),
		Company:   a.Company,
		Status:    string(a.Status),
		AppliedAt: a.AppliedAt.UnixMicro(),
	}
	if a.URL != nil {
		row.URL = sql.NullString{String: *a.URL, Valid: true}
	}
	if a.UpdatedAt != nil {
		row.UpdatedAt = sql.NullInt64{Int64: a.UpdatedAt.UnixMicro(), Valid: true}
	}
	return row
}

func (row applicationRow) application() (*Application, error) {
	var (
		a   Application
		err error
	)
	if a.ID, err = uuid.Parse(row.ID); err != nil {
		return nil, fmt.Errorf("stored application id: %w", err)
	}
	if a.OwnerID, err = uuid.Parse(row.OwnerID); err != nil {
		return nil, fmt.Errorf("stored owner id: %w", err)
	}
	a.Company = row.Company
	a.Status = Status(row.Status)
	if row.URL.Valid {
		u := row.URL.String
		a.URL = &u
	}
	a.AppliedAt = time.UnixMicro(row.AppliedAt).UTC()
	if row.UpdatedAt.Valid {
		t := time.UnixMicro(row.UpdatedAt.Int64).UTC()
		a.UpdatedAt = &t
	}
	return &a, nil
}

func (r *SQLiteRepository) List(ctx context.Context, ownerID uuid.UUID, page Page) ([]Application, error) {
	var rows []applicationRow
	err := r.db.SelectContext(ctx, &rows, selectColumns+`
		WHERE owner_id = ?
		ORDER BY applied_at, id
		LIMIT ? OFFSET ?`, ownerID.String(), page.Limit, page.Offset)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list applications", err)
	}

	apps := make([]Application, 0, len(rows))
	for _, row := range rows {
		a, err := row.application()
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan application", err)
		}
		apps = append(apps, *a)
	}
	return apps, nil
}

// getSQLite loads one row from q, mapping an absent row to NotFound.
func getSQLite(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID, query string, args ...interface{}) (*Application, error) {
	var row applicationRow
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, apperror.NewDatabaseError("failed to load application", err)
	}
	a, err := row.application()
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to scan application", err)
	}
	return a, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, ownerID, id uuid.UUID) (*Application, error) {
	return getSQLite(ctx, r.db, id, selectColumns+` WHERE id = ? AND owner_id = ?`, id.String(), ownerID.String())
}

func (r *SQLiteRepository) Insert(ctx context.Context, app *Application) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO job_applications (id, owner_id, company, status, url, applied_at, updated_at)
		VALUES (:id, :owner_id, :company, :status, :url, :applied_at, :updated_at)`, toRow(app))
	if err != nil {
		return apperror.NewDatabaseError("failed to create application", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id uuid.UUID, mutate func(app *Application) error) (*Application, error) {
	var updated *Application
	err := db.WithSQLTx(ctx, r.db, func(tx *sqlx.Tx) error {
		a, err := getSQLite(ctx, tx, id, selectColumns+` WHERE id = ?`, id.String())
		if err != nil {
			return err
		}
		if err := mutate(a); err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, `
			UPDATE job_applications
			SET company = :company, status = :status, url = :url, updated_at = :updated_at
			WHERE id = :id`, toRow(a)); err != nil {
			return apperror.NewDatabaseError("failed to update application", err)
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return updated, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id uuid.UUID, check func(app *Application) error) error {
	err := db.WithSQLTx(ctx, r.db, func(tx *sqlx.Tx) error {
		a, err := getSQLite(ctx, tx, id, selectColumns+` WHERE id = ?`, id.String())
		if err != nil {
			return err
		}
		if err := check(a); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM job_applications WHERE id = ?`, id.String()); err != nil {
			return apperror.NewDatabaseError("failed to delete application", err)
		}
		return nil
	})
	return asAppError(err)
}
