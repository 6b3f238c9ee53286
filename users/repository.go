package users

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

// Repository persists accounts.
type Repository interface {
	// CreateAccount inserts account. A taken username yields a DuplicateUsername error and
	// leaves the existing row untouched.
	CreateAccount(ctx context.Context, account *Account) error
	// GetAccountByUsername returns the account with that username or a NotFound error.
	GetAccountByUsername(ctx context.Context, username string) (*Account, error)
}

// NewRepository returns the Repository implementation for d's driver.
func NewRepository(d *db.DB) Repository {
	if d.Pool != nil {
		return NewPgRepository(d.Pool)
	}
	return NewSQLiteRepository(d.SQL)
}

func duplicateUsername(username string, err error) error {
	return apperror.NewDuplicateUsernameError("Username already registered", fmt.Errorf("username %q: %w", username, err))
}

func accountNotFound(username string) error {
	return apperror.NewNotFoundError(fmt.Sprintf("account %q not found", username), nil)
}

// PgRepository stores accounts in PostgreSQL.
type PgRepository struct {
	db *pgxpool.Pool
}

// NewPgRepository creates a PgRepository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: pool}
}

func (r *PgRepository) CreateAccount(ctx context.Context, account *Account) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		account.ID, account.Username, account.HashedPassword, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err, "username") {
			return duplicateUsername(account.Username, err)
		}
		return apperror.NewDatabaseError("failed to create account", err)
	}
	return nil
}

func (r *PgRepository) GetAccountByUsername(ctx context.Context, username string) (*Account, error) {
	var a Account
	err := r.db.QueryRow(ctx, `
		SELECT id, username, hashed_password, created_at, updated_at
		FROM users
		WHERE username = $1`, username,
	).Scan(&a.ID, &a.Username, &a.HashedPassword, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, accountNotFound(username)
		}
		return nil, apperror.NewDatabaseError("failed to get account", err)
	}
	return &a, nil
}

// SQLiteRepository stores accounts in SQLite. Times are kept as unix microseconds.
type SQLiteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository creates a SQLiteRepository.
func NewSQLiteRepository(sqlDB *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{db: sqlDB}
}

// accountRow is an account as SQLite stores it.
type accountRow struct {
	ID             string `db:"id"`
	Username       string `db:"username"`
	HashedPassword string `db:"hashed_password"`
	CreatedAt      int64  `db:"created_at"`
	UpdatedAt      int64  `db:"updated_at"`
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, account *Account) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (id, username, hashed_password, created_at, updated_at)
		VALUES (:id, :username, :hashed_password, :created_at, :updated_at)`,
		accountRow{
			ID:             account.ID.String(),
			Username:       account.Username,
			HashedPassword: account.HashedPassword,
			CreatedAt:      account.CreatedAt.UnixMicro(),
			UpdatedAt:      account.UpdatedAt.UnixMicro(),
		},
	)
	if err != nil {
		if db.IsUniqueViolation(err, "username") {
			return duplicateUsername(account.Username, err)
		}
		return apperror.NewDatabaseError("failed to create account", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAccountByUsername(ctx context.Context, username string) (*Account, error) {
	var row accountRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, username, hashed_password, created_at, updated_at
		FROM users
		WHERE username = ?`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accountNotFound(username)
		}
		return nil, apperror.NewDatabaseError("failed to get account", err)
	}
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, apperror.NewDatabaseError("stored account id is not a uuid", err)
	}
	return &Account{
		ID:             id,
		Username:       row.Username,
		HashedPassword: row.HashedPassword,
		CreatedAt:      time.UnixMicro(row.CreatedAt).UTC(),
		UpdatedAt:      time.UnixMicro(row.UpdatedAt).UTC(),
	}, nil
}
