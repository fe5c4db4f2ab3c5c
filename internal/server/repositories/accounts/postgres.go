// Package accounts provides a PostgreSQL-backed repository for user account
// records.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nihil-template/nihil-auth/internal/common"
	"github.com/nihil-template/nihil-auth/internal/dbx"
	"github.com/nihil-template/nihil-auth/internal/server/models"
)

const accountColumns = `id, email, name, role, profile_image, bio, active, last_login_at, created_at, updated_at, deleted_at`

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanAccount(row interface{ Scan(dest ...any) error }) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Role, &a.ProfileImage, &a.Bio,
		&a.Active, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// uniqueViolation is the PostgreSQL error code for a unique-index conflict.
const uniqueViolation = "23505"

// Create inserts a new account. A fresh id is generated when none is set.
// A unique-index conflict on the email column maps to ErrorEmailExists:
// two concurrent sign-ups can both pass the service-level duplicate check,
// and the loser must still surface as a conflict, not a server fault.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.Role == "" {
		account.Role = models.RoleUser
	}

	query := `
		INSERT INTO accounts (id, email, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + accountColumns

	row := r.db.QueryRowContext(ctx, query, account.ID, account.Email, account.Name, account.Role)
	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorEmailExists
		}
		return nil, err
	}
	return created, nil
}

// GetByEmail returns the live account registered under email, skipping
// withdrawn rows so a released email no longer resolves.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1 AND deleted_at IS NULL`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

// GetByID returns the live account with the given id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND deleted_at IS NULL`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// List returns a page of live accounts, oldest first.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE deleted_at IS NULL ORDER BY created_at LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// UpdateProfile replaces the display name and bio and returns the updated row.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, name string, bio *string) (*models.Account, error) {
	query := `
		UPDATE accounts SET name = $2, bio = $3, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + accountColumns

	return scanAccount(r.db.QueryRowContext(ctx, query, id, name, bio))
}

// UpdateProfileImage stores the object-storage key of the profile image.
func (r *PostgresRepository) UpdateProfileImage(ctx context.Context, id string, key string) (*models.Account, error) {
	query := `
		UPDATE accounts SET profile_image = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + accountColumns

	return scanAccount(r.db.QueryRowContext(ctx, query, id, key))
}

// TouchLastLogin refreshes the last-login timestamp.
func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id string) error {
	query := `UPDATE accounts SET last_login_at = now() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// MarkWithdrawn soft-deletes the account: the row stays in place with the
// activation flag cleared and the delete timestamp set.
func (r *PostgresRepository) MarkWithdrawn(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE accounts SET active = false, deleted_at = $2, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
