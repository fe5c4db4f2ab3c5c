// Package credentials provides a PostgreSQL-backed repository for the
// credential records owned one-to-one by accounts.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nihil-template/nihil-auth/internal/common"
	"github.com/nihil-template/nihil-auth/internal/dbx"
	"github.com/nihil-template/nihil-auth/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the credential row for accountID. Called in the same
// transaction as account creation so neither record exists without the other.
func (r *PostgresRepository) Create(ctx context.Context, accountID string, passwordHash string) error {
	query := `
		INSERT INTO credentials (account_id, password_hash)
		VALUES ($1, $2)
	`
	if _, err := r.db.ExecContext(ctx, query, accountID, passwordHash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Get returns the live credential row for accountID.
func (r *PostgresRepository) Get(ctx context.Context, accountID string) (*models.Credential, error) {
	query := `
		SELECT account_id, password_hash, refresh_token, deleted, deleted_at
		FROM credentials
		WHERE account_id = $1 AND NOT deleted
	`
	c := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, accountID).
		Scan(&c.AccountID, &c.PasswordHash, &c.RefreshToken, &c.Deleted, &c.DeletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// UpdateRefreshToken replaces the stored refresh-token value. A nil token
// clears it (sign-out). The single-row UPDATE is the only ordering guarantee
// for concurrent refreshes.
func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, accountID string, token *string) error {
	query := `UPDATE credentials SET refresh_token = $2 WHERE account_id = $1`
	if _, err := r.db.ExecContext(ctx, query, accountID, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// UpdatePasswordHash replaces the stored password hash. The refresh-token
// column is deliberately left untouched.
func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, accountID string, hash string) error {
	query := `UPDATE credentials SET password_hash = $2 WHERE account_id = $1`
	if _, err := r.db.ExecContext(ctx, query, accountID, hash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// MarkDeleted soft-deletes the credential row alongside account withdrawal.
func (r *PostgresRepository) MarkDeleted(ctx context.Context, accountID string, at time.Time) error {
	query := `UPDATE credentials SET deleted = true, deleted_at = $2 WHERE account_id = $1`
	if _, err := r.db.ExecContext(ctx, query, accountID, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
