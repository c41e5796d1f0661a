package authtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/coinvue/internal/common"
	"github.com/dmitrijs2005/coinvue/internal/dbx"
	"github.com/dmitrijs2005/coinvue/internal/server/models"
)

// PostgresRepository implements the registry over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Record stores a freshly issued token. A token string that is already
// present yields common.ErrDuplicateToken.
func (r *PostgresRepository) Record(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO auth_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, token, expiresAt); err != nil {
		if _, ok := dbx.UniqueViolation(err); ok {
			return common.ErrDuplicateToken
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// RevokeAll removes every token of userID.
func (r *PostgresRepository) RevokeAll(ctx context.Context, userID int64) error {
	query := `
		DELETE FROM auth_tokens
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Revoke removes a single token. Revoking an absent token is not an error.
func (r *PostgresRepository) Revoke(ctx context.Context, token string) error {
	query := `
		DELETE FROM auth_tokens
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Lookup returns the registry row for token, or common.ErrorNotFound.
func (r *PostgresRepository) Lookup(ctx context.Context, token string) (*models.AuthToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, created_at
		FROM auth_tokens
		WHERE token = $1
	`
	t := &models.AuthToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}
