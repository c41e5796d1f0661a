package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/coinvue/internal/common"
	"github.com/dmitrijs2005/coinvue/internal/dbx"
	"github.com/dmitrijs2005/coinvue/internal/server/models"
)

// PostgresRepository implements favorite storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByUser returns the user's favorites, most recent first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Favorite, error) {
	query := `
		SELECT id, user_id, coin_id, created_at
		FROM coin_favorites
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Favorite{}
	for rows.Next() {
		f := &models.Favorite{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.CoinID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Find(ctx context.Context, userID int64, coinID string) (*models.Favorite, error) {
	query := `
		SELECT id, user_id, coin_id, created_at
		FROM coin_favorites
		WHERE user_id = $1 AND coin_id = $2
	`
	f := &models.Favorite{}
	err := r.db.QueryRowContext(ctx, query, userID, coinID).Scan(&f.ID, &f.UserID, &f.CoinID, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

// Create inserts fav and fills in id and created_at. A second favorite for
// the same coin yields common.ErrDuplicateFavorite.
func (r *PostgresRepository) Create(ctx context.Context, fav *models.Favorite) (*models.Favorite, error) {
	query := `
		INSERT INTO coin_favorites (user_id, coin_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, fav.UserID, fav.CoinID).Scan(&fav.ID, &fav.CreatedAt)
	if err != nil {
		if _, ok := dbx.UniqueViolation(err); ok {
			return nil, common.ErrDuplicateFavorite
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return fav, nil
}

// Delete removes one favorite; removing an absent one is a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, userID int64, coinID string) error {
	query := `DELETE FROM coin_favorites WHERE user_id = $1 AND coin_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, coinID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM coin_favorites WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM coin_favorites`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// TopCoins returns the most favorited coins, ties broken by coin id.
func (r *PostgresRepository) TopCoins(ctx context.Context, limit int) ([]models.CoinPopularity, error) {
	query := `
		SELECT coin_id, COUNT(*) AS cnt
		FROM coin_favorites
		GROUP BY coin_id
		ORDER BY cnt DESC, coin_id ASC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.CoinPopularity{}
	for rows.Next() {
		var c models.CoinPopularity
		if err := rows.Scan(&c.CoinID, &c.Count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
