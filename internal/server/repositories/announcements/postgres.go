package announcements

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/coinvue/internal/common"
	"github.com/dmitrijs2005/coinvue/internal/dbx"
	"github.com/dmitrijs2005/coinvue/internal/server/models"
)

// PostgresRepository implements announcement storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectWithAuthor = `
	SELECT a.id, a.title, a.content, a.type, a.is_active, a.created_by, COALESCE(u.username, ''), a.created_at, a.updated_at
	FROM announcements a
	LEFT JOIN users u ON u.id = a.created_by
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnnouncement(row rowScanner) (*models.Announcement, error) {
	a := &models.Announcement{}
	var createdBy sql.NullInt64
	if err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Type, &a.IsActive, &createdBy,
		&a.CreatedByUsername, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if createdBy.Valid {
		id := createdBy.Int64
		a.CreatedBy = &id
	}
	return a, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string) ([]*models.Announcement, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// ListActive returns active announcements, newest first.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]*models.Announcement, error) {
	return r.list(ctx, selectWithAuthor+` WHERE a.is_active ORDER BY a.created_at DESC, a.id DESC`)
}

// ListAll returns every announcement, newest first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Announcement, error) {
	return r.list(ctx, selectWithAuthor+` ORDER BY a.created_at DESC, a.id DESC`)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Announcement, error) {
	a, err := scanAnnouncement(r.db.QueryRowContext(ctx, selectWithAuthor+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// Create inserts a and fills in id and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Announcement) (*models.Announcement, error) {
	query := `
		INSERT INTO announcements (title, content, type, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, a.Title, a.Content, a.Type, a.IsActive, a.CreatedBy).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// Update overwrites the editable fields of a by id and refreshes updated_at.
// The author is left unchanged.
func (r *PostgresRepository) Update(ctx context.Context, a *models.Announcement) (*models.Announcement, error) {
	query := `
		UPDATE announcements
		SET title = $2, content = $3, type = $4, is_active = $5, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, a.ID, a.Title, a.Content, a.Type, a.IsActive).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ClearAuthor detaches announcements from a user that is about to be deleted.
func (r *PostgresRepository) ClearAuthor(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE announcements SET created_by = NULL WHERE created_by = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
