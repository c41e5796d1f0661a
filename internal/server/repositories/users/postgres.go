package users

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

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, password_hash, role, status, join_date, last_login, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
		&u.JoinDate, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

// Create inserts user and fills in its id. Unique violations on email or
// username come back as the matching duplicate validation error.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, role, status, join_date, last_login, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role, user.Status,
		user.JoinDate, user.LastLogin, user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if constraint, ok := dbx.UniqueViolation(err); ok {
			switch constraint {
			case "users_email_key":
				return nil, common.ErrDuplicateEmail
			case "users_username_key":
				return nil, common.ErrDuplicateUsername
			}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.UpdatedAt = user.CreatedAt
	return user, nil
}

func (r *PostgresRepository) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, `id = $1`, id)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, `email = $1`, email)
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, `username = $1`, username)
}

func (r *PostgresRepository) exists(ctx context.Context, column string, value string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE ` + column + ` = $1)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, value).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *PostgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

func (r *PostgresRepository) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
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

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.update(ctx, `UPDATE users SET last_login = $2, updated_at = $2 WHERE id = $1`, id, at)
}

func (r *PostgresRepository) UpdateRole(ctx context.Context, id int64, role models.Role) error {
	return r.update(ctx, `UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, id, role)
}

// Delete removes the user row only. Dependent rows must be cleared first;
// the admin service does that in one transaction.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return r.update(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func (r *PostgresRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (r *PostgresRepository) CountLoggedInSince(ctx context.Context, since time.Time) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE last_login >= $1`, since)
}

// ListWithFavoriteCount returns every user, newest first, with the number of
// coins each has favorited.
func (r *PostgresRepository) ListWithFavoriteCount(ctx context.Context) ([]*models.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.email, u.role, u.status, u.join_date, u.last_login, COUNT(f.id)
		FROM users u
		LEFT JOIN coin_favorites f ON f.user_id = u.id
		GROUP BY u.id
		ORDER BY u.join_date DESC, u.id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.UserSummary{}
	for rows.Next() {
		s := &models.UserSummary{}
		var lastLogin sql.NullTime
		if err := rows.Scan(&s.ID, &s.Username, &s.Email, &s.Role, &s.Status, &s.JoinDate, &lastLogin, &s.FavoriteCount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if lastLogin.Valid {
			t := lastLogin.Time
			s.LastLogin = &t
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
