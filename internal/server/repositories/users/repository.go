// Package users is the credential store: user accounts and the queries the
// auth and admin services run over them.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/coinvue/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdateRole(ctx context.Context, id int64, role models.Role) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountLoggedInSince(ctx context.Context, since time.Time) (int64, error)
	ListWithFavoriteCount(ctx context.Context) ([]*models.UserSummary, error)
}
