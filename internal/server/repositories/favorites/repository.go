// Package favorites stores the coins each user follows. A favorite
// references its user by id only.
package favorites

import (
	"context"

	"github.com/dmitrijs2005/coinvue/internal/server/models"
)

type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]*models.Favorite, error)
	Find(ctx context.Context, userID int64, coinID string) (*models.Favorite, error)
	Create(ctx context.Context, fav *models.Favorite) (*models.Favorite, error)
	Delete(ctx context.Context, userID int64, coinID string) error
	DeleteAllForUser(ctx context.Context, userID int64) error
	Count(ctx context.Context) (int64, error)
	TopCoins(ctx context.Context, limit int) ([]models.CoinPopularity, error)
}
