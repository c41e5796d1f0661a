package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/coinvue/internal/common"
	"github.com/dmitrijs2005/coinvue/internal/logging"
	"github.com/dmitrijs2005/coinvue/internal/server/models"
	"github.com/dmitrijs2005/coinvue/internal/server/repositories/repomanager"
)

const maxCoinIDLength = 64

var errInvalidCoinID = common.NewValidationError("coinId: must be between 1 and 64 characters")

type FavoritesService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewFavoritesService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *FavoritesService {
	return &FavoritesService{db: db, repomanager: m, log: log.With("module", "favorites")}
}

func normalizeCoinID(coinID string) (string, error) {
	coinID = strings.TrimSpace(coinID)
	if coinID == "" || len(coinID) > maxCoinIDLength {
		return "", errInvalidCoinID
	}
	return coinID, nil
}

func (s *FavoritesService) List(ctx context.Context, userID int64) ([]*models.Favorite, error) {
	return s.repomanager.Favorites(s.db).ListByUser(ctx, userID)
}

// Add favorites coinID for the user. The user must exist and must not have
// the coin already.
func (s *FavoritesService) Add(ctx context.Context, userID int64, coinID string) (*models.Favorite, error) {
	coinID, err := normalizeCoinID(coinID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Users(s.db).FindByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError("User not found with id: %d", userID)
		}
		return nil, err
	}

	repo := s.repomanager.Favorites(s.db)
	if _, err := repo.Find(ctx, userID, coinID); err == nil {
		return nil, common.ErrDuplicateFavorite
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	fav, err := repo.Create(ctx, &models.Favorite{UserID: userID, CoinID: coinID})
	if err != nil {
		return nil, err
	}
	s.log.Debug(ctx, "favorite added", "user_id", userID, "coin_id", coinID)
	return fav, nil
}

// Remove drops coinID from the user's favorites. Absent favorites are ignored.
func (s *FavoritesService) Remove(ctx context.Context, userID int64, coinID string) error {
	coinID, err := normalizeCoinID(coinID)
	if err != nil {
		return err
	}
	return s.repomanager.Favorites(s.db).Delete(ctx, userID, coinID)
}
