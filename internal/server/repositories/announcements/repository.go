// Package announcements stores admin-managed site notices.
package announcements

import (
	"context"

	"github.com/dmitrijs2005/coinvue/internal/server/models"
)

type Repository interface {
	ListActive(ctx context.Context) ([]*models.Announcement, error)
	ListAll(ctx context.Context) ([]*models.Announcement, error)
	FindByID(ctx context.Context, id int64) (*models.Announcement, error)
	Create(ctx context.Context, a *models.Announcement) (*models.Announcement, error)
	Update(ctx context.Context, a *models.Announcement) (*models.Announcement, error)
	Delete(ctx context.Context, id int64) error
	ClearAuthor(ctx context.Context, userID int64) error
}
