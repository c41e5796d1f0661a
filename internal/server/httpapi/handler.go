// Package httpapi exposes the CoinVue services over a JSON HTTP API.
package httpapi

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/coinvue/internal/logging"
	"github.com/dmitrijs2005/coinvue/internal/server/models"
	"github.com/dmitrijs2005/coinvue/internal/server/services"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*services.Principal, error)
}

type FavoritesService interface {
	List(ctx context.Context, userID int64) ([]*models.Favorite, error)
	Add(ctx context.Context, userID int64, coinID string) (*models.Favorite, error)
	Remove(ctx context.Context, userID int64, coinID string) error
}

type AnnouncementService interface {
	ListActive(ctx context.Context) ([]*models.Announcement, error)
	ListAll(ctx context.Context) ([]*models.Announcement, error)
	Create(ctx context.Context, author services.Principal, in services.AnnouncementInput) (*models.Announcement, error)
	Update(ctx context.Context, id int64, in services.AnnouncementInput) (*models.Announcement, error)
	Delete(ctx context.Context, id int64) error
}

type AdminService interface {
	Stats(ctx context.Context) (*models.AdminStats, error)
	Users(ctx context.Context) ([]*models.UserSummary, error)
}

type CoinService interface {
	ListCoins(ctx context.Context, page, perPage int, order string) (json.RawMessage, error)
	CoinDetail(ctx context.Context, id string) (json.RawMessage, error)
}

// Pinger reports database reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves every API route. Construct it with NewHandler and mount
// Routes on an http.Server.
type Handler struct {
	auth          AuthService
	favorites     FavoritesService
	announcements AnnouncementService
	admin         AdminService
	coins         CoinService
	db            Pinger
	logger        logging.Logger
}

// Services groups the collaborators a Handler dispatches to.
type Services struct {
	Auth          AuthService
	Favorites     FavoritesService
	Announcements AnnouncementService
	Admin         AdminService
	Coins         CoinService
	DB            Pinger
}

func NewHandler(s Services, l logging.Logger) *Handler {
	return &Handler{
		auth:          s.Auth,
		favorites:     s.Favorites,
		announcements: s.Announcements,
		admin:         s.Admin,
		coins:         s.Coins,
		db:            s.DB,
		logger:        l.With("module", "http"),
	}
}
