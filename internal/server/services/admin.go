package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/coinvue/internal/common"
	"github.com/dmitrijs2005/coinvue/internal/dbx"
	"github.com/dmitrijs2005/coinvue/internal/logging"
	"github.com/dmitrijs2005/coinvue/internal/server/auth"
	"github.com/dmitrijs2005/coinvue/internal/server/models"
	"github.com/dmitrijs2005/coinvue/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AdminSettings tunes the dashboard statistics.
type AdminSettings struct {
	ActiveUserWindow time.Duration
	TopCoinsLimit    int
}

type AdminService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	settings    AdminSettings
	now         func() time.Time
	log         logging.Logger
}

func NewAdminService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher,
	settings AdminSettings, log logging.Logger) *AdminService {
	return &AdminService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		settings:    settings,
		now:         time.Now,
		log:         log.With("module", "admin"),
	}
}

// Stats summarizes users and favorites. Active users are those that logged
// in within the configured window.
func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	usersRepo := s.repomanager.Users(s.db)
	favRepo := s.repomanager.Favorites(s.db)

	total, err := usersRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := usersRepo.CountLoggedInSince(ctx, s.now().Add(-s.settings.ActiveUserWindow))
	if err != nil {
		return nil, err
	}
	favCount, err := favRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	top, err := favRepo.TopCoins(ctx, s.settings.TopCoinsLimit)
	if err != nil {
		return nil, err
	}

	return &models.AdminStats{
		TotalUsers:     total,
		ActiveUsers:    active,
		TotalFavorites: favCount,
		TopCoins:       top,
	}, nil
}

// Users lists every account with its favorite count, newest first.
func (s *AdminService) Users(ctx context.Context) ([]*models.UserSummary, error) {
	return s.repomanager.Users(s.db).ListWithFavoriteCount(ctx)
}

// CreateAdmin inserts an administrator account. No session is opened.
func (s *AdminService) CreateAdmin(ctx context.Context, username, email, password string) (*models.SafeUser, error) {
	if err := validateAccount(username, email, password); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err = createUser(ctx, s.repomanager.Users(tx), username, email, hash, models.RoleAdmin, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "admin created", "user_id", user.ID, "username", username)
	safe := user.Safe()
	return &safe, nil
}

// Promote grants the admin role to an existing user. Sessions issued before
// the promotion keep the old role claim until the user logs in again.
func (s *AdminService) Promote(ctx context.Context, username string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.FindByUsername(ctx, username)
	if err != nil {
		return userNotFound(err, username)
	}
	if user.IsAdmin() {
		return nil
	}
	if err := repo.UpdateRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return err
	}
	s.log.Info(ctx, "user promoted", "user_id", user.ID, "username", username)
	return nil
}

// DeleteUser removes a user and everything that references it, in one
// transaction: sessions, favorites, announcement authorship, then the user.
func (s *AdminService) DeleteUser(ctx context.Context, username string) error {
	var userID int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		usersRepo := s.repomanager.Users(tx)
		user, err := usersRepo.FindByUsername(ctx, username)
		if err != nil {
			return userNotFound(err, username)
		}
		userID = user.ID

		if err := s.repomanager.AuthTokens(tx).RevokeAll(ctx, user.ID); err != nil {
			return fmt.Errorf("delete sessions: %w", err)
		}
		if err := s.repomanager.Favorites(tx).DeleteAllForUser(ctx, user.ID); err != nil {
			return fmt.Errorf("delete favorites: %w", err)
		}
		if err := s.repomanager.Announcements(tx).ClearAuthor(ctx, user.ID); err != nil {
			return fmt.Errorf("clear announcement author: %w", err)
		}
		return usersRepo.Delete(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	s.log.Warn(ctx, "user deleted", "user_id", userID, "username", username)
	return nil
}

// account mirrors the registration form rules for accounts created outside
// the HTTP API. Lengths count runes, as the form binding does.
type account struct {
	Username string `validate:"min=3,max=50"`
	Email    string `validate:"required,max=255,email"`
	Password string `validate:"min=6,max=100"`
}

func validateAccount(username, email, password string) error {
	err := validate.Struct(account{Username: username, Email: email, Password: password})
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err
	}
	switch fe := fields[0]; {
	case fe.Field() == "Username":
		return common.NewValidationError("username: size must be between 3 and 50")
	case fe.Field() == "Email" && fe.Tag() == "max":
		return common.NewValidationError("email: size must be at most 255")
	case fe.Field() == "Email":
		return common.NewValidationError("email: must be a well-formed email address")
	default:
		return common.NewValidationError("password: size must be between 6 and 100")
	}
}

func userNotFound(err error, username string) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.NewNotFoundError("User not found: %s", username)
	}
	return err
}
