// Package services contains server-side business logic: authentication and
// sessions, favorites, announcements, admin operations and market data.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/coinvue/internal/common"
	"github.com/dmitrijs2005/coinvue/internal/dbx"
	"github.com/dmitrijs2005/coinvue/internal/logging"
	"github.com/dmitrijs2005/coinvue/internal/server/auth"
	"github.com/dmitrijs2005/coinvue/internal/server/models"
	"github.com/dmitrijs2005/coinvue/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/coinvue/internal/server/repositories/users"
)

// Session is what register and login hand back to the client.
type Session struct {
	Token string          `json:"token"`
	User  models.SafeUser `json:"user"`
}

// Principal is the caller identity attached to an authenticated request.
type Principal struct {
	UserID   int64
	Username string
	Role     models.Role
}

func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

type AuthService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	issuer         *auth.TokenIssuer
	hasher         *auth.PasswordHasher
	strictSessions bool
	log            logging.Logger
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.TokenIssuer,
	hasher *auth.PasswordHasher, strictSessions bool, log logging.Logger) *AuthService {
	return &AuthService{
		db:             db,
		repomanager:    m,
		issuer:         issuer,
		hasher:         hasher,
		strictSessions: strictSessions,
		log:            log.With("module", "auth"),
	}
}

// Register creates a standard user and opens its first session. The
// uniqueness checks, the insert and the token record share one transaction.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*Session, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	var session *Session
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := createUser(ctx, s.repomanager.Users(tx), username, email, hash, models.RoleUser, s.issuer.Now())
		if err != nil {
			return err
		}
		session, err = s.issueSession(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user registered", "user_id", session.User.ID, "username", session.User.Username)
	return session, nil
}

// Login verifies the credentials, then replaces every existing session of
// the user with a fresh one. Unknown email and wrong password are reported
// identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}

	var session *Session
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		now := s.issuer.Now()
		if err := s.repomanager.Users(tx).UpdateLastLogin(ctx, user.ID, now); err != nil {
			return fmt.Errorf("update last login: %w", err)
		}
		user.LastLogin = &now

		if err := s.repomanager.AuthTokens(tx).RevokeAll(ctx, user.ID); err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}

		session, err = s.issueSession(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return session, nil
}

// Logout revokes token. It is a no-op for unknown or already revoked tokens.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.repomanager.AuthTokens(s.db).Revoke(ctx, token); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its principal. The signature and
// expiry are always checked; with strict sessions the token must also still
// be present in the registry.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.issuer.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthenticated, err)
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthenticated, common.ErrSubjectNotNumeric)
	}

	if s.strictSessions {
		if _, err := s.repomanager.AuthTokens(s.db).Lookup(ctx, token); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, fmt.Errorf("%w: session revoked", common.ErrorUnauthenticated)
			}
			return nil, fmt.Errorf("lookup session: %w", err)
		}
	}

	return &Principal{UserID: userID, Username: claims.Username, Role: models.Role(claims.Role)}, nil
}

func (s *AuthService) issueSession(ctx context.Context, tx dbx.DBTX, user *models.User) (*Session, error) {
	token, err := s.issuer.Issue(strconv.FormatInt(user.ID, 10), auth.Identity{
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	expiresAt := s.issuer.Now().Add(s.issuer.Lifetime())
	if err := s.repomanager.AuthTokens(tx).Record(ctx, user.ID, token, expiresAt); err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}

	return &Session{Token: token, User: user.Safe()}, nil
}

// createUser checks email then username for uniqueness and inserts the user.
func createUser(ctx context.Context, repo users.Repository, username, email, passwordHash string,
	role models.Role, now time.Time) (*models.User, error) {

	taken, err := repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.ErrDuplicateEmail
	}

	taken, err = repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.ErrDuplicateUsername
	}

	return repo.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Status:       models.StatusActive,
		JoinDate:     now,
		LastLogin:    &now,
		CreatedAt:    now,
	})
}
