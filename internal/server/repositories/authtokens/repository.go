// Package authtokens is the session registry: every issued token is stored
// here so it can be revoked individually (logout) or per user (re-login).
package authtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/coinvue/internal/server/models"
)

type Repository interface {
	Record(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	RevokeAll(ctx context.Context, userID int64) error
	Revoke(ctx context.Context, token string) error
	Lookup(ctx context.Context, token string) (*models.AuthToken, error)
}
