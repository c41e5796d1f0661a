package models

import "time"

// AuthToken is a registry row for an issued session token.
type AuthToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
