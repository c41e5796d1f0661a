// Package models defines server-side data models persisted in the database
// and the outward-facing projections built from them.
package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusDisabled UserStatus = "disabled"
)

// User is a stored account. PasswordHash never leaves the server; use Safe
// to build anything that is returned to a client.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Status       UserStatus
	JoinDate     time.Time
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SafeUser is the identity-only projection of a User.
type SafeUser struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	JoinDate  time.Time  `json:"joinDate"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		JoinDate:  u.JoinDate,
		LastLogin: u.LastLogin,
	}
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// UserSummary is a row of the admin user listing.
type UserSummary struct {
	SafeUser
	FavoriteCount int64 `json:"favoriteCount"`
}
