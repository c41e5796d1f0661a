// Package common defines shared constants and sentinel errors used across
// repository, service and transport layers. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrDuplicateToken = errors.New("duplicate token")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorValidation       = errors.New("validation error")
	ErrorUnauthenticated  = errors.New("authentication required")
	ErrorUnauthorized     = errors.New("access denied")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrExternalService    = errors.New("external service error")

	// Token errors returned by the issuer.
	ErrInvalidSignature  = errors.New("invalid token signature")
	ErrTokenExpired      = errors.New("token expired")
	ErrMalformedToken    = errors.New("malformed token")
	ErrSubjectNotNumeric = errors.New("token subject is not numeric")
)

// ValidationError is a user-facing input error. Its message is safe to return
// to the caller verbatim. Every ValidationError matches ErrorValidation.
type ValidationError struct {
	Msg string
}

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string { return e.Msg }

// Is reports whether target is the ErrorValidation kind.
func (e *ValidationError) Is(target error) bool { return target == ErrorValidation }

// NotFoundError names the missing entity in a user-facing message.
// Every NotFoundError matches ErrorNotFound.
type NotFoundError struct {
	Msg string
}

func NewNotFoundError(format string, args ...any) *NotFoundError {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string { return e.Msg }

func (e *NotFoundError) Is(target error) bool { return target == ErrorNotFound }

// Duplicate input errors raised by registration and favorites.
var (
	ErrDuplicateEmail    = NewValidationError("Email already in use")
	ErrDuplicateUsername = NewValidationError("Username already in use")
	ErrDuplicateFavorite = NewValidationError("Coin already in favorites")
)
