// Package auth contains the stateless half of authentication: signing and
// validating session tokens, and hashing passwords. Nothing here touches
// storage; revocation lives in the session registry.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/coinvue/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the set of user attributes embedded in every token.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Claims is what a validated token carries.
type Claims struct {
	jwt.RegisteredClaims
	Identity
}

// TokenIssuer signs and verifies HS512 session tokens with a fixed secret.
// It is safe for concurrent use.
type TokenIssuer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

type Option func(*TokenIssuer)

// WithClock overrides the time source used for iat/exp and for validation.
func WithClock(now func() time.Time) Option {
	return func(i *TokenIssuer) { i.now = now }
}

func NewTokenIssuer(secret []byte, lifetime time.Duration, opts ...Option) *TokenIssuer {
	i := &TokenIssuer{secret: secret, lifetime: lifetime, now: time.Now}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Lifetime is the validity period of issued tokens.
func (i *TokenIssuer) Lifetime() time.Duration { return i.lifetime }

// Now returns the issuer's current time.
func (i *TokenIssuer) Now() time.Time { return i.now() }

// Issue signs a token for subject with exp = iat + lifetime.
// Every token gets a random jti, so two tokens for the same identity issued
// within the same second still differ.
func (i *TokenIssuer) Issue(subject string, id Identity) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
			ID:        uuid.NewString(),
		},
		Identity: id,
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature and expiry of a token. A token is expired
// from the exact second of its exp claim onward.
func (i *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, classify(err)
	}
	return claims, nil
}

// ExtractSubject validates the token and returns its subject as a user id.
func (i *TokenIssuer) ExtractSubject(tokenString string) (int64, error) {
	claims, err := i.Validate(tokenString)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, common.ErrSubjectNotNumeric
	}
	return id, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return common.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	default:
		return common.ErrMalformedToken
	}
}
