// Package common contains shared constants and sentinel errors used across
// CoinVue server components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName correlates a request across logs and responses.
const RequestIDHeaderName = "X-Request-ID"
