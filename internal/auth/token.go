// Package auth supplies the bearer token the orchestrator presents to the
// management API. Token acquisition is out of scope: a token is issued
// externally, consumed once, and never refreshed mid-run.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken indicates that no bearer token was configured.
var ErrNoToken = errors.New("no bearer token configured")

// TokenProvider yields the bearer token for management API calls.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenProvider returns one pre-issued token for the run's duration.
type StaticTokenProvider struct {
	token string
}

// NewStatic wraps a pre-issued bearer token.
func NewStatic(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

// Token returns the wrapped token, or ErrNoToken if it is empty.
func (p *StaticTokenProvider) Token(_ context.Context) (string, error) {
	if p.token == "" {
		return "", ErrNoToken
	}
	return p.token, nil
}

// Expiry extracts the expiry time from a JWT bearer token without verifying
// its signature. Returns false for opaque or malformed tokens; callers use
// this only to warn when a token will not outlive the run.
func Expiry(token string) (time.Time, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
