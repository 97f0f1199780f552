// Package auth carries the authenticated session as an explicit value.
// Remote-touching calls take a *Session parameter; there is no module-level
// auth state.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is an authenticated data-API session.
type Session struct {
	Email     string
	Token     string
	ExpiresAt time.Time
}

// Valid reports whether the session can authorize a remote call at the given
// time. A nil session is never valid.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// FromToken builds a session from a bearer token, reading the expiry claim
// without verifying the signature. The server remains the authority; the
// claim only lets the client fail fast on an expired token.
func FromToken(email, token string) (*Session, error) {
	sess := &Session{Email: email, Token: token}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		// Not a JWT; keep the token as an opaque bearer credential.
		return sess, nil
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("read token expiry: %w", err)
	}
	if exp != nil {
		sess.ExpiresAt = exp.Time
	}

	return sess, nil
}
