// Package session carries the caller's credentials for the remote clinic
// API. One Session lives for one inbound request and is passed down
// through context to every data-fetching collaborator.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpired means the remote API no longer accepts the session's tokens.
var ErrExpired = errors.New("session expired")

type Session struct {
	mu        sync.Mutex
	access    string
	refresh   string
	refreshed bool
	expired   bool
}

func New(accessToken, refreshToken string) *Session {
	return &Session{access: accessToken, refresh: refreshToken}
}

func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

func (s *Session) CanRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh != "" && !s.expired
}

// Rotate installs tokens obtained from a refresh. An empty refresh token
// keeps the current one.
func (s *Session) Rotate(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = accessToken
	if refreshToken != "" {
		s.refresh = refreshToken
	}
	s.refreshed = true
}

// Refreshed reports whether tokens changed during the request and must
// be handed back to the browser.
func (s *Session) Refreshed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshed
}

func (s *Session) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = true
}

func (s *Session) Expired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expired
}

// AccessExpiresWithin reads the exp claim without verifying the
// signature; the remote API does the verification. Opaque tokens and
// tokens without exp never report expiry.
func (s *Session) AccessExpiresWithin(now time.Time, leeway time.Duration) bool {
	claims, ok := parseClaims(s.AccessToken())
	if !ok {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Add(leeway).Before(exp.Time)
}

// Subject identifies the staff member behind the token for audit logs.
func (s *Session) Subject() string {
	claims, ok := parseClaims(s.AccessToken())
	if !ok {
		return ""
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub
	}
	if id, ok := claims["user_id"]; ok {
		return fmt.Sprint(id)
	}
	return ""
}

func parseClaims(token string) (jwt.MapClaims, bool) {
	if token == "" {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
