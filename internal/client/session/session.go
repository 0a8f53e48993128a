// Package session holds the signed-in user's bearer token for the lifetime
// of the process and derives the current user from the token's claims.
// Features that need an account (like, comment, upload) read CurrentUser and
// are simply disabled when it returns nil.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/itskiranbabu/InstaReelFlow/internal/client/models"
)

type accessClaims struct {
	DisplayName string `json:"displayName"`
	jwt.RegisteredClaims
}

// Session is the client-side auth state. The token is kept only in memory,
// like any other per-run credential.
type Session struct {
	mu    sync.Mutex
	token string
	user  *models.User
	exp   time.Time

	now func() time.Time // test seam
}

func New() *Session {
	return &Session{now: time.Now}
}

// SetToken installs a server-issued access token. The claims are read
// without signature verification: the client has no signing key, and the
// server re-verifies the token on every request anyway. The subject claim
// becomes the user id; displayName falls back to the subject.
func (s *Session) SetToken(token string) error {
	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return fmt.Errorf("parse access token: %w", err)
	}
	if claims.Subject == "" {
		return fmt.Errorf("access token has no subject")
	}

	name := claims.DisplayName
	if name == "" {
		name = claims.Subject
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &models.User{ID: claims.Subject, DisplayName: name}
	if claims.ExpiresAt != nil {
		s.exp = claims.ExpiresAt.Time
	} else {
		s.exp = time.Time{}
	}
	return nil
}

// Token returns the bearer token for outgoing requests, or "" when no
// session is active or the token has expired.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expiredLocked() {
		return ""
	}
	return s.token
}

// CurrentUser returns the signed-in user, or nil when there is none or the
// session has expired.
func (s *Session) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expiredLocked() {
		return nil
	}
	return s.user
}

// Clear signs the user out.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.exp = time.Time{}
}

func (s *Session) expiredLocked() bool {
	return !s.exp.IsZero() && s.now().After(s.exp)
}
