package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

// Session is the explicit request context every Client call is made with.
type Session struct {
	Token string
}

// Claims are the fields the backend puts into its access tokens.
type Claims struct {
	jwt.StandardClaims
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Claims decodes the token payload without verifying its signature; the
// backend owns the key. It is used to display identity and catch expiry early.
func (s Session) Claims() (*Claims, error) {
	if s.Token == "" {
		return nil, errors.New("empty token")
	}
	claims := &Claims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(s.Token, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return claims, nil
}

// ExpiresAt returns the token expiry, or the zero time when the token has
// no exp claim or is not a JWT.
func (s Session) ExpiresAt() time.Time {
	c, err := s.Claims()
	if err != nil || c.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(c.ExpiresAt, 0)
}

// Expired reports whether the token carries an exp claim in the past.
func (s Session) Expired(now time.Time) bool {
	exp := s.ExpiresAt()
	return !exp.IsZero() && now.After(exp)
}

// LoadToken reads a stored token. A missing file yields an empty Session.
func LoadToken(path string) (Session, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, err
	}
	return Session{Token: strings.TrimSpace(string(b))}, nil
}

// SaveToken stores token with owner-only permissions.
func SaveToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strings.TrimSpace(token)+"\n"), 0600)
}

// ClearToken deletes the stored token; a missing file is not an error.
func ClearToken(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
