package api

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := Claims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: exp.Unix(), Subject: "dispatch@acme.test"},
		UserID:         "u42",
		Email:          "dispatch@acme.test",
		Role:           "admin",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestSessionClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	s := Session{Token: signedToken(t, exp)}

	c, err := s.Claims()
	if err != nil {
		t.Fatalf("Claims: %v", err)
	}
	if c.UserID != "u42" || c.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", c)
	}
	if !s.ExpiresAt().Equal(exp) {
		t.Fatalf("ExpiresAt = %v, want %v", s.ExpiresAt(), exp)
	}
	if s.Expired(time.Now()) {
		t.Fatal("token should not be expired")
	}
	if !s.Expired(exp.Add(time.Minute)) {
		t.Fatal("token should be expired after exp")
	}
}

func TestSessionOpaqueToken(t *testing.T) {
	s := Session{Token: "not-a-jwt"}
	if _, err := s.Claims(); err == nil {
		t.Fatal("expected decode error")
	}
	if !s.ExpiresAt().IsZero() || s.Expired(time.Now()) {
		t.Fatal("opaque tokens never expire client-side")
	}
}

func TestTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "haulctl", "token")

	s, err := LoadToken(path)
	if err != nil || s.Token != "" {
		t.Fatalf("LoadToken(missing) = %+v, %v", s, err)
	}
	if err := SaveToken(path, "  abc.def.ghi \n"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0600 {
			t.Fatalf("token perms = %v", info.Mode().Perm())
		}
	}
	s, err = LoadToken(path)
	if err != nil || s.Token != "abc.def.ghi" {
		t.Fatalf("LoadToken = %+v, %v", s, err)
	}
	if err := ClearToken(path); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	if err := ClearToken(path); err != nil {
		t.Fatalf("ClearToken twice: %v", err)
	}
}
