package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, secret, subject string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func TestVerifyToken(t *testing.T) {
	s := NewAuthService(nil, "test-secret", 3*time.Hour)

	email, err := s.VerifyToken(signTestToken(t, "test-secret", "ana@example.ro", time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if email != "ana@example.ro" {
		t.Errorf("subject = %q, want ana@example.ro", email)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	s := NewAuthService(nil, "test-secret", 3*time.Hour)

	if _, err := s.VerifyToken(signTestToken(t, "test-secret", "ana@example.ro", -time.Minute)); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	s := NewAuthService(nil, "test-secret", 3*time.Hour)

	if _, err := s.VerifyToken(signTestToken(t, "other-secret", "ana@example.ro", time.Hour)); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyTokenMissingSubject(t *testing.T) {
	s := NewAuthService(nil, "test-secret", 3*time.Hour)

	if _, err := s.VerifyToken(signTestToken(t, "test-secret", "", time.Hour)); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyTokenGarbage(t *testing.T) {
	s := NewAuthService(nil, "test-secret", 3*time.Hour)

	if _, err := s.VerifyToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
