package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	claims := &Claims{
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestValidateJWTRoundTrip(t *testing.T) {
	token := signToken(t, "secret", "u1")

	claims, err := ValidateJWT(token, "secret")
	if err != nil {
		t.Fatalf("ValidateJWT returned error: %v", err)
	}
	if claims.Subject != "u1" {
		t.Errorf("unexpected subject: %q", claims.Subject)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("unexpected email: %q", claims.Email)
	}
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token := signToken(t, "secret", "u1")

	if _, err := ValidateJWT(token, "other-secret"); err == nil {
		t.Fatal("expected verification failure with the wrong secret")
	}
}

func TestValidateJWTExpired(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := ValidateJWT(token, "secret"); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestValidateJWTMissingSubject(t *testing.T) {
	token := signToken(t, "secret", "")

	if _, err := ValidateJWT(token, "secret"); err == nil {
		t.Fatal("expected token without a subject to be rejected")
	}
}
