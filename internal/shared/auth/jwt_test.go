package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignAndVerify(t *testing.T) {
	v, err := NewVerifier("s3cret", "dev")
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	token, err := v.Sign(Claims{Name: "Ada Lovelace", RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-1" || claims.Name != "Ada Lovelace" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	signer, _ := NewVerifier("one", "dev")
	verifier, _ := NewVerifier("two", "dev")

	token, err := signer.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	v, _ := NewVerifier("s3cret", "dev")
	token, err := v.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := v.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewVerifierProductionRequiresSecret(t *testing.T) {
	if _, err := NewVerifier("", "production"); err == nil {
		t.Fatalf("expected error without secret in production")
	}
	if _, err := NewVerifier("", "dev"); err != nil {
		t.Fatalf("dev should fall back to a default secret: %v", err)
	}
}
