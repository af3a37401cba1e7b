package helpers_test

import (
	"testing"
	"time"

	"github.com/greenpc/marketplace/pkg/helpers"
)

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	m := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	token, exp, err := m.GenerateAccessToken("seller@example.com")
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if !exp.After(time.Now()) {
		t.Errorf("expiry should be in the future, got %v", exp)
	}

	claims, err := m.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Email != "seller@example.com" {
		t.Errorf("email: got %q, want %q", claims.Email, "seller@example.com")
	}
}

func TestJWTManager_RefreshTokenNotValidAsAccess(t *testing.T) {
	m := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	refresh, _, err := m.GenerateRefreshToken("buyer@example.com")
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}
	if _, err := m.ParseAccessToken(refresh); err == nil {
		t.Error("refresh token must not verify under the access secret")
	}
	if _, err := m.ParseRefreshToken(refresh); err != nil {
		t.Errorf("refresh token should verify under the refresh secret: %v", err)
	}
}

func TestJWTManager_ExpiredTokenRejected(t *testing.T) {
	m := helpers.NewJWTManager("access-secret", "refresh-secret", -time.Minute, 24*time.Hour)

	token, _, err := m.GenerateAccessToken("buyer@example.com")
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}
	if _, err := m.ParseAccessToken(token); err == nil {
		t.Error("expired token should be rejected")
	}
}

func TestJWTManager_WrongSecretRejected(t *testing.T) {
	issuer := helpers.NewJWTManager("secret-a", "refresh-a", time.Hour, time.Hour)
	verifier := helpers.NewJWTManager("secret-b", "refresh-b", time.Hour, time.Hour)

	token, _, err := issuer.GenerateAccessToken("buyer@example.com")
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}
	if _, err := verifier.ParseAccessToken(token); err == nil {
		t.Error("token signed with a different secret should be rejected")
	}
}

func TestHashPassword_CompareRoundTrip(t *testing.T) {
	hash, err := helpers.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "password123" {
		t.Fatal("hash must not equal the plain password")
	}
	if !helpers.CompareHashAndPassword(hash, "password123") {
		t.Error("correct password should match its hash")
	}
	if helpers.CompareHashAndPassword(hash, "wrong-password") {
		t.Error("wrong password must not match the hash")
	}
}
