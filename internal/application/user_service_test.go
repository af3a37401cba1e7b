package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/greenpc/marketplace/internal/application"
	"github.com/greenpc/marketplace/internal/domain/entity"
	"github.com/greenpc/marketplace/pkg/helpers"
)

func newUserService() (*application.UserService, *memUserRepo) {
	repo := newMemUserRepo()
	jwt := helpers.NewJWTManager("access", "refresh", time.Hour, 24*time.Hour)
	return application.NewUserService(repo, jwt, testLogger()), repo
}

func TestRegister_InsertOnce(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, application.RegisterInput{
		Email:    "Seller@Example.com",
		Name:     "Seller One",
		Password: "password123",
		Role:     entity.RoleSeller,
	})
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	if u.Email != "seller@example.com" {
		t.Errorf("email should be normalized lower-case, got %q", u.Email)
	}

	_, err = svc.Register(ctx, application.RegisterInput{
		Email:    "seller@example.com",
		Name:     "Imposter",
		Password: "different-pass",
		Role:     entity.RoleBuyer,
	})
	if !errors.Is(err, application.ErrEmailTaken) {
		t.Fatalf("second register: got %v, want ErrEmailTaken", err)
	}

	// The original record is untouched.
	got, err := svc.GetByEmail(ctx, "seller@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.Name != "Seller One" || got.Role != entity.RoleSeller {
		t.Errorf("existing record modified: name=%q role=%q", got.Name, got.Role)
	}
}

func TestLogin_IssuesTokenPair(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, application.RegisterInput{
		Email: "buyer@example.com", Name: "Buyer", Password: "password123", Role: entity.RoleBuyer,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	u, pair, err := svc.Login(ctx, "buyer@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Email != "buyer@example.com" {
		t.Errorf("email: got %q", u.Email)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse issued access token: %v", err)
	}
	if claims.Email != "buyer@example.com" {
		t.Errorf("claim email: got %q", claims.Email)
	}
}

func TestLogin_WrongPasswordRejected(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, application.RegisterInput{
		Email: "buyer@example.com", Name: "Buyer", Password: "password123", Role: entity.RoleBuyer,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "buyer@example.com", "wrong"); !errors.Is(err, application.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, application.ErrInvalidCredentials) {
		t.Errorf("unknown account: got %v, want ErrInvalidCredentials", err)
	}
}

func TestRefresh_RotatesPair(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, application.RegisterInput{
		Email: "buyer@example.com", Name: "Buyer", Password: "password123", Role: entity.RoleBuyer,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, pair, err := svc.Login(ctx, "buyer@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.AccessToken == "" || rotated.RefreshToken == "" {
		t.Error("expected a full rotated pair")
	}

	if _, err := svc.Refresh(ctx, pair.AccessToken); !errors.Is(err, application.ErrInvalidCredentials) {
		t.Errorf("access token used as refresh: got %v, want ErrInvalidCredentials", err)
	}
}

func TestResolveRole_MissingUserIsUnset(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	role, err := svc.ResolveRole(ctx, "ghost@example.com")
	if err != nil {
		t.Fatalf("resolve role: %v", err)
	}
	if role != entity.RoleUnset {
		t.Errorf("role: got %q, want unset", role)
	}
}

func TestHasRole_ExactMatchOnly(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, application.RegisterInput{
		Email: "admin@example.com", Name: "Admin", Password: "password123", Role: entity.RoleAdmin,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []struct {
		role entity.Role
		want bool
	}{
		{entity.RoleAdmin, true},
		{entity.RoleSeller, false},
		{entity.RoleBuyer, false},
	}
	for _, tc := range cases {
		got, err := svc.HasRole(ctx, "admin@example.com", tc.role)
		if err != nil {
			t.Fatalf("has role %q: %v", tc.role, err)
		}
		if got != tc.want {
			t.Errorf("has role %q: got %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestVerifySeller_MarksAccount(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, application.RegisterInput{
		Email: "seller@example.com", Name: "Seller", Password: "password123", Role: entity.RoleSeller,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.SellerVerified {
		t.Fatal("new seller must start unverified")
	}

	if err := svc.VerifySeller(ctx, u.ID); err != nil {
		t.Fatalf("verify seller: %v", err)
	}
	got, _ := svc.GetByEmail(ctx, "seller@example.com")
	if !got.SellerVerified {
		t.Error("seller should be verified after the admin action")
	}

	if err := svc.VerifySeller(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, application.ErrNotFound) {
		t.Errorf("verify missing: got %v, want ErrNotFound", err)
	}
}
