package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/greenpc/marketplace/internal/domain/entity"
	repo "github.com/greenpc/marketplace/internal/domain/repository"
	"github.com/greenpc/marketplace/pkg/helpers"
)

// UserService covers registration, login, role resolution, and the admin
// operations on accounts.
type UserService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewUserService(r repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, JWT: jwt, Logger: logger}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Role     entity.Role
}

// Register is insert-once: a second call with the same email fails with
// ErrEmailTaken and creates nothing. The pre-check mirrors the store-level
// uniqueness constraint, which remains the safety net under races.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:    email,
		Name:     in.Name,
		Password: hash,
		Role:     in.Role,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"email": u.Email, "role": u.Role}).Info("user registered")
	return u, nil
}

// Login validates credentials and issues the token pair.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	pair, err := s.issueTokens(u.Email)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates the pair given a valid refresh token.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if _, err := s.Repo.GetByEmail(ctx, claims.Email); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.issueTokens(claims.Email)
}

func (s *UserService) issueTokens(email string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(email)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(email)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// ResolveRole returns the stored role, or RoleUnset when the user is missing
// or carries no role. One store lookup per call, by contract never cached.
func (s *UserService) ResolveRole(ctx context.Context, email string) (entity.Role, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return entity.RoleUnset, nil
		}
		return entity.RoleUnset, err
	}
	return u.Role, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// HasRole backs the public is-seller / is-buyer / is-admin flag endpoints.
func (s *UserService) HasRole(ctx context.Context, email string, role entity.Role) (bool, error) {
	got, err := s.ResolveRole(ctx, email)
	if err != nil {
		return false, err
	}
	return got == role, nil
}

func (s *UserService) ListAll(ctx context.Context) ([]entity.User, error) {
	return s.Repo.List(ctx)
}

func (s *UserService) ListByRole(ctx context.Context, role entity.Role) ([]entity.User, error) {
	return s.Repo.ListByRole(ctx, role)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.Logger.WithField("user_id", id).Info("user deleted")
	return nil
}

func (s *UserService) VerifySeller(ctx context.Context, id string) error {
	if err := s.Repo.MarkSellerVerified(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.Logger.WithField("user_id", id).Info("seller verified")
	return nil
}
