package repository

import (
	"context"

	"github.com/greenpc/marketplace/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	ListByRole(ctx context.Context, role entity.Role) ([]entity.User, error)
	MarkSellerVerified(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
