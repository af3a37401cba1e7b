package repository

import (
	"context"

	"github.com/greenpc/marketplace/internal/domain/entity"
)

// CategoryRepository defines category lookups and insert-once creation.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	List(ctx context.Context) ([]entity.Category, error)
	ListNames(ctx context.Context) ([]string, error)
}

// ProductRepository owns all product reads and the per-transition conditional
// writes. Mutators return whether the write was applied so callers can
// distinguish a lost race on a sold product from success.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ListBySeller(ctx context.Context, sellerEmail string) ([]entity.Product, error)
	ListAdvertised(ctx context.Context) ([]entity.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]entity.Product, error)
	ListWishlistedBy(ctx context.Context, buyerEmail string) ([]entity.Product, error)
	ListReported(ctx context.Context) ([]entity.Product, error)

	// Advertise flips the status to advertised unless the product is sold.
	Advertise(ctx context.Context, id string) (applied bool, err error)
	// SetWishlist records the interested buyer, overwriting any prior one.
	// When allowSold is false the write is rejected on sold products.
	SetWishlist(ctx context.Context, id, buyerEmail string, allowSold bool) (applied bool, err error)
	MarkReported(ctx context.Context, id string) error
	SetImageURL(ctx context.Context, id, url string) error
	Delete(ctx context.Context, id string) error
}
