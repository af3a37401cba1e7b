package repository

import (
	"context"

	"github.com/greenpc/marketplace/internal/domain/entity"
)

// OrderRepository defines order persistence and the buyer/seller views.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByBuyer(ctx context.Context, buyerEmail string) ([]entity.Order, error)
	ListBySeller(ctx context.Context, sellerEmail string) ([]entity.Order, error)
}

// Settler finalizes a settlement: mark the order paid and the product sold as
// one unit. Implementations must be idempotent and safe under concurrent
// finalize calls for the same pair; a repeat or lost-race call returns
// ErrAlreadySettled with both result flags false.
type Settler interface {
	Finalize(ctx context.Context, orderID, productID string) (entity.SettlementResult, error)
}
