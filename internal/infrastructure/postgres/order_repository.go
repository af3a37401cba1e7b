package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenpc/marketplace/internal/domain/entity"
	"github.com/greenpc/marketplace/internal/domain/repository"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO orders (buyer_email, seller_email, product_id, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, o.BuyerEmail, o.SellerEmail, o.ProductID, o.Price)

	return row.Scan(&o.ID, &o.CreatedAt)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o := &entity.Order{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, buyer_email, seller_email, product_id, price, paid, created_at
		FROM orders
		WHERE id = $1
	`, id)
	if err := row.Scan(&o.ID, &o.BuyerEmail, &o.SellerEmail, &o.ProductID,
		&o.Price, &o.Paid, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerEmail string) ([]entity.Order, error) {
	return r.list(ctx, `
		SELECT id, buyer_email, seller_email, product_id, price, paid, created_at
		FROM orders
		WHERE buyer_email = $1
		ORDER BY created_at DESC
	`, buyerEmail)
}

func (r *OrderRepository) ListBySeller(ctx context.Context, sellerEmail string) ([]entity.Order, error) {
	return r.list(ctx, `
		SELECT id, buyer_email, seller_email, product_id, price, paid, created_at
		FROM orders
		WHERE seller_email = $1
		ORDER BY created_at DESC
	`, sellerEmail)
}

func (r *OrderRepository) list(ctx context.Context, sql string, args ...any) ([]entity.Order, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.BuyerEmail, &o.SellerEmail, &o.ProductID,
			&o.Price, &o.Paid, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
