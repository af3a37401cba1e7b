package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenpc/marketplace/internal/domain/entity"
	"github.com/greenpc/marketplace/internal/domain/repository"
)

// SettlementRepository performs the dual-record finalize as one transaction:
// both conditional updates apply, or neither does. Row locks taken by the
// first UPDATE serialize concurrent finalizes on the same order, and the
// status/paid guards in the WHERE clauses make retries no-ops, so exactly one
// of N racing calls commits.
type SettlementRepository struct {
	pool *pgxpool.Pool
}

func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

func (r *SettlementRepository) Finalize(ctx context.Context, orderID, productID string) (entity.SettlementResult, error) {
	var res entity.SettlementResult

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return res, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `
		UPDATE orders
		SET paid = true
		WHERE id = $1 AND paid = false
	`, orderID)
	if err != nil {
		return res, err
	}
	orderApplied := ct.RowsAffected() == 1

	ct, err = tx.Exec(ctx, `
		UPDATE products
		SET status = 'sold', paid = true, wishlisted_by = NULL, updated_at = now()
		WHERE id = $1 AND status <> 'sold'
	`, productID)
	if err != nil {
		return res, err
	}
	productApplied := ct.RowsAffected() == 1

	if !orderApplied || !productApplied {
		// Roll back so a half-applied pair is never committed, then classify.
		if err := r.classifyNoop(ctx, orderID, productID); err != nil {
			return res, err
		}
		return res, repository.ErrAlreadySettled
	}

	if err := tx.Commit(ctx); err != nil {
		return res, err
	}
	res.OrderApplied = true
	res.ProductApplied = true
	return res, nil
}

// classifyNoop distinguishes a missing record from an already-settled pair.
func (r *SettlementRepository) classifyNoop(ctx context.Context, orderID, productID string) error {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.Settler = (*SettlementRepository)(nil)
