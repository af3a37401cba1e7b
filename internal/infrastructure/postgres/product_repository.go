package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenpc/marketplace/internal/domain/entity"
	"github.com/greenpc/marketplace/internal/domain/repository"
)

const productColumns = `id, category_id, seller_email, name, description, image_url,
	price, status, paid, reported, wishlisted_by, created_at, updated_at`

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	if p.Status == "" {
		p.Status = entity.StatusListed
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (category_id, seller_email, name, description, image_url, price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, p.CategoryID, p.SellerEmail, p.Name, p.Description, p.ImageURL, p.Price, string(p.Status))

	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) ListBySeller(ctx context.Context, sellerEmail string) ([]entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE seller_email = $1 ORDER BY created_at DESC`, sellerEmail)
}

func (r *ProductRepository) ListAdvertised(ctx context.Context) ([]entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE status = 'advertised' ORDER BY created_at DESC`)
}

func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID string) ([]entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE category_id = $1 ORDER BY created_at DESC`, categoryID)
}

func (r *ProductRepository) ListWishlistedBy(ctx context.Context, buyerEmail string) ([]entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE wishlisted_by = $1 ORDER BY created_at DESC`, buyerEmail)
}

func (r *ProductRepository) ListReported(ctx context.Context) ([]entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE reported ORDER BY created_at DESC`)
}

// Advertise is a conditional update: a sold product stays sold, so a lost
// race against a concurrent settlement reports applied=false.
func (r *ProductRepository) Advertise(ctx context.Context, id string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE products
		SET status = 'advertised', updated_at = now()
		WHERE id = $1 AND status <> 'sold'
	`, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (r *ProductRepository) SetWishlist(ctx context.Context, id, buyerEmail string, allowSold bool) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE products
		SET wishlisted_by = $2, updated_at = now()
		WHERE id = $1 AND ($3 OR status <> 'sold')
	`, id, buyerEmail, allowSold)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (r *ProductRepository) MarkReported(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE products
		SET reported = true, updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) SetImageURL(ctx context.Context, id, url string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE products
		SET image_url = $2, updated_at = now()
		WHERE id = $1
	`, id, url)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) list(ctx context.Context, sql string, args ...any) ([]entity.Product, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	p := &entity.Product{}
	var status string
	if err := row.Scan(&p.ID, &p.CategoryID, &p.SellerEmail, &p.Name, &p.Description,
		&p.ImageURL, &p.Price, &status, &p.Paid, &p.Reported, &p.WishlistedBy,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Status = entity.ProductStatus(status)
	return p, nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
