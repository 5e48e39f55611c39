package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pitara/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *slog.Logger) Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id::text, handle, title, COALESCE(description, ''), created_at
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("product repo: list", "error", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Handle, &p.Title, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("product repo: list rows", "error", err)
		return nil, err
	}

	for i := range result {
		variants, err := r.variantsForProduct(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Variants = variants
	}
	return result, nil
}

func (r *postgresRepo) GetByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	const q = `
SELECT id::text, handle, title, COALESCE(description, ''), created_at
FROM products
WHERE handle = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, handle).Scan(&p.ID, &p.Handle, &p.Title, &p.Description, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("product repo: get by handle", "handle", handle, "error", err)
		return nil, err
	}
	variants, err := r.variantsForProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Variants = variants
	return &p, nil
}

func (r *postgresRepo) GetVariant(ctx context.Context, variantID string) (*domain.Variant, error) {
	const q = `
SELECT id::text, product_id::text, sku, title, price_cents, currency, created_at
FROM variants
WHERE id = $1
`
	var v domain.Variant
	err := r.pool.QueryRow(ctx, q, variantID).Scan(&v.ID, &v.ProductID, &v.SKU, &v.Title, &v.PriceCents, &v.Currency, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("product repo: get variant", "variant_id", variantID, "error", err)
		return nil, err
	}
	return &v, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const productQ = `
INSERT INTO products (id, handle, title, description)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, NULLIF($4, ''))
ON CONFLICT (handle) DO UPDATE SET
    title = EXCLUDED.title,
    description = EXCLUDED.description
RETURNING id::text, created_at
`
	out := product
	if err := tx.QueryRow(ctx, productQ, product.ID, product.Handle, product.Title, product.Description).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, fmt.Errorf("upsert product %q: %w", product.Handle, err)
	}

	const variantQ = `
INSERT INTO variants (id, product_id, sku, title, price_cents, currency)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6)
ON CONFLICT (sku) DO UPDATE SET
    title = EXCLUDED.title,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency
RETURNING id::text, created_at
`
	for i, v := range product.Variants {
		var vout domain.Variant = v
		vout.ProductID = out.ID
		if err := tx.QueryRow(ctx, variantQ, v.ID, out.ID, v.SKU, v.Title, v.PriceCents, v.Currency).Scan(&vout.ID, &vout.CreatedAt); err != nil {
			return nil, fmt.Errorf("upsert variant %q: %w", v.SKU, err)
		}
		out.Variants[i] = vout
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) variantsForProduct(ctx context.Context, productID string) ([]domain.Variant, error) {
	const q = `
SELECT id::text, product_id::text, sku, title, price_cents, currency, created_at
FROM variants
WHERE product_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []domain.Variant
	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Title, &v.PriceCents, &v.Currency, &v.CreatedAt); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
