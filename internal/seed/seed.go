package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type variantSeed struct {
	SKU        string
	Title      string
	PriceCents int64
	Currency   string
}

type productSeed struct {
	Handle      string
	Title       string
	Description string
	Variants    []variantSeed
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Handle:      "block-print-kurta",
			Title:       "Block Print Kurta",
			Description: "Hand-blocked cotton kurta in indigo",
			Variants: []variantSeed{
				{SKU: "KURTA-S", Title: "S", PriceCents: 149900, Currency: "INR"},
				{SKU: "KURTA-M", Title: "M", PriceCents: 149900, Currency: "INR"},
				{SKU: "KURTA-L", Title: "L", PriceCents: 149900, Currency: "INR"},
			},
		},
		{
			Handle:      "jhumka-earrings",
			Title:       "Jhumka Earrings",
			Description: "Oxidised silver jhumkas",
			Variants: []variantSeed{
				{SKU: "JHUMKA-1", Title: "One Size", PriceCents: 59900, Currency: "INR"},
			},
		},
		{
			Handle:      "brass-diya",
			Title:       "Brass Diya",
			Description: "Hand-cast brass oil lamp",
			Variants: []variantSeed{
				{SKU: "DIYA-SM", Title: "Small", PriceCents: 34900, Currency: "INR"},
				{SKU: "DIYA-LG", Title: "Large", PriceCents: 54900, Currency: "INR"},
			},
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Handle, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const productQ = `
INSERT INTO products (handle, title, description)
VALUES ($1, $2, $3)
ON CONFLICT (handle) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description
RETURNING id::text
`
	var productID string
	if err := pool.QueryRow(ctx, productQ, p.Handle, p.Title, p.Description).Scan(&productID); err != nil {
		return err
	}

	const variantQ = `
INSERT INTO variants (product_id, sku, title, price_cents, currency)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (sku) DO UPDATE SET title = EXCLUDED.title, price_cents = EXCLUDED.price_cents, currency = EXCLUDED.currency
`
	for _, v := range p.Variants {
		if _, err := pool.Exec(ctx, variantQ, productID, v.SKU, v.Title, v.PriceCents, v.Currency); err != nil {
			return err
		}
	}
	return nil
}
