package product

import (
	"context"
	"errors"
	"os"
	"testing"

	"pitara/internal/domain"
	"pitara/internal/migrate"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	saved, err := repo.Upsert(ctx, domain.Product{
		Handle:      "block-print-kurta",
		Title:       "Block Print Kurta",
		Description: "Hand-blocked cotton kurta",
		Variants: []domain.Variant{
			{SKU: "KURTA-S", Title: "S", PriceCents: 149900, Currency: "INR"},
			{SKU: "KURTA-M", Title: "M", PriceCents: 149900, Currency: "INR"},
		},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if saved.ID == "" || len(saved.Variants) != 2 {
		t.Fatalf("unexpected product %+v", saved)
	}

	// Second upsert with a price change updates in place.
	saved.Variants[0].PriceCents = 129900
	again, err := repo.Upsert(ctx, *saved)
	if err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	if again.ID != saved.ID {
		t.Fatalf("id changed across upserts: %s vs %s", again.ID, saved.ID)
	}

	fetched, err := repo.GetByHandle(ctx, "block-print-kurta")
	if err != nil {
		t.Fatalf("GetByHandle: %v", err)
	}
	if len(fetched.Variants) != 2 || fetched.Variants[0].PriceCents != 129900 {
		t.Fatalf("unexpected variants %+v", fetched.Variants)
	}

	variant, err := repo.GetVariant(ctx, fetched.Variants[1].ID)
	if err != nil {
		t.Fatalf("GetVariant: %v", err)
	}
	if variant.SKU != "KURTA-M" {
		t.Fatalf("unexpected variant %+v", variant)
	}

	if _, err := repo.GetByHandle(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one product, got %d", len(list))
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE cart_lines, carts, variants, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
