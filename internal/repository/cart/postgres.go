package cart

import (
	"context"
	"errors"

	"pitara/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, currency string) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (currency, total_cents, state)
VALUES ($1, 0, 'active')
RETURNING id::text, currency, total_cents, state, created_at
`
	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, q, currency).Scan(
		&cart.ID,
		&cart.Currency,
		&cart.TotalCents,
		&cart.State,
		&cart.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	const cartQuery = `
SELECT id::text, currency, total_cents, state, created_at
FROM carts
WHERE id = $1
`
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, id).Scan(
		&cart.ID,
		&cart.Currency,
		&cart.TotalCents,
		&cart.State,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQuery = `
SELECT id::text, cart_id::text, product_id::text, variant_id::text, title, quantity, unit_price_cents, total_cents, created_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ID,
			&line.CartID,
			&line.ProductID,
			&line.VariantID,
			&line.Title,
			&line.Quantity,
			&line.UnitPriceCents,
			&line.TotalCents,
			&line.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

// AddLine inserts a new line or merges quantity into an existing line for the
// same variant, then recomputes the cart total.
func (r *postgresRepo) AddLine(ctx context.Context, cartID string, in AddLineInput) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var lineID string
	var existingQty int
	var unitPrice int64
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity, unit_price_cents
FROM cart_lines
WHERE cart_id = $1 AND variant_id = $2
`, cartID, in.VariantID).Scan(&lineID, &existingQty, &unitPrice)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if err == nil {
		newQty := existingQty + in.Quantity
		newTotal := unitPrice * int64(newQty)
		if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1, total_cents = $2
WHERE id = $3
`, newQty, newTotal, lineID); err != nil {
			return err
		}
	} else {
		total := in.UnitPriceCents * int64(in.Quantity)
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, variant_id, product_id, title, quantity, unit_price_cents, total_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, cartID, in.VariantID, in.ProductID, in.Title, in.Quantity, in.UnitPriceCents, total); err != nil {
			return err
		}
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ChangeLineQuantity sets the quantity of a line; a quantity of zero or less
// deletes the line instead of persisting a non-positive quantity.
func (r *postgresRepo) ChangeLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if quantity <= 0 {
		if err := deleteLine(ctx, tx, cartID, lineID); err != nil {
			return err
		}
	} else {
		var unitPrice int64
		err := tx.QueryRow(ctx, `
SELECT unit_price_cents
FROM cart_lines
WHERE id = $1 AND cart_id = $2
`, lineID, cartID).Scan(&unitPrice)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		total := unitPrice * int64(quantity)
		if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1, total_cents = $2
WHERE id = $3 AND cart_id = $4
`, quantity, total, lineID, cartID); err != nil {
			return err
		}
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveLine(ctx context.Context, cartID, lineID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := deleteLine(ctx, tx, cartID, lineID); err != nil {
		return err
	}
	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func deleteLine(ctx context.Context, tx pgx.Tx, cartID, lineID string) error {
	cmd, err := tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE id = $1 AND cart_id = $2
`, lineID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func updateCartTotal(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET total_cents = COALESCE((
	SELECT SUM(total_cents)
	FROM cart_lines
	WHERE cart_id = $1
), 0)
WHERE id = $1
`, cartID)
	return err
}
