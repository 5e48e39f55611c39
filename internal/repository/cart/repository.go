package cart

import (
	"context"

	"pitara/internal/domain"
)

// AddLineInput carries the variant data snapshotted onto a new cart line.
type AddLineInput struct {
	VariantID      string
	ProductID      string
	Title          string
	UnitPriceCents int64
	Quantity       int
}

type Repository interface {
	Create(ctx context.Context, currency string) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID string, in AddLineInput) error
	ChangeLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, lineID string) error
}
