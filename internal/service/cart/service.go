package cart

import (
	"context"
	"errors"
	"strings"

	"pitara/internal/domain"
	cartrepo "pitara/internal/repository/cart"
)

type Service struct {
	repo            cartRepo
	productRepo     productRepo
	defaultCurrency string
}

type cartRepo interface {
	Create(ctx context.Context, currency string) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID string, in cartrepo.AddLineInput) error
	ChangeLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, lineID string) error
}

type productRepo interface {
	GetVariant(ctx context.Context, variantID string) (*domain.Variant, error)
}

func New(repo cartrepo.Repository, products productRepo, defaultCurrency string) *Service {
	return &Service{repo: repo, productRepo: products, defaultCurrency: defaultCurrency}
}

// Create starts a new empty cart. An empty currency falls back to the
// configured default.
func (s *Service) Create(ctx context.Context, currency string) (*domain.Cart, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = s.defaultCurrency
	}
	if currency == "" {
		return nil, errors.New("currency required")
	}
	return s.repo.Create(ctx, currency)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Cart, error) {
	return s.repo.GetByID(ctx, id)
}

// AddLine resolves the variant, snapshots its title and price onto a cart
// line, and returns the authoritative cart state.
func (s *Service) AddLine(ctx context.Context, cartID, variantID string, quantity int) (*domain.Cart, error) {
	variantID = strings.TrimSpace(variantID)
	if variantID == "" {
		return nil, errors.New("variantId required")
	}
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	if _, err := s.repo.GetByID(ctx, cartID); err != nil {
		return nil, err
	}
	if s.productRepo == nil {
		return nil, errors.New("product repository unavailable")
	}
	variant, err := s.productRepo.GetVariant(ctx, variantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errors.New("variant not found")
		}
		return nil, err
	}
	in := cartrepo.AddLineInput{
		VariantID:      variant.ID,
		ProductID:      variant.ProductID,
		Title:          lineTitle(*variant),
		UnitPriceCents: variant.PriceCents,
		Quantity:       quantity,
	}
	if err := s.repo.AddLine(ctx, cartID, in); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

// UpdateLine changes a line quantity. Zero or negative quantities remove the
// line, matching RemoveLine.
func (s *Service) UpdateLine(ctx context.Context, cartID, lineID string, quantity int) (*domain.Cart, error) {
	lineID = strings.TrimSpace(lineID)
	if lineID == "" {
		return nil, errors.New("lineId required")
	}
	if err := s.repo.ChangeLineQuantity(ctx, cartID, lineID, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

func (s *Service) RemoveLine(ctx context.Context, cartID, lineID string) (*domain.Cart, error) {
	lineID = strings.TrimSpace(lineID)
	if lineID == "" {
		return nil, errors.New("lineId required")
	}
	if err := s.repo.RemoveLine(ctx, cartID, lineID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

func lineTitle(v domain.Variant) string {
	title := strings.TrimSpace(v.Title)
	if title == "" {
		return v.SKU
	}
	return title
}
