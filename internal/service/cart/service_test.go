package cart

import (
	"context"
	"errors"
	"testing"

	"pitara/internal/domain"
	cartrepo "pitara/internal/repository/cart"
)

type stubRepo struct {
	createCart     *domain.Cart
	createErr      error
	getByIDResults []*domain.Cart
	getByIDErr     error
	getByIDCalls   int
	addLineErr     error
	changeErr      error
	removeErr      error
	lastAddCartID  string
	lastAddInput   cartrepo.AddLineInput
	lastChangeLine string
	lastChangeQty  int
	lastRemoveLine string
}

func (s *stubRepo) Create(_ context.Context, currency string) (*domain.Cart, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.createCart != nil {
		return s.createCart, nil
	}
	return &domain.Cart{ID: "cart", Currency: currency}, nil
}

func (s *stubRepo) GetByID(_ context.Context, _ string) (*domain.Cart, error) {
	if s.getByIDErr != nil {
		return nil, s.getByIDErr
	}
	var res *domain.Cart
	if len(s.getByIDResults) > 0 {
		idx := s.getByIDCalls
		if idx >= len(s.getByIDResults) {
			idx = len(s.getByIDResults) - 1
		}
		res = s.getByIDResults[idx]
	}
	s.getByIDCalls++
	return res, nil
}

func (s *stubRepo) AddLine(_ context.Context, cartID string, in cartrepo.AddLineInput) error {
	s.lastAddCartID = cartID
	s.lastAddInput = in
	return s.addLineErr
}

func (s *stubRepo) ChangeLineQuantity(_ context.Context, _, lineID string, quantity int) error {
	s.lastChangeLine = lineID
	s.lastChangeQty = quantity
	return s.changeErr
}

func (s *stubRepo) RemoveLine(_ context.Context, _, lineID string) error {
	s.lastRemoveLine = lineID
	return s.removeErr
}

type stubProductRepo struct {
	variant *domain.Variant
	err     error
	lastID  string
}

func (s *stubProductRepo) GetVariant(_ context.Context, variantID string) (*domain.Variant, error) {
	s.lastID = variantID
	return s.variant, s.err
}

func TestServiceCreateDefaultCurrency(t *testing.T) {
	svc := &Service{repo: &stubRepo{}, defaultCurrency: "INR"}
	got, err := svc.Create(context.Background(), "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Currency != "INR" {
		t.Fatalf("expected default currency, got %q", got.Currency)
	}
}

func TestServiceCreateNoCurrency(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}
	_, err := svc.Create(context.Background(), "")
	if err == nil || err.Error() != "currency required" {
		t.Fatalf("expected currency validation error, got %v", err)
	}
}

func TestServiceCreateUppercasesCurrency(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}
	got, err := svc.Create(context.Background(), "inr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Currency != "INR" {
		t.Fatalf("expected INR, got %q", got.Currency)
	}
}

func TestServiceAddLineValidation(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}

	_, err := svc.AddLine(context.Background(), "cart", "", 1)
	if err == nil || err.Error() != "variantId required" {
		t.Fatalf("expected variantId error, got %v", err)
	}

	_, err = svc.AddLine(context.Background(), "cart", "v1", 0)
	if err == nil || err.Error() != "quantity must be positive" {
		t.Fatalf("expected quantity error, got %v", err)
	}
}

func TestServiceAddLineCartNotFound(t *testing.T) {
	svc := &Service{repo: &stubRepo{getByIDErr: domain.ErrNotFound}}
	_, err := svc.AddLine(context.Background(), "missing", "v1", 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceAddLineVariantErrors(t *testing.T) {
	repo := &stubRepo{getByIDResults: []*domain.Cart{{ID: "cart"}}}
	svc := &Service{repo: repo}
	_, err := svc.AddLine(context.Background(), "cart", "v1", 1)
	if err == nil || err.Error() != "product repository unavailable" {
		t.Fatalf("expected product repo error, got %v", err)
	}

	svc = &Service{repo: repo, productRepo: &stubProductRepo{err: domain.ErrNotFound}}
	_, err = svc.AddLine(context.Background(), "cart", "v1", 1)
	if err == nil || err.Error() != "variant not found" {
		t.Fatalf("expected variant not found, got %v", err)
	}
}

func TestServiceAddLineSuccess(t *testing.T) {
	initial := &domain.Cart{ID: "cart"}
	updated := &domain.Cart{ID: "cart", TotalCents: 299800}
	repo := &stubRepo{getByIDResults: []*domain.Cart{initial, updated}}
	variant := &domain.Variant{ID: "v1", ProductID: "p1", SKU: "KURTA-M", Title: "M", PriceCents: 149900, Currency: "INR"}
	svc := &Service{repo: repo, productRepo: &stubProductRepo{variant: variant}}

	got, err := svc.AddLine(context.Background(), "cart", "v1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != updated {
		t.Fatalf("unexpected cart: %+v", got)
	}
	if repo.lastAddCartID != "cart" || repo.lastAddInput.VariantID != "v1" || repo.lastAddInput.Quantity != 2 {
		t.Fatalf("add line not called as expected: %+v", repo.lastAddInput)
	}
	if repo.lastAddInput.Title != "M" || repo.lastAddInput.UnitPriceCents != 149900 {
		t.Fatalf("variant snapshot missing: %+v", repo.lastAddInput)
	}
}

func TestServiceUpdateLineValidation(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}
	_, err := svc.UpdateLine(context.Background(), "cart", "  ", 1)
	if err == nil || err.Error() != "lineId required" {
		t.Fatalf("expected lineId error, got %v", err)
	}
}

func TestServiceUpdateLineZeroRemoves(t *testing.T) {
	updated := &domain.Cart{ID: "cart"}
	repo := &stubRepo{getByIDResults: []*domain.Cart{updated}}
	svc := &Service{repo: repo}
	got, err := svc.UpdateLine(context.Background(), "cart", "line", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != updated {
		t.Fatalf("unexpected cart: %+v", got)
	}
	if repo.lastChangeLine != "line" || repo.lastChangeQty != 0 {
		t.Fatalf("change not forwarded: %s %d", repo.lastChangeLine, repo.lastChangeQty)
	}
}

func TestServiceUpdateLineRepoError(t *testing.T) {
	repo := &stubRepo{changeErr: errors.New("change failed")}
	svc := &Service{repo: repo}
	_, err := svc.UpdateLine(context.Background(), "cart", "line", 2)
	if err == nil || err.Error() != "change failed" {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestServiceRemoveLine(t *testing.T) {
	updated := &domain.Cart{ID: "cart"}
	repo := &stubRepo{getByIDResults: []*domain.Cart{updated}}
	svc := &Service{repo: repo}
	got, err := svc.RemoveLine(context.Background(), "cart", "line")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != updated {
		t.Fatalf("unexpected cart: %+v", got)
	}
	if repo.lastRemoveLine != "line" {
		t.Fatalf("remove not forwarded: %s", repo.lastRemoveLine)
	}
}

func TestServiceRemoveLineNotFound(t *testing.T) {
	repo := &stubRepo{removeErr: domain.ErrNotFound}
	svc := &Service{repo: repo}
	_, err := svc.RemoveLine(context.Background(), "cart", "line")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
