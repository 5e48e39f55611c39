package product

import (
	"context"
	"errors"
	"strings"

	"pitara/internal/domain"
	productrepo "pitara/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, errors.New("handle required")
	}
	return s.repo.GetByHandle(ctx, handle)
}
