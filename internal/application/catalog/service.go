// Package catalog implements the product CRUD use cases.
package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "github.com/avril-io/storefront-api/internal/domain/catalog"
	"github.com/avril-io/storefront-api/internal/pkg/apperrors"
	"github.com/avril-io/storefront-api/internal/pkg/logging"
)

type Service struct {
	repo domain.Repository
}

func NewService(repo domain.Repository) *Service {
	return &Service{repo: repo}
}

type CreateProductInput struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

type UpdateProductInput struct {
	Price    decimal.Decimal
	Quantity int
}

func (s *Service) Get(ctx context.Context, name string) (*domain.Product, error) {
	name = domain.NormalizeName(name)
	if name == "" {
		return nil, apperrors.Validation("name", "is required")
	}
	return s.repo.Get(ctx, name)
}

func (s *Service) List(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "catalog_service"))

	if domain.NormalizeName(input.Name) == "" {
		return nil, apperrors.Validation("name", "is required")
	}
	if input.Price.IsNegative() {
		return nil, apperrors.ValidationValue("price", input.Price.String(), "must be zero or greater")
	}
	if input.Quantity < 0 {
		return nil, apperrors.ValidationValue("quantity", fmt.Sprint(input.Quantity), "must be zero or greater")
	}

	product, err := domain.NewProduct(input.Name, input.Price, input.Quantity)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, product); err != nil {
		return nil, fmt.Errorf("catalog: insert %q: %w", product.Name, err)
	}

	logger.Info("product_created",
		zap.String("name", product.Name),
		zap.String("price", product.Price.String()),
		zap.Int("quantity", product.Quantity),
	)
	return product, nil
}

func (s *Service) Update(ctx context.Context, name string, input UpdateProductInput) (*domain.Product, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "catalog_service"))

	if input.Price.IsNegative() {
		return nil, apperrors.ValidationValue("price", input.Price.String(), "must be zero or greater")
	}
	if input.Quantity < 0 {
		return nil, apperrors.ValidationValue("quantity", fmt.Sprint(input.Quantity), "must be zero or greater")
	}

	product, err := s.repo.Get(ctx, domain.NormalizeName(name))
	if err != nil {
		return nil, err
	}
	if err := product.Update(input.Price, input.Quantity); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("catalog: update %q: %w", product.Name, err)
	}

	logger.Info("product_updated", zap.String("name", product.Name))
	return product, nil
}

func (s *Service) Delete(ctx context.Context, name string) error {
	logger := logging.FromContext(ctx).With(zap.String("component", "catalog_service"))

	name = domain.NormalizeName(name)
	if name == "" {
		return apperrors.Validation("name", "is required")
	}
	if err := s.repo.Delete(ctx, name); err != nil {
		return err
	}

	logger.Info("product_deleted", zap.String("name", name))
	return nil
}
