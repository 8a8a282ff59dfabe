// Package order implements order creation, lookup and processing.
package order

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	domcatalog "github.com/avril-io/storefront-api/internal/domain/catalog"
	domain "github.com/avril-io/storefront-api/internal/domain/order"
	"github.com/avril-io/storefront-api/internal/pkg/apperrors"
	"github.com/avril-io/storefront-api/internal/pkg/logging"
)

type Service struct {
	orders      domain.Repository
	products    domcatalog.Repository
	idempotency IdempotencyStore
}

// NewService wires the order service. idempotency may be nil; creation then
// runs without retry deduplication.
func NewService(orders domain.Repository, products domcatalog.Repository, idempotency IdempotencyStore) *Service {
	return &Service{
		orders:      orders,
		products:    products,
		idempotency: idempotency,
	}
}

type ItemInput struct {
	Name     string
	Quantity int
}

type CreateOrderInput struct {
	CustomerName    string
	CustomerAddress string
	IdempotencyKey  string
	Items           []ItemInput
}

type CreateOrderResult struct {
	OrderID int64
	Replay  bool
}

// CreateOrder validates the request against the live catalog and persists the
// order. Every referenced product must exist; an unknown name rejects the
// whole order before anything is written.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "order_service"))

	if s.idempotency != nil && input.IdempotencyKey != "" {
		if id, ok, err := s.idempotency.Get(ctx, input.IdempotencyKey); err != nil {
			logger.Warn("idempotency_lookup_failed", zap.Error(err))
		} else if ok {
			logger.Info("create_order_replay", zap.Int64("order_id", id))
			return &CreateOrderResult{OrderID: id, Replay: true}, nil
		}
	}

	if input.CustomerName == "" {
		return nil, apperrors.Validation("name", "is required")
	}
	if input.CustomerAddress == "" {
		return nil, apperrors.Validation("address", "is required")
	}
	if len(input.Items) == 0 {
		return nil, apperrors.Validation("products", "at least one product is required")
	}

	items := make([]domain.LineItem, 0, len(input.Items))
	for _, item := range input.Items {
		name := domcatalog.NormalizeName(item.Name)
		if item.Quantity <= 0 {
			return nil, apperrors.ValidationValue("quantity", fmt.Sprint(item.Quantity), "must be a whole number greater than zero")
		}
		if _, err := s.products.Get(ctx, name); err != nil {
			if errors.Is(err, domcatalog.ErrNotFound) {
				return nil, apperrors.ValidationValue("products", item.Name, "is not available")
			}
			return nil, fmt.Errorf("order: check product %q: %w", name, err)
		}
		items = append(items, domain.LineItem{ProductName: name, Quantity: item.Quantity})
	}

	entity, err := domain.New(input.CustomerName, input.CustomerAddress, items)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Insert(ctx, entity); err != nil {
		return nil, fmt.Errorf("order: insert: %w", err)
	}

	if s.idempotency != nil && input.IdempotencyKey != "" {
		if err := s.idempotency.Put(ctx, input.IdempotencyKey, entity.ID); err != nil {
			logger.Warn("idempotency_store_failed", zap.Int64("order_id", entity.ID), zap.Error(err))
		}
	}

	logger.Info("order_created",
		zap.Int64("order_id", entity.ID),
		zap.Int("items", len(entity.Items)),
	)
	return &CreateOrderResult{OrderID: entity.ID}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.Get(ctx, id)
}
