// Package memory provides map-backed implementations of the catalog and
// order repositories, used when no database is configured and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/avril-io/storefront-api/internal/domain/catalog"
	"github.com/avril-io/storefront-api/internal/domain/order"
)

// Store owns both tables behind one RWMutex. Plain repository calls take the
// lock per operation; Run holds it exclusively for the whole fulfillment
// unit, so no reconciliation can interleave with another write.
type Store struct {
	mu          sync.RWMutex
	products    map[string]*catalog.Product
	orders      map[int64]*order.Order
	nextOrderID int64
}

func NewStore() *Store {
	return &Store{
		products: make(map[string]*catalog.Product),
		orders:   make(map[int64]*order.Order),
	}
}

func (s *Store) Products() catalog.Repository {
	return &productRepository{store: s}
}

func (s *Store) Orders() order.Repository {
	return &orderRepository{store: s}
}

// Run executes fn against a staged copy of the store and commits the copy
// only when fn succeeds. A failure discards every staged mutation, so the
// unit is all-or-nothing.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, products catalog.Repository, orders order.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.stageLocked()
	if err := fn(ctx, staged.Products(), staged.Orders()); err != nil {
		return err
	}

	s.products = staged.products
	s.orders = staged.orders
	s.nextOrderID = staged.nextOrderID
	return nil
}

// stageLocked deep-copies the store. Caller holds s.mu.
func (s *Store) stageLocked() *Store {
	staged := &Store{
		products:    make(map[string]*catalog.Product, len(s.products)),
		orders:      make(map[int64]*order.Order, len(s.orders)),
		nextOrderID: s.nextOrderID,
	}
	for name, p := range s.products {
		staged.products[name] = cloneProduct(p)
	}
	for id, o := range s.orders {
		staged.orders[id] = o.Clone()
	}
	return staged
}

func cloneProduct(p *catalog.Product) *catalog.Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
