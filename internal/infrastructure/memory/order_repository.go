package memory

import (
	"context"

	"github.com/avril-io/storefront-api/internal/domain/order"
)

type orderRepository struct {
	store *Store
}

func (r *orderRepository) Insert(ctx context.Context, o *order.Order) error {
	_ = ctx

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextOrderID++
	o.ID = r.store.nextOrderID
	r.store.orders[o.ID] = o.Clone()
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	_ = ctx

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	o, ok := r.store.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return o.Clone(), nil
}

func (r *orderRepository) UpdateItemQuantity(ctx context.Context, orderID int64, productName string, quantity int) error {
	_ = ctx

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.orders[orderID]
	if !ok {
		return order.ErrNotFound
	}
	for i := range o.Items {
		if o.Items[i].ProductName == productName {
			o.Items[i].Quantity = quantity
			return nil
		}
	}
	return order.ErrNotFound
}

func (r *orderRepository) MarkCompleted(ctx context.Context, orderID int64) error {
	_ = ctx

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.orders[orderID]
	if !ok {
		return order.ErrNotFound
	}
	o.Completed = true
	return nil
}
