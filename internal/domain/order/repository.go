package order

import "context"

type Repository interface {
	// Insert stores a new order and assigns its ID.
	Insert(ctx context.Context, order *Order) error
	Get(ctx context.Context, id int64) (*Order, error)
	// UpdateItemQuantity overwrites the persisted quantity of one line item.
	UpdateItemQuantity(ctx context.Context, orderID int64, productName string, quantity int) error
	MarkCompleted(ctx context.Context, orderID int64) error
}
