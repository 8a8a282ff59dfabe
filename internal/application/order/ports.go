package order

import (
	"context"

	"github.com/avril-io/storefront-api/internal/domain/catalog"
	"github.com/avril-io/storefront-api/internal/domain/order"
)

// Atomic runs fn as one all-or-nothing unit against both stores. The
// repositories passed to fn observe and mutate the same isolated state;
// nothing is visible to other callers until Run returns nil, and a non-nil
// error from fn discards every mutation.
type Atomic interface {
	Run(ctx context.Context, fn func(ctx context.Context, products catalog.Repository, orders order.Repository) error) error
}

// IdempotencyStore deduplicates order creation retries by client-supplied key.
type IdempotencyStore interface {
	// Get returns the order id previously stored under key, if any.
	Get(ctx context.Context, key string) (int64, bool, error)
	Put(ctx context.Context, key string, orderID int64) error
}
