package order_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apporder "github.com/avril-io/storefront-api/internal/application/order"
	domcatalog "github.com/avril-io/storefront-api/internal/domain/catalog"
	domorder "github.com/avril-io/storefront-api/internal/domain/order"
	"github.com/avril-io/storefront-api/internal/infrastructure/memory"
	"github.com/avril-io/storefront-api/internal/pkg/apperrors"
)

func seedProduct(t *testing.T, store *memory.Store, name string, price float64, quantity int) {
	t.Helper()
	p, err := domcatalog.NewProduct(name, decimal.NewFromFloat(price), quantity)
	require.NoError(t, err)
	require.NoError(t, store.Products().Insert(context.Background(), p))
}

func TestCreateOrder(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "widget", 2.50, 10)
	svc := apporder.NewService(store.Orders(), store.Products(), nil)

	result, err := svc.CreateOrder(context.Background(), apporder.CreateOrderInput{
		CustomerName:    "Ada",
		CustomerAddress: "12 Elm St",
		Items:           []apporder.ItemInput{{Name: "Widget", Quantity: 3}},
	})
	require.NoError(t, err)
	assert.False(t, result.Replay)
	require.NotZero(t, result.OrderID)

	ord, err := svc.Get(context.Background(), result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", ord.CustomerName)
	assert.False(t, ord.Completed)
	require.Len(t, ord.Items, 1)
	assert.Equal(t, "widget", ord.Items[0].ProductName)
	assert.Equal(t, 3, ord.Items[0].Quantity)
}

func TestCreateOrderUnknownProductRejectsWholeOrder(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "widget", 2.50, 10)
	svc := apporder.NewService(store.Orders(), store.Products(), nil)

	_, err := svc.CreateOrder(context.Background(), apporder.CreateOrderInput{
		CustomerName:    "Ada",
		CustomerAddress: "12 Elm St",
		Items: []apporder.ItemInput{
			{Name: "widget", Quantity: 1},
			{Name: "ghost", Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "ghost")

	// nothing persisted
	_, err = store.Orders().Get(context.Background(), 1)
	assert.ErrorIs(t, err, domorder.ErrNotFound)
}

func TestCreateOrderValidation(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "widget", 2.50, 10)
	svc := apporder.NewService(store.Orders(), store.Products(), nil)

	cases := []struct {
		name  string
		input apporder.CreateOrderInput
	}{
		{"missing name", apporder.CreateOrderInput{
			CustomerAddress: "12 Elm St",
			Items:           []apporder.ItemInput{{Name: "widget", Quantity: 1}},
		}},
		{"missing address", apporder.CreateOrderInput{
			CustomerName: "Ada",
			Items:        []apporder.ItemInput{{Name: "widget", Quantity: 1}},
		}},
		{"no items", apporder.CreateOrderInput{
			CustomerName:    "Ada",
			CustomerAddress: "12 Elm St",
		}},
		{"zero quantity", apporder.CreateOrderInput{
			CustomerName:    "Ada",
			CustomerAddress: "12 Elm St",
			Items:           []apporder.ItemInput{{Name: "widget", Quantity: 0}},
		}},
		{"negative quantity", apporder.CreateOrderInput{
			CustomerName:    "Ada",
			CustomerAddress: "12 Elm St",
			Items:           []apporder.ItemInput{{Name: "widget", Quantity: -2}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOrder(context.Background(), tc.input)
			assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

type fakeIdempotencyStore struct {
	entries map[string]int64
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (int64, bool, error) {
	id, ok := f.entries[key]
	return id, ok, nil
}

func (f *fakeIdempotencyStore) Put(_ context.Context, key string, orderID int64) error {
	f.entries[key] = orderID
	return nil
}

func TestCreateOrderIdempotencyReplay(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "widget", 2.50, 10)
	idem := &fakeIdempotencyStore{entries: make(map[string]int64)}
	svc := apporder.NewService(store.Orders(), store.Products(), idem)

	input := apporder.CreateOrderInput{
		CustomerName:    "Ada",
		CustomerAddress: "12 Elm St",
		IdempotencyKey:  "req-1",
		Items:           []apporder.ItemInput{{Name: "widget", Quantity: 1}},
	}

	first, err := svc.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	require.False(t, first.Replay)

	second, err := svc.CreateOrder(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, second.Replay)
	assert.Equal(t, first.OrderID, second.OrderID)
}
