package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcatalog "github.com/avril-io/storefront-api/internal/application/catalog"
	domcatalog "github.com/avril-io/storefront-api/internal/domain/catalog"
	"github.com/avril-io/storefront-api/internal/infrastructure/memory"
	"github.com/avril-io/storefront-api/internal/pkg/apperrors"
)

func newService() (*appcatalog.Service, *memory.Store) {
	store := memory.NewStore()
	return appcatalog.NewService(store.Products()), store
}

func TestCreateAndGetProduct(t *testing.T) {
	svc, _ := newService()

	created, err := svc.Create(context.Background(), appcatalog.CreateProductInput{
		Name:     "WiDgEt",
		Price:    decimal.NewFromFloat(2.50),
		Quantity: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "widget", created.Name)

	got, err := svc.Get(context.Background(), "WIDGET")
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.NewFromFloat(2.50)))
	assert.Equal(t, 10, got.Quantity)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Create(context.Background(), appcatalog.CreateProductInput{
		Name: "widget", Price: decimal.NewFromFloat(-1), Quantity: 1,
	})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Create(context.Background(), appcatalog.CreateProductInput{
		Name: "widget", Price: decimal.Zero, Quantity: -1,
	})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Create(context.Background(), appcatalog.CreateProductInput{
		Name: "  ", Price: decimal.Zero, Quantity: 0,
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateDuplicateProductConflicts(t *testing.T) {
	svc, _ := newService()

	input := appcatalog.CreateProductInput{Name: "widget", Price: decimal.NewFromFloat(2.50), Quantity: 10}
	_, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, domcatalog.ErrConflict)

	// same normalized name
	input.Name = "WIDGET"
	_, err = svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, domcatalog.ErrConflict)
}

func TestUpdateProduct(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Create(context.Background(), appcatalog.CreateProductInput{
		Name: "widget", Price: decimal.NewFromFloat(2.50), Quantity: 10,
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "Widget", appcatalog.UpdateProductInput{
		Price:    decimal.NewFromFloat(3.75),
		Quantity: 4,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.NewFromFloat(3.75)))
	assert.Equal(t, 4, updated.Quantity)

	_, err = svc.Update(context.Background(), "ghost", appcatalog.UpdateProductInput{
		Price: decimal.Zero, Quantity: 0,
	})
	assert.ErrorIs(t, err, domcatalog.ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Create(context.Background(), appcatalog.CreateProductInput{
		Name: "widget", Price: decimal.NewFromFloat(2.50), Quantity: 10,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "WIDGET"))

	_, err = svc.Get(context.Background(), "widget")
	assert.ErrorIs(t, err, domcatalog.ErrNotFound)
}

func TestDeleteMissingProductLeavesCatalogUnchanged(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Create(context.Background(), appcatalog.CreateProductInput{
		Name: "widget", Price: decimal.NewFromFloat(2.50), Quantity: 10,
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, domcatalog.ErrNotFound)

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "widget", products[0].Name)
}

func TestListProductsSorted(t *testing.T) {
	svc, _ := newService()

	for _, name := range []string{"zebra", "apple", "mango"} {
		_, err := svc.Create(context.Background(), appcatalog.CreateProductInput{
			Name: name, Price: decimal.NewFromInt(1), Quantity: 1,
		})
		require.NoError(t, err)
	}

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "apple", products[0].Name)
	assert.Equal(t, "mango", products[1].Name)
	assert.Equal(t, "zebra", products[2].Name)
}
