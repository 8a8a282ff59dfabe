package fulfillment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avril-io/storefront-api/internal/domain/fulfillment"
	"github.com/avril-io/storefront-api/internal/domain/order"
)

func TestReconcileFullStock(t *testing.T) {
	items := []order.LineItem{
		{ProductName: "widget", Quantity: 3},
		{ProductName: "gadget", Quantity: 2},
	}
	inventory := map[string]int{"widget": 10, "gadget": 2}

	result := fulfillment.Reconcile(items, inventory)

	require.Len(t, result.Items, 2)
	assert.Equal(t, 3, result.Items[0].Fulfilled)
	assert.Equal(t, 2, result.Items[1].Fulfilled)
	assert.Equal(t, map[string]int{"widget": 3, "gadget": 2}, result.Consumed)
}

func TestReconcileCapsAtAvailable(t *testing.T) {
	items := []order.LineItem{{ProductName: "widget", Quantity: 15}}
	inventory := map[string]int{"widget": 10}

	result := fulfillment.Reconcile(items, inventory)

	require.Len(t, result.Items, 1)
	assert.Equal(t, 15, result.Items[0].Requested)
	assert.Equal(t, 10, result.Items[0].Fulfilled)
	assert.Equal(t, map[string]int{"widget": 10}, result.Consumed)
}

func TestReconcileUnknownProductFulfillsZero(t *testing.T) {
	items := []order.LineItem{
		{ProductName: "ghost", Quantity: 4},
		{ProductName: "widget", Quantity: 1},
	}
	inventory := map[string]int{"widget": 5}

	result := fulfillment.Reconcile(items, inventory)

	require.Len(t, result.Items, 2)
	assert.Equal(t, 0, result.Items[0].Fulfilled)
	assert.Equal(t, 1, result.Items[1].Fulfilled)
	assert.NotContains(t, result.Consumed, "ghost")
}

// Two line items for the same product see inventory sequentially: the second
// item only gets what the first left behind.
func TestReconcileSequentialAllocation(t *testing.T) {
	items := []order.LineItem{
		{ProductName: "widget", Quantity: 4},
		{ProductName: "widget", Quantity: 4},
	}
	inventory := map[string]int{"widget": 5}

	result := fulfillment.Reconcile(items, inventory)

	require.Len(t, result.Items, 2)
	assert.Equal(t, 4, result.Items[0].Fulfilled)
	assert.Equal(t, 1, result.Items[1].Fulfilled)
	assert.Equal(t, 5, result.Consumed["widget"])
}

func TestReconcileNeverExceedsRequested(t *testing.T) {
	items := []order.LineItem{{ProductName: "widget", Quantity: 2}}
	inventory := map[string]int{"widget": 100}

	result := fulfillment.Reconcile(items, inventory)

	assert.Equal(t, 2, result.Items[0].Fulfilled)
	assert.Equal(t, 2, result.Consumed["widget"])
}

func TestReconcileDoesNotMutateInputs(t *testing.T) {
	items := []order.LineItem{{ProductName: "widget", Quantity: 7}}
	inventory := map[string]int{"widget": 5}

	_ = fulfillment.Reconcile(items, inventory)

	assert.Equal(t, 7, items[0].Quantity)
	assert.Equal(t, 5, inventory["widget"])
}

func TestReconcileEmptyItems(t *testing.T) {
	result := fulfillment.Reconcile(nil, map[string]int{"widget": 5})

	assert.Empty(t, result.Items)
	assert.Empty(t, result.Consumed)
}
