// Package fulfillment holds the reconciliation engine: the pure computation
// that turns requested order line items plus an inventory snapshot into
// granted quantities and inventory consumption.
package fulfillment

import "github.com/avril-io/storefront-api/internal/domain/order"

// Allocation is the fulfillment outcome for one line item.
type Allocation struct {
	ProductName string
	Requested   int
	Fulfilled   int
}

// Result carries per-item allocations (in input order) and the total stock
// consumed per product.
type Result struct {
	Items    []Allocation
	Consumed map[string]int
}

// Reconcile allocates stock to line items sequentially, in input order.
// Each item is granted min(requested, remaining stock); remaining stock is
// tracked on a working copy of the snapshot, so a later item for the same
// product sees what earlier items already took. Products absent from the
// snapshot fulfill as zero. Inputs are never mutated.
func Reconcile(items []order.LineItem, inventory map[string]int) Result {
	remaining := make(map[string]int, len(inventory))
	for name, quantity := range inventory {
		remaining[name] = quantity
	}

	result := Result{
		Items:    make([]Allocation, 0, len(items)),
		Consumed: make(map[string]int),
	}

	for _, item := range items {
		granted := item.Quantity
		if available := remaining[item.ProductName]; granted > available {
			granted = available
		}
		if granted < 0 {
			granted = 0
		}

		remaining[item.ProductName] -= granted
		if granted > 0 {
			result.Consumed[item.ProductName] += granted
		}
		result.Items = append(result.Items, Allocation{
			ProductName: item.ProductName,
			Requested:   item.Quantity,
			Fulfilled:   granted,
		})
	}

	return result
}
