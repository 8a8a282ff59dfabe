package order

import (
	"errors"
	"time"

	"github.com/avril-io/storefront-api/internal/domain/catalog"
)

var (
	ErrNotFound         = errors.New("order: not found")
	ErrInvalidCustomer  = errors.New("order: customer name and address are required")
	ErrInvalidQuantity  = errors.New("order: quantity must be greater than zero")
	ErrNoItems          = errors.New("order: at least one line item is required")
	ErrAlreadyProcessed = errors.New("order: already processed")
)

// LineItem is one (product, quantity) entry within an order. After
// fulfillment its Quantity holds the granted amount, not the requested one.
type LineItem struct {
	ProductName string
	Quantity    int
}

type Order struct {
	ID              int64
	CustomerName    string
	CustomerAddress string
	Completed       bool
	Items           []LineItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// New builds a pending order. Line items referencing the same product are
// merged by summing quantities, since the persisted association is keyed by
// (order id, product name).
func New(customerName, customerAddress string, items []LineItem) (*Order, error) {
	if customerName == "" || customerAddress == "" {
		return nil, ErrInvalidCustomer
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	merged := make([]LineItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		name := catalog.NormalizeName(item.ProductName)
		if at, ok := index[name]; ok {
			merged[at].Quantity += item.Quantity
			continue
		}
		index[name] = len(merged)
		merged = append(merged, LineItem{ProductName: name, Quantity: item.Quantity})
	}

	now := time.Now().UTC()
	return &Order{
		CustomerName:    customerName,
		CustomerAddress: customerAddress,
		Completed:       false,
		Items:           merged,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// MarkProcessed transitions the order to its terminal state. The transition
// happens at most once; a second call fails with ErrAlreadyProcessed.
func (o *Order) MarkProcessed() error {
	if o.Completed {
		return ErrAlreadyProcessed
	}
	o.Completed = true
	o.touch()
	return nil
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now().UTC()
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = make([]LineItem, len(o.Items))
	copy(clone.Items, o.Items)
	return &clone
}
