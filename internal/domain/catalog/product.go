package catalog

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("catalog: product not found")
	ErrConflict          = errors.New("catalog: product already exists")
	ErrInvalidName       = errors.New("catalog: name is required")
	ErrInvalidPrice      = errors.New("catalog: price must be zero or greater")
	ErrInvalidQuantity   = errors.New("catalog: quantity must be zero or greater")
	ErrInsufficientStock = errors.New("catalog: insufficient stock")
)

// Product is identified by its normalized (lowercase) name.
type Product struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

func NewProduct(name string, price decimal.Decimal, quantity int) (*Product, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	return &Product{
		Name:     name,
		Price:    price,
		Quantity: quantity,
	}, nil
}

// NormalizeName lowercases and trims a product name. All lookups go through it.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Consume removes quantity units of stock. Fulfillment computes consumption
// bounded by available stock, so exceeding it here is a caller bug.
func (p *Product) Consume(quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity > p.Quantity {
		return ErrInsufficientStock
	}
	p.Quantity -= quantity
	return nil
}

func (p *Product) Update(price decimal.Decimal, quantity int) error {
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	p.Price = price
	p.Quantity = quantity
	return nil
}
