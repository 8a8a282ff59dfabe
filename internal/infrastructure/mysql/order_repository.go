package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avril-io/storefront-api/internal/domain/order"
)

type OrderRepository struct {
	q         querier
	forUpdate bool
}

func (r *OrderRepository) lock() string {
	if r.forUpdate {
		return " FOR UPDATE"
	}
	return ""
}

func (r *OrderRepository) Insert(ctx context.Context, o *order.Order) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO orders (customer_name, customer_address, completed) VALUES (?, ?, ?)`,
		o.CustomerName, o.CustomerAddress, o.Completed)
	if err != nil {
		return fmt.Errorf("mysql: insert order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("mysql: insert order: %w", err)
	}
	o.ID = id

	for _, item := range o.Items {
		if _, err := r.q.ExecContext(ctx,
			`INSERT INTO products_orders (order_id, product_name, quantity) VALUES (?, ?, ?)`,
			o.ID, item.ProductName, item.Quantity); err != nil {
			return fmt.Errorf("mysql: insert line item %q: %w", item.ProductName, err)
		}
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, customer_name, customer_address, completed FROM orders WHERE id = ?`+r.lock(), id)

	var o order.Order
	if err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerAddress, &o.Completed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("mysql: get order: %w", err)
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT product_name, quantity FROM products_orders WHERE order_id = ? ORDER BY product_name`, id)
	if err != nil {
		return nil, fmt.Errorf("mysql: get line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item order.LineItem
		if err := rows.Scan(&item.ProductName, &item.Quantity); err != nil {
			return nil, fmt.Errorf("mysql: scan line item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mysql: get line items: %w", err)
	}
	return &o, nil
}

func (r *OrderRepository) UpdateItemQuantity(ctx context.Context, orderID int64, productName string, quantity int) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE products_orders SET quantity = ? WHERE order_id = ? AND product_name = ?`,
		quantity, orderID, productName)
	if err != nil {
		return fmt.Errorf("mysql: update line item: %w", err)
	}
	if _, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("mysql: update line item: %w", err)
	}
	return nil
}

func (r *OrderRepository) MarkCompleted(ctx context.Context, orderID int64) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE orders SET completed = 1 WHERE id = ?`, orderID)
	if err != nil {
		return fmt.Errorf("mysql: mark completed: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mysql: mark completed: %w", err)
	}
	if rows == 0 {
		return order.ErrNotFound
	}
	return nil
}
