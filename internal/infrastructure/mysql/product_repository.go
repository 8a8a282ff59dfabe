package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avril-io/storefront-api/internal/domain/catalog"
)

type ProductRepository struct {
	q         querier
	forUpdate bool
}

func (r *ProductRepository) lock() string {
	if r.forUpdate {
		return " FOR UPDATE"
	}
	return ""
}

func (r *ProductRepository) Get(ctx context.Context, name string) (*catalog.Product, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT name, price, quantity FROM products WHERE name = ?`+r.lock(), name)

	var p catalog.Product
	if err := row.Scan(&p.Name, &p.Price, &p.Quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("mysql: get product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*catalog.Product, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT name, price, quantity FROM products ORDER BY name`+r.lock())
	if err != nil {
		return nil, fmt.Errorf("mysql: list products: %w", err)
	}
	defer rows.Close()

	var out []*catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.Name, &p.Price, &p.Quantity); err != nil {
			return nil, fmt.Errorf("mysql: scan product: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mysql: list products: %w", err)
	}
	return out, nil
}

func (r *ProductRepository) Insert(ctx context.Context, product *catalog.Product) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO products (name, price, quantity) VALUES (?, ?, ?)`,
		product.Name, product.Price, product.Quantity)
	if err != nil {
		if isDuplicateEntry(err) {
			return catalog.ErrConflict
		}
		return fmt.Errorf("mysql: insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE products SET price = ?, quantity = ? WHERE name = ?`,
		product.Price, product.Quantity, product.Name)
	if err != nil {
		return fmt.Errorf("mysql: update product: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mysql: update product: %w", err)
	}
	if rows == 0 {
		// rows == 0 can also mean an identical write; treat the row as
		// present only if it exists.
		if _, err := r.Get(ctx, product.Name); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, name string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("mysql: delete product: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mysql: delete product: %w", err)
	}
	if rows == 0 {
		return catalog.ErrNotFound
	}
	return nil
}
