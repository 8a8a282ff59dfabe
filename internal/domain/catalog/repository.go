package catalog

import "context"

type Repository interface {
	Get(ctx context.Context, name string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	Insert(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, name string) error
}
