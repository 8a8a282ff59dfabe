package memory

import (
	"context"
	"sort"

	"github.com/avril-io/storefront-api/internal/domain/catalog"
)

type productRepository struct {
	store *Store
}

func (r *productRepository) Get(ctx context.Context, name string) (*catalog.Product, error) {
	_ = ctx

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	product, ok := r.store.products[name]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return cloneProduct(product), nil
}

func (r *productRepository) List(ctx context.Context) ([]*catalog.Product, error) {
	_ = ctx

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*catalog.Product, 0, len(r.store.products))
	for _, product := range r.store.products {
		out = append(out, cloneProduct(product))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *productRepository) Insert(ctx context.Context, product *catalog.Product) error {
	_ = ctx

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.products[product.Name]; exists {
		return catalog.ErrConflict
	}
	r.store.products[product.Name] = cloneProduct(product)
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *catalog.Product) error {
	_ = ctx

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.products[product.Name]; !exists {
		return catalog.ErrNotFound
	}
	r.store.products[product.Name] = cloneProduct(product)
	return nil
}

func (r *productRepository) Delete(ctx context.Context, name string) error {
	_ = ctx

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.products[name]; !exists {
		return catalog.ErrNotFound
	}
	delete(r.store.products, name)
	return nil
}
