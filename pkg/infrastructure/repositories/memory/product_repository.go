package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/capacity/pkg/domain/entities"
	"github.com/vsinha/capacity/pkg/domain/repositories"
)

// ProductRepository provides in-memory product storage
type ProductRepository struct {
	mu          sync.RWMutex
	products    []entities.Product
	productsMap map[entities.ProductID]int
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(expectedProducts int) *ProductRepository {
	return &ProductRepository{
		products:    make([]entities.Product, 0, expectedProducts),
		productsMap: make(map[entities.ProductID]int, expectedProducts),
	}
}

// Verify interface compliance
var _ repositories.ProductRepository = (*ProductRepository)(nil)

// LoadProducts loads products into the repository
func (r *ProductRepository) LoadProducts(_ context.Context, products []*entities.Product) error {
	for _, product := range products {
		if product == nil {
			continue
		}
		r.AddProduct(*product)
	}
	return nil
}

// AddProduct adds a product, replacing any existing product with the same id
func (r *ProductRepository) AddProduct(product entities.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index, exists := r.productsMap[product.ID]; exists {
		r.products[index] = product
		return
	}
	r.productsMap[product.ID] = len(r.products)
	r.products = append(r.products, product)
}

// GetProduct returns a product by id
func (r *ProductRepository) GetProduct(_ context.Context, id entities.ProductID) (*entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.productsMap[id]
	if !exists {
		return nil, fmt.Errorf("product %s: %w", id, repositories.ErrNotFound)
	}
	product := r.products[index]
	return &product, nil
}

// GetProductsByPriority returns products by descending unit price.
// Products with equal prices keep their insertion order.
func (r *ProductRepository) GetProductsByPriority(_ context.Context) ([]*entities.Product, error) {
	r.mu.RLock()
	products := make([]*entities.Product, 0, len(r.products))
	for i := range r.products {
		product := r.products[i]
		products = append(products, &product)
	}
	r.mu.RUnlock()

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].UnitPrice.GreaterThan(products[j].UnitPrice)
	})
	return products, nil
}
