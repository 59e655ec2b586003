package store

import (
	"strings"
	"sync"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
)

// ProductStore holds the user's product catalog and the current search
// query. The filtered view is computed on access.
type ProductStore struct {
	mu       sync.RWMutex
	products []models.Product
	query    string
}

// NewProductStore creates an empty product store.
func NewProductStore() *ProductStore {
	return &ProductStore{}
}

// Products returns a copy of the full catalog.
func (s *ProductStore) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]models.Product, len(s.products))
	copy(products, s.products)
	return products
}

// SearchQuery returns the current query.
func (s *ProductStore) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// SetSearchQuery updates the query driving Filtered.
func (s *ProductStore) SetSearchQuery(query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()
}

// Filtered returns the catalog filtered by a case-insensitive substring
// match against the product name. An empty or whitespace-only query returns
// the full catalog in order.
func (s *ProductStore) Filtered() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(s.query))
	if query == "" {
		products := make([]models.Product, len(s.products))
		copy(products, s.products)
		return products
	}

	filtered := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), query) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// SetProducts replaces the catalog.
func (s *ProductStore) SetProducts(products []models.Product) {
	copied := make([]models.Product, len(products))
	copy(copied, products)
	s.mu.Lock()
	s.products = copied
	s.mu.Unlock()
}

// AddProduct prepends a product.
func (s *ProductStore) AddProduct(product models.Product) {
	s.mu.Lock()
	s.products = append([]models.Product{product}, s.products...)
	s.mu.Unlock()
}

// UpdateProduct shallow-merges the patch into the product with the given
// id. Unknown ids are ignored.
func (s *ProductStore) UpdateProduct(id string, patch models.ProductPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			patch.Apply(&s.products[i])
			return
		}
	}
}

// DeleteProduct removes the product with the given id.
func (s *ProductStore) DeleteProduct(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return
		}
	}
}
