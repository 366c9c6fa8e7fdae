package repository

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"storefront-client/internal/domain"
)

type ProductRepository interface {
	FindByID(id string) (*domain.Product, error)
	List() ([]*domain.Product, error)
	Search(terms []string) ([]*domain.Product, error)
	// Reserve takes quantities (product id to count) out of stock, all or
	// nothing.
	Reserve(quantities map[string]int) error
}

type productRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

func NewProductRepository(products []domain.Product) ProductRepository {
	r := &productRepository{products: make(map[string]*domain.Product, len(products))}
	for i := range products {
		p := products[i]
		r.products[p.ID] = &p
	}
	return r
}

func (r *productRepository) FindByID(id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	found := *p
	return &found, nil
}

func (r *productRepository) List() ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		found := *p
		out = append(out, &found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Search returns products whose name or description contains any term,
// best matches first.
func (r *productRepository) Search(terms []string) ([]*domain.Product, error) {
	all, _ := r.List()

	type scored struct {
		product *domain.Product
		score   int
	}
	var hits []scored
	for _, p := range all {
		text := strings.ToLower(p.Name + " " + p.Description)
		score := 0
		for _, term := range terms {
			if term != "" && strings.Contains(text, strings.ToLower(term)) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{p, score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := make([]*domain.Product, len(hits))
	for i, h := range hits {
		out[i] = h.product
	}
	return out, nil
}

func (r *productRepository) Reserve(quantities map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, n := range quantities {
		p, ok := r.products[id]
		if !ok {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		if n > p.Stock {
			return fmt.Errorf("product %s: %w", id, ErrOutOfStock)
		}
	}
	for id, n := range quantities {
		r.products[id].Stock -= n
	}
	return nil
}
