package service

import (
	"errors"
	"fmt"
	"strings"

	"storefront-client/internal/domain"
	"storefront-client/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

type ProductService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// List pages through the catalog. A non-empty query narrows it to products
// matching any of its words, best matches first.
func (s *ProductService) List(query string, page, limit int) (*domain.ProductPage, error) {
	var (
		found []*domain.Product
		err   error
	)
	if terms := strings.Fields(query); len(terms) > 0 {
		found, err = s.products.Search(terms)
	} else {
		found, err = s.products.List()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	pagination, start, end := domain.NewPagination(len(found), page, pageSize(limit))
	out := &domain.ProductPage{Products: make([]domain.Product, 0, end-start), Pagination: pagination}
	for _, p := range found[start:end] {
		out.Products = append(out.Products, *p)
	}
	return out, nil
}

func (s *ProductService) Get(id string) (*domain.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return product, nil
}

func pageSize(limit int) int {
	switch {
	case limit < 1:
		return defaultPageSize
	case limit > maxPageSize:
		return maxPageSize
	}
	return limit
}
