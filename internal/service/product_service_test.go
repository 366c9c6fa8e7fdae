package service

import (
	"errors"
	"testing"

	"storefront-client/internal/repository"
)

func TestProductService_List(t *testing.T) {
	s := NewProductService(repository.NewProductRepository(repository.SeedProducts()))

	tests := []struct {
		name        string
		query       string
		page, limit int
		wantIDs     []string
		wantTotal   int
		wantPages   int
	}{
		{name: "whole catalog", page: 1, wantIDs: []string{"prod-earbuds", "prod-laptop-14", "prod-laptop-gaming", "prod-mouse", "prod-phone-x"}, wantTotal: 5, wantPages: 1},
		{name: "query first page", query: "laptop", page: 1, limit: 2, wantIDs: []string{"prod-laptop-14", "prod-laptop-gaming"}, wantTotal: 3, wantPages: 2},
		{name: "query second page", query: "laptop", page: 2, limit: 2, wantIDs: []string{"prod-mouse"}, wantTotal: 3, wantPages: 2},
		{name: "no match", query: "refrigerator", page: 1, wantIDs: []string{}, wantTotal: 0, wantPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(tt.query, tt.page, tt.limit)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}

			ids := make([]string, len(got.Products))
			for i, p := range got.Products {
				ids[i] = p.ID
			}
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("ids = %v, want %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
					break
				}
			}
			if got.Pagination.TotalItems != tt.wantTotal || got.Pagination.TotalPages != tt.wantPages {
				t.Errorf("pagination = %+v", got.Pagination)
			}
		})
	}
}

func TestProductService_ListClampsLimit(t *testing.T) {
	s := NewProductService(repository.NewProductRepository(repository.SeedProducts()))

	got, err := s.List("", 1, 500)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got.Pagination.Limit != maxPageSize {
		t.Errorf("Limit = %d, want %d", got.Pagination.Limit, maxPageSize)
	}
}

func TestProductService_Get(t *testing.T) {
	s := NewProductService(repository.NewProductRepository(repository.SeedProducts()))

	p, err := s.Get("prod-phone-x")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Name != "Phone X" || p.Stock != 40 {
		t.Errorf("product = %+v", p)
	}

	if _, err := s.Get("prod-missing"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Get() missing error = %v, want %v", err, ErrProductNotFound)
	}
}
