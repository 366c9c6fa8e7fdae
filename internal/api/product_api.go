package api

import (
	"context"
	"net/url"
	"strconv"

	"storefront-client/internal/domain"
)

// ProductQuery pages through the catalog. Zero fields take the server's
// defaults; Query narrows the listing to matching products.
type ProductQuery struct {
	Query string
	Page  int
	Limit int
}

type ProductAPI interface {
	List(ctx context.Context, q ProductQuery) (*domain.ProductPage, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type productAPI struct {
	doer Doer
}

func NewProductAPI(doer Doer) ProductAPI {
	return &productAPI{doer: doer}
}

func (a *productAPI) List(ctx context.Context, q ProductQuery) (*domain.ProductPage, error) {
	params := url.Values{"q": {q.Query}}
	pageParams(params, q.Page, q.Limit)

	var out domain.ProductPage
	if _, err := query(ctx, a.doer, "/products", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *productAPI) Get(ctx context.Context, id string) (*domain.Product, error) {
	var out domain.Product
	if _, err := query(ctx, a.doer, "/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func pageParams(params url.Values, page, limit int) {
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
}
