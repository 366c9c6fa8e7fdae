package api

import (
	"context"
	"net/http"
	"net/url"

	"storefront-client/internal/domain"
)

type OrderQuery struct {
	Page   int
	Limit  int
	Status string
}

type OrderAPI interface {
	Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.Order, error)
	List(ctx context.Context, q OrderQuery) (*domain.OrderPage, error)
}

type orderAPI struct {
	doer Doer
}

func NewOrderAPI(doer Doer) OrderAPI {
	return &orderAPI{doer: doer}
}

func (a *orderAPI) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.Order, error) {
	var out domain.Order
	if _, err := call(ctx, a.doer, http.MethodPost, "/orders/checkout", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *orderAPI) List(ctx context.Context, q OrderQuery) (*domain.OrderPage, error) {
	params := url.Values{"status": {q.Status}}
	pageParams(params, q.Page, q.Limit)

	var out domain.OrderPage
	if _, err := query(ctx, a.doer, "/orders/me", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type AddressAPI interface {
	List(ctx context.Context) ([]domain.Address, error)
	Create(ctx context.Context, req domain.CreateAddressRequest) (*domain.Address, error)
}

type addressAPI struct {
	doer Doer
}

func NewAddressAPI(doer Doer) AddressAPI {
	return &addressAPI{doer: doer}
}

func (a *addressAPI) List(ctx context.Context) ([]domain.Address, error) {
	var out []domain.Address
	if _, err := call(ctx, a.doer, http.MethodGet, "/auth/me/address", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *addressAPI) Create(ctx context.Context, req domain.CreateAddressRequest) (*domain.Address, error) {
	var out domain.Address
	if _, err := call(ctx, a.doer, http.MethodPost, "/auth/me/address/create", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
