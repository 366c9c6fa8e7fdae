package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"storefront-client/internal/domain"
)

type CartAPI interface {
	GetCart(ctx context.Context) (*domain.Cart, error)
	AddItem(ctx context.Context, req domain.AddToCartRequest) error
	UpdateItem(ctx context.Context, req domain.UpdateCartItemRequest) (*domain.Cart, error)
	RemoveItem(ctx context.Context, itemID string) (*domain.Cart, error)
	ClearCart(ctx context.Context) error
	ApplyCoupon(ctx context.Context, code string) (*domain.Cart, error)
	RemoveCoupon(ctx context.Context) (*domain.Cart, error)
}

type cartAPI struct {
	doer Doer
}

func NewCartAPI(doer Doer) CartAPI {
	return &cartAPI{doer: doer}
}

// GetCart returns nil when the server reports no cart.
func (a *cartAPI) GetCart(ctx context.Context) (*domain.Cart, error) {
	return a.cartCall(ctx, http.MethodGet, "/cart", nil)
}

func (a *cartAPI) AddItem(ctx context.Context, req domain.AddToCartRequest) error {
	if _, err := call(ctx, a.doer, http.MethodPost, "/cart/add", req, nil); err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}
	return nil
}

func (a *cartAPI) UpdateItem(ctx context.Context, req domain.UpdateCartItemRequest) (*domain.Cart, error) {
	return a.cartCall(ctx, http.MethodPut, "/cart/update", req)
}

func (a *cartAPI) RemoveItem(ctx context.Context, itemID string) (*domain.Cart, error) {
	return a.cartCall(ctx, http.MethodDelete, "/cart/remove/"+url.PathEscape(itemID), nil)
}

func (a *cartAPI) ClearCart(ctx context.Context) error {
	if _, err := call(ctx, a.doer, http.MethodDelete, "/cart/clear", nil, nil); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (a *cartAPI) ApplyCoupon(ctx context.Context, code string) (*domain.Cart, error) {
	return a.cartCall(ctx, http.MethodPost, "/cart/apply-coupon", domain.ApplyCouponRequest{Code: code})
}

func (a *cartAPI) RemoveCoupon(ctx context.Context) (*domain.Cart, error) {
	return a.cartCall(ctx, http.MethodDelete, "/cart/coupon", nil)
}

func (a *cartAPI) cartCall(ctx context.Context, method, path string, body interface{}) (*domain.Cart, error) {
	resp, err := call(ctx, a.doer, method, path, body, nil)
	if err != nil {
		return nil, err
	}
	if !resp.HasData() {
		return nil, nil
	}

	var cart domain.Cart
	if err := resp.Decode(&cart); err != nil {
		return nil, err
	}
	return &cart, nil
}
