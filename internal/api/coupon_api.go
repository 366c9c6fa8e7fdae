package api

import (
	"context"
	"net/http"

	"storefront-client/internal/domain"
)

type CouponAPI interface {
	Available(ctx context.Context) ([]domain.AvailableCoupon, error)
	Validate(ctx context.Context, code string) (*domain.ValidateCouponResponse, error)
}

type couponAPI struct {
	doer Doer
}

func NewCouponAPI(doer Doer) CouponAPI {
	return &couponAPI{doer: doer}
}

func (a *couponAPI) Available(ctx context.Context) ([]domain.AvailableCoupon, error) {
	var out []domain.AvailableCoupon
	if _, err := call(ctx, a.doer, http.MethodGet, "/coupons/available", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *couponAPI) Validate(ctx context.Context, code string) (*domain.ValidateCouponResponse, error) {
	var out domain.ValidateCouponResponse
	if _, err := call(ctx, a.doer, http.MethodPost, "/coupons/validate", domain.ApplyCouponRequest{Code: code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
