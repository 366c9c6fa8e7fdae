// Package coupon lists the coupons a user can pick from and pre-checks a
// code before it is applied to the cart.
package coupon

import (
	"context"
	"fmt"
	"log"
	"strings"

	"storefront-client/internal/api"
	"storefront-client/internal/domain"
	"storefront-client/internal/gateway"
)

const (
	msgInvalid     = "Invalid coupon code"
	msgEmptyCode   = "Enter a coupon code"
	msgListFailure = "Could not load coupons"
)

type Service struct {
	api api.CouponAPI
}

func NewService(couponAPI api.CouponAPI) *Service {
	return &Service{api: couponAPI}
}

func (s *Service) Available(ctx context.Context) ([]domain.AvailableCoupon, error) {
	coupons, err := s.api.Available(ctx)
	if err != nil {
		log.Printf("[Coupon] Failed to list coupons: %v", err)
		return nil, fmt.Errorf("%s: %w", gateway.Message(err, msgListFailure), err)
	}
	return coupons, nil
}

// Usable keeps the coupons the server says the user can still apply.
func Usable(coupons []domain.AvailableCoupon) []domain.AvailableCoupon {
	out := make([]domain.AvailableCoupon, 0, len(coupons))
	for _, c := range coupons {
		if c.CanUse {
			out = append(out, c)
		}
	}
	return out
}

// Validate never fails: a rejected code comes back as Valid false with the
// server's reason.
func (s *Service) Validate(ctx context.Context, code string) domain.CouponValidation {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.CouponValidation{Message: msgEmptyCode}
	}

	resp, err := s.api.Validate(ctx, code)
	if err != nil {
		return domain.CouponValidation{Message: gateway.Message(err, msgInvalid)}
	}

	return domain.CouponValidation{
		Valid:    true,
		Discount: resp.DiscountAmount,
		Message:  fmt.Sprintf("%s saves %.0f", resp.Coupon.Code, resp.DiscountAmount),
	}
}
