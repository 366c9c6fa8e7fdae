package service

import (
	"errors"
	"fmt"
	"time"

	"storefront-client/internal/domain"
	"storefront-client/internal/repository"
)

type CouponService struct {
	coupons repository.CouponRepository
	carts   repository.CartRepository
	now     func() time.Time
}

func NewCouponService(coupons repository.CouponRepository, carts repository.CartRepository) *CouponService {
	return &CouponService{coupons: coupons, carts: carts, now: time.Now}
}

// Available lists every coupon with whether the user's current cart
// qualifies for it.
func (s *CouponService) Available(userID string) ([]domain.AvailableCoupon, error) {
	list, err := s.coupons.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}

	amount, err := s.cartAmount(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]domain.AvailableCoupon, 0, len(list))
	for _, c := range list {
		used, err := s.coupons.UserUsage(userID, c.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read coupon usage: %w", err)
		}

		remaining := -1
		if c.PerUserLimit > 0 {
			remaining = c.PerUserLimit - used
		}

		_, discountErr := c.Discount(amount, now)
		out = append(out, domain.AvailableCoupon{
			Coupon:         *c,
			CanUse:         discountErr == nil && remaining != 0,
			UserUsageCount: used,
			RemainingUsage: remaining,
		})
	}
	return out, nil
}

func (s *CouponService) Validate(userID, code string) (*domain.ValidateCouponResponse, error) {
	amount, err := s.cartAmount(userID)
	if err != nil {
		return nil, err
	}

	coupon, discount, err := evaluateCoupon(s.coupons, userID, code, amount, s.now())
	if err != nil {
		return nil, err
	}

	return &domain.ValidateCouponResponse{Coupon: *coupon, DiscountAmount: discount}, nil
}

func (s *CouponService) cartAmount(userID string) (float64, error) {
	cart, err := s.carts.Get(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		return 0, nil
	}
	return cart.TotalAmount, nil
}

// evaluateCoupon is shared by validation and the cart so both reject a code
// for the same reasons.
func evaluateCoupon(coupons repository.CouponRepository, userID, code string, amount float64, now time.Time) (*domain.Coupon, float64, error) {
	coupon, err := coupons.FindByCode(code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, ErrCouponNotFound
		}
		return nil, 0, fmt.Errorf("failed to find coupon: %w", err)
	}

	if coupon.PerUserLimit > 0 {
		used, err := coupons.UserUsage(userID, coupon.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read coupon usage: %w", err)
		}
		if used >= coupon.PerUserLimit {
			return nil, 0, ErrCouponLimitReached
		}
	}

	discount, err := coupon.Discount(amount, now)
	if err != nil {
		return nil, 0, err
	}
	return coupon, discount, nil
}
