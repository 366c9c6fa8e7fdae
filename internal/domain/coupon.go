package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

type CouponType string

const (
	CouponPercent  CouponType = "PERCENT"
	CouponFixed    CouponType = "FIXED"
	CouponFreeShip CouponType = "FREESHIP"
)

// StandardShippingFee is what a FREESHIP coupon waives.
const StandardShippingFee = 30000

var (
	ErrCouponInactive     = errors.New("coupon is not active")
	ErrCouponExpired      = errors.New("coupon is outside its validity window")
	ErrCouponUsageReached = errors.New("coupon usage limit reached")
	ErrBelowMinimumOrder  = errors.New("order does not meet the coupon minimum")
)

type AppliedCoupon struct {
	CouponID       string     `json:"coupon_id"`
	Code           string     `json:"code"`
	Type           CouponType `json:"type"`
	Value          float64    `json:"value"`
	DiscountAmount float64    `json:"discount_amount"`
}

type Coupon struct {
	ID            string     `json:"_id"`
	Code          string     `json:"code"`
	Type          CouponType `json:"type"`
	Value         float64    `json:"value"`
	MinOrderValue float64    `json:"min_order_value"`
	MaxDiscount   float64    `json:"max_discount,omitempty"`
	UsageLimit    int        `json:"usage_limit,omitempty"`
	UsedCount     int        `json:"used_count"`
	PerUserLimit  int        `json:"per_user_limit"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       time.Time  `json:"end_date"`
	IsActive      bool       `json:"is_active"`
	Stackable     bool       `json:"stackable"`
}

type AvailableCoupon struct {
	Coupon
	CanUse         bool `json:"canUse"`
	UserUsageCount int  `json:"userUsageCount"`
	RemainingUsage int  `json:"remainingUsage"`
}

type ApplyCouponRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

type ValidateCouponResponse struct {
	Coupon         Coupon  `json:"coupon"`
	DiscountAmount float64 `json:"discountAmount"`
}

// CouponValidation is the pre-check result shown next to a coupon input.
type CouponValidation struct {
	Valid    bool
	Discount float64
	Message  string
}

// Usable checks everything about the coupon that does not depend on the order.
func (c *Coupon) Usable(now time.Time) error {
	if !c.IsActive {
		return ErrCouponInactive
	}
	if (!c.StartDate.IsZero() && now.Before(c.StartDate)) || (!c.EndDate.IsZero() && now.After(c.EndDate)) {
		return ErrCouponExpired
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return ErrCouponUsageReached
	}
	return nil
}

// Discount computes what the coupon takes off an order of the given amount.
func (c *Coupon) Discount(amount float64, now time.Time) (float64, error) {
	if err := c.Usable(now); err != nil {
		return 0, err
	}
	if amount < c.MinOrderValue {
		return 0, fmt.Errorf("%w: minimum is %.0f", ErrBelowMinimumOrder, c.MinOrderValue)
	}

	var discount float64
	switch c.Type {
	case CouponPercent:
		discount = amount * c.Value / 100
		if c.MaxDiscount > 0 {
			discount = math.Min(discount, c.MaxDiscount)
		}
	case CouponFixed:
		discount = math.Min(c.Value, amount)
	case CouponFreeShip:
		discount = StandardShippingFee
	default:
		return 0, fmt.Errorf("unknown coupon type %q", c.Type)
	}

	return roundMoney(discount), nil
}

func (c *Coupon) Applied(discount float64) *AppliedCoupon {
	return &AppliedCoupon{
		CouponID:       c.ID,
		Code:           c.Code,
		Type:           c.Type,
		Value:          c.Value,
		DiscountAmount: discount,
	}
}
