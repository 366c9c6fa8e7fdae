package domain

import (
	"errors"
	"testing"
	"time"
)

func TestCoupon_Discount(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		coupon  Coupon
		amount  float64
		want    float64
		wantErr error
	}{
		{
			name:   "percent",
			coupon: Coupon{Type: CouponPercent, Value: 10, IsActive: true},
			amount: 500000,
			want:   50000,
		},
		{
			name:   "percent capped",
			coupon: Coupon{Type: CouponPercent, Value: 50, MaxDiscount: 100000, IsActive: true},
			amount: 500000,
			want:   100000,
		},
		{
			name:   "fixed larger than order",
			coupon: Coupon{Type: CouponFixed, Value: 50000, IsActive: true},
			amount: 20000,
			want:   20000,
		},
		{
			name:   "free shipping",
			coupon: Coupon{Type: CouponFreeShip, IsActive: true},
			amount: 100,
			want:   StandardShippingFee,
		},
		{
			name:    "inactive",
			coupon:  Coupon{Type: CouponFixed, Value: 10},
			amount:  100,
			wantErr: ErrCouponInactive,
		},
		{
			name:    "expired",
			coupon:  Coupon{Type: CouponFixed, Value: 10, IsActive: true, EndDate: now.Add(-time.Hour)},
			amount:  100,
			wantErr: ErrCouponExpired,
		},
		{
			name:    "below minimum",
			coupon:  Coupon{Type: CouponFixed, Value: 10, IsActive: true, MinOrderValue: 1000},
			amount:  999,
			wantErr: ErrBelowMinimumOrder,
		},
		{
			name:    "usage limit reached",
			coupon:  Coupon{Type: CouponFixed, Value: 10, IsActive: true, UsageLimit: 3, UsedCount: 3},
			amount:  100,
			wantErr: ErrCouponUsageReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.coupon.Discount(tt.amount, now)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Discount() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Discount() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Discount() = %v, want %v", got, tt.want)
			}
		})
	}
}
