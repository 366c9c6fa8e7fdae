package repository

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"storefront-client/internal/domain"
)

type CouponRepository interface {
	FindByCode(code string) (*domain.Coupon, error)
	List() ([]*domain.Coupon, error)
	UserUsage(userID, couponID string) (int, error)
	RecordUsage(userID, couponID string) error
}

type couponRepository struct {
	mu      sync.RWMutex
	coupons map[string]*domain.Coupon
	usage   map[string]int
}

func NewCouponRepository(coupons []domain.Coupon) CouponRepository {
	r := &couponRepository{
		coupons: make(map[string]*domain.Coupon, len(coupons)),
		usage:   make(map[string]int),
	}
	for i := range coupons {
		c := coupons[i]
		r.coupons[strings.ToUpper(c.Code)] = &c
	}
	return r
}

func (r *couponRepository) FindByCode(code string) (*domain.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, fmt.Errorf("coupon %s: %w", code, ErrNotFound)
	}
	found := *c
	return &found, nil
}

func (r *couponRepository) List() ([]*domain.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		found := *c
		out = append(out, &found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// UserUsage counts completed orders that used the coupon.
func (r *couponRepository) UserUsage(userID, couponID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.usage[userID+":"+couponID], nil
}

func (r *couponRepository) RecordUsage(userID, couponID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.coupons {
		if c.ID == couponID {
			c.UsedCount++
			r.usage[userID+":"+couponID]++
			return nil
		}
	}
	return fmt.Errorf("coupon %s: %w", couponID, ErrNotFound)
}
