package repository

import (
	"time"

	"storefront-client/internal/domain"
)

func SeedProducts() []domain.Product {
	return []domain.Product{
		{ID: "prod-laptop-14", Name: "Ultrabook 14", Slug: "ultrabook-14", Price: 18990000, OldPrice: 20990000, Images: []string{"/img/ultrabook-14.jpg"}, Description: "14 inch laptop, 16GB RAM, light for travel and office work", Stock: 25, Status: "active"},
		{ID: "prod-laptop-gaming", Name: "Gaming Laptop 16", Slug: "gaming-laptop-16", Price: 32490000, Images: []string{"/img/gaming-16.jpg"}, Description: "16 inch gaming laptop with RTX graphics", Stock: 8, Status: "active"},
		{ID: "prod-phone-x", Name: "Phone X", Slug: "phone-x", Price: 12990000, Images: []string{"/img/phone-x.jpg"}, Description: "6.1 inch phone with great camera", Stock: 40, Status: "active"},
		{ID: "prod-earbuds", Name: "Wireless Earbuds", Slug: "wireless-earbuds", Price: 1490000, OldPrice: 1990000, Images: []string{"/img/earbuds.jpg"}, Description: "Noise cancelling bluetooth earbuds", Stock: 100, Status: "active"},
		{ID: "prod-mouse", Name: "Office Mouse", Slug: "office-mouse", Price: 250000, Images: []string{"/img/mouse.jpg"}, Description: "Quiet wireless mouse for laptop and desktop", Stock: 5, Status: "active"},
	}
}

func SeedCoupons(now time.Time) []domain.Coupon {
	start := now.AddDate(0, -1, 0)
	end := now.AddDate(1, 0, 0)

	return []domain.Coupon{
		{ID: "coupon-save10", Code: "SAVE10", Type: domain.CouponPercent, Value: 10, MaxDiscount: 2000000, PerUserLimit: 1, StartDate: start, EndDate: end, IsActive: true},
		{ID: "coupon-save20", Code: "SAVE20", Type: domain.CouponPercent, Value: 20, MinOrderValue: 1000000, MaxDiscount: 5000000, PerUserLimit: 1, StartDate: start, EndDate: end, IsActive: true},
		{ID: "coupon-fixed50k", Code: "FIXED50K", Type: domain.CouponFixed, Value: 50000, MinOrderValue: 300000, PerUserLimit: 3, StartDate: start, EndDate: end, IsActive: true},
		{ID: "coupon-freeship", Code: "FREESHIP", Type: domain.CouponFreeShip, MinOrderValue: 500000, PerUserLimit: 5, StartDate: start, EndDate: end, IsActive: true},
		{ID: "coupon-expired", Code: "SUMMER", Type: domain.CouponPercent, Value: 15, StartDate: now.AddDate(-1, 0, 0), EndDate: now.AddDate(0, -6, 0), IsActive: true},
	}
}
