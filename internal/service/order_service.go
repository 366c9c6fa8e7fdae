package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"storefront-client/internal/domain"
	"storefront-client/internal/repository"

	"github.com/google/uuid"
)

type OrderService struct {
	orders    repository.OrderRepository
	addresses repository.AddressRepository
	products  repository.ProductRepository
	coupons   repository.CouponRepository
	carts     *CartService
	now       func() time.Time
}

func NewOrderService(orders repository.OrderRepository, addresses repository.AddressRepository,
	products repository.ProductRepository, coupons repository.CouponRepository, carts *CartService) *OrderService {
	return &OrderService{
		orders:    orders,
		addresses: addresses,
		products:  products,
		coupons:   coupons,
		carts:     carts,
		now:       time.Now,
	}
}

// Checkout turns the requested cart lines into an order. Stock is reserved
// and the coupon the cart carried is re-priced against the purchased lines
// only; the purchased quantities then leave the cart.
func (s *OrderService) Checkout(userID, deviceID string, req *domain.CheckoutRequest) (*domain.Order, error) {
	address, err := s.addresses.FindByID(userID, req.ShippingAddressID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to find address: %w", err)
	}

	method := req.PaymentMethod
	if method == "" {
		method = domain.PaymentCOD
	}

	var order *domain.Order
	_, err = s.carts.Checkout(userID, deviceID, req.Items, func(lines []domain.CartItem, applied *domain.AppliedCoupon) error {
		now := s.now()
		o := &domain.Order{
			ID:              uuid.New().String(),
			UserID:          userID,
			OrderCode:       orderCode(now),
			ShippingAddress: address.Shipping(),
			Payment:         domain.Payment{Method: method, Status: "pending"},
			OrderStatus:     domain.OrderPending,
			Notes:           req.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		reserve := make(map[string]int, len(lines))
		for _, line := range lines {
			o.Items = append(o.Items, domain.OrderItem{
				ID:       uuid.New().String(),
				Product:  domain.OrderProduct{ID: line.Product.ID, Name: line.Product.Name, Images: line.Product.Images},
				Name:     line.Product.Name,
				Quantity: line.Quantity,
				Price:    line.Price,
			})
			reserve[line.Product.ID] += line.Quantity
		}

		o.Settle(0, domain.StandardShippingFee)
		var coupon *domain.Coupon
		if applied != nil {
			c, discount, err := evaluateCoupon(s.coupons, userID, applied.Code, o.TotalAmount, now)
			if err != nil {
				log.Printf("[Order] Coupon %s not applied to order for user %s: %v", applied.Code, userID, err)
			} else {
				coupon = c
				o.CouponCode = c.Code
				o.Settle(discount, domain.StandardShippingFee)
			}
		}

		if err := s.products.Reserve(reserve); err != nil {
			switch {
			case errors.Is(err, repository.ErrOutOfStock):
				return ErrInsufficientStock
			case errors.Is(err, repository.ErrNotFound):
				return ErrProductUnavailable
			}
			return fmt.Errorf("failed to reserve stock: %w", err)
		}

		if err := s.orders.Create(o); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if coupon != nil {
			if err := s.coupons.RecordUsage(userID, coupon.ID); err != nil {
				log.Printf("[Order] Failed to record coupon usage for %s: %v", coupon.Code, err)
			}
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Order] User %s placed %s for %.0f", userID, order.OrderCode, order.FinalAmount)
	return order, nil
}

// List pages through the user's orders, newest first.
func (s *OrderService) List(userID string, page, limit int, status string) (*domain.OrderPage, error) {
	found, err := s.orders.ListByUser(userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	pagination, start, end := domain.NewPagination(len(found), page, pageSize(limit))
	out := &domain.OrderPage{Orders: make([]domain.Order, 0, end-start), Pagination: pagination}
	for _, o := range found[start:end] {
		out.Orders = append(out.Orders, *o)
	}
	return out, nil
}

func orderCode(now time.Time) string {
	return "ORD-" + now.Format("20060102") + "-" + strings.ToUpper(uuid.New().String()[:8])
}
