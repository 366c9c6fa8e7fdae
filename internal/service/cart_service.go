package service

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"storefront-client/internal/domain"
	"storefront-client/internal/repository"
	"storefront-client/internal/websocket"

	"github.com/google/uuid"
)

// Broadcaster fans a cart change out to the user's other devices.
type Broadcaster interface {
	BroadcastToUser(userID string, message *websocket.Message, excludeDeviceID string) error
}

// CartService keeps subtotal, total_items and total_amount derived from
// quantities on every write, and re-prices an applied coupon each time.
type CartService struct {
	carts       repository.CartRepository
	products    repository.ProductRepository
	coupons     repository.CouponRepository
	broadcaster Broadcaster
	now         func() time.Time

	mu sync.Mutex
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, coupons repository.CouponRepository, broadcaster Broadcaster) *CartService {
	return &CartService{
		carts:       carts,
		products:    products,
		coupons:     coupons,
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

// Get returns nil when the user has no cart.
func (s *CartService) Get(userID string) (*domain.Cart, error) {
	cart, err := s.carts.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) Add(userID, deviceID string, req *domain.AddToCartRequest) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.products.FindByID(req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductUnavailable
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if product.Status != "active" {
		return nil, ErrProductUnavailable
	}

	cart, err := s.carts.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		cart = &domain.Cart{Items: []domain.CartItem{}}
	}

	quantity := req.Quantity
	if existing := cart.FindByProduct(product.ID); existing != nil {
		quantity += existing.Quantity
		if quantity > product.Stock {
			return nil, ErrInsufficientStock
		}
		existing.Quantity = quantity
	} else {
		if quantity > product.Stock {
			return nil, ErrInsufficientStock
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ID:       uuid.New().String(),
			Product:  product.CartProduct(),
			Quantity: quantity,
			Price:    product.Price,
		})
	}

	return s.commit(userID, deviceID, cart, "add")
}

// Update sets the final quantity of one line.
func (s *CartService) Update(userID, deviceID string, req *domain.UpdateCartItemRequest) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, item, err := s.findItem(userID, req.ItemID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(item.Product.ID)
	if err != nil {
		return nil, ErrProductUnavailable
	}
	if req.Quantity > product.Stock {
		return nil, ErrInsufficientStock
	}

	item.Quantity = req.Quantity
	return s.commit(userID, deviceID, cart, "update")
}

// Remove drops a line. id may be the line id or the product id.
func (s *CartService) Remove(userID, deviceID, id string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, item, err := s.findItem(userID, id)
	if err != nil {
		return nil, err
	}

	removed := item.ID
	items := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ID != removed {
			items = append(items, it)
		}
	}
	cart.Items = items

	return s.commit(userID, deviceID, cart, "remove")
}

// Clear deletes the cart. Clearing a missing cart succeeds.
func (s *CartService) Clear(userID, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.carts.Delete(userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.broadcast(userID, deviceID, "clear", 0)
	return nil
}

// ApplyCoupon replaces whatever coupon the cart held.
func (s *CartService) ApplyCoupon(userID, deviceID, code string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.carts.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrNoCart
	}

	cart.Recalculate()
	coupon, discount, err := evaluateCoupon(s.coupons, userID, code, cart.TotalAmount, s.now())
	if err != nil {
		return nil, err
	}
	cart.AppliedCoupon = coupon.Applied(discount)
	cart.DiscountAmount = discount

	return s.commit(userID, deviceID, cart, "apply_coupon")
}

func (s *CartService) RemoveCoupon(userID, deviceID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.carts.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		return nil, ErrNoCart
	}

	cart.AppliedCoupon = nil
	cart.DiscountAmount = 0
	return s.commit(userID, deviceID, cart, "remove_coupon")
}

// Checkout takes the requested quantities out of the cart. place receives
// the purchased lines and the coupon the cart carried; when it fails the
// cart is left untouched. A cart emptied by checkout is deleted.
func (s *CartService) Checkout(userID, deviceID string, items []domain.CheckoutItem,
	place func(lines []domain.CartItem, coupon *domain.AppliedCoupon) error) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.carts.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrNoCart
	}

	wanted := make(map[string]int, len(items))
	var order []string
	for _, it := range items {
		line := cart.FindItem(it.CartItemID)
		if line == nil {
			return nil, ErrItemNotFound
		}
		if _, seen := wanted[line.ID]; !seen {
			order = append(order, line.ID)
		}
		wanted[line.ID] += it.Quantity
		if wanted[line.ID] > line.Quantity {
			return nil, ErrCheckoutQuantity
		}
	}

	lines := make([]domain.CartItem, 0, len(order))
	for _, id := range order {
		line := *cart.FindItem(id)
		line.Quantity = wanted[id]
		lines = append(lines, line)
	}

	if err := place(lines, cart.AppliedCoupon); err != nil {
		return nil, err
	}

	remaining := cart.Items[:0]
	for _, it := range cart.Items {
		it.Quantity -= wanted[it.ID]
		if it.Quantity > 0 {
			remaining = append(remaining, it)
		}
	}
	cart.Items = remaining

	if len(cart.Items) == 0 {
		if err := s.carts.Delete(userID); err != nil {
			return nil, fmt.Errorf("failed to clear cart: %w", err)
		}
		s.broadcast(userID, deviceID, "checkout", 0)
		return nil, nil
	}
	return s.commit(userID, deviceID, cart, "checkout")
}

func (s *CartService) findItem(userID, id string) (*domain.Cart, *domain.CartItem, error) {
	cart, err := s.carts.Get(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load cart: %w", err)
	}

	item := cart.FindItem(id)
	if item == nil {
		item = cart.FindByProduct(id)
	}
	if item == nil {
		return nil, nil, ErrItemNotFound
	}
	return cart, item, nil
}

func (s *CartService) commit(userID, deviceID string, cart *domain.Cart, reason string) (*domain.Cart, error) {
	cart.Recalculate()
	s.repriceCoupon(userID, cart)

	if err := s.carts.Save(userID, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	s.broadcast(userID, deviceID, reason, cart.TotalItems)
	return cart, nil
}

// repriceCoupon recomputes the discount for the new total and drops a
// coupon the cart no longer qualifies for.
func (s *CartService) repriceCoupon(userID string, cart *domain.Cart) {
	if cart.AppliedCoupon == nil {
		return
	}

	coupon, discount, err := evaluateCoupon(s.coupons, userID, cart.AppliedCoupon.Code, cart.TotalAmount, s.now())
	if err != nil {
		log.Printf("[Cart] Dropping coupon %s for user %s: %v", cart.AppliedCoupon.Code, userID, err)
		cart.AppliedCoupon = nil
		cart.DiscountAmount = 0
		return
	}

	cart.AppliedCoupon = coupon.Applied(discount)
	cart.DiscountAmount = discount
}

func (s *CartService) broadcast(userID, deviceID, reason string, totalItems int) {
	if s.broadcaster == nil {
		return
	}

	msg, err := websocket.NewMessage(websocket.TypeCartUpdated, &websocket.CartUpdatedPayload{
		Reason:     reason,
		DeviceID:   deviceID,
		TotalItems: totalItems,
	})
	if err != nil {
		log.Printf("[Cart] Failed to build cart_updated: %v", err)
		return
	}

	if err := s.broadcaster.BroadcastToUser(userID, msg, deviceID); err != nil {
		log.Printf("[Cart] Failed to broadcast cart_updated: %v", err)
	}
}
