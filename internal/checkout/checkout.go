// Package checkout turns the reconciled cart into an order and reads the
// user's order history and shipping addresses.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	"storefront-client/internal/api"
	"storefront-client/internal/cart"
	"storefront-client/internal/domain"
	"storefront-client/internal/gateway"
	"storefront-client/internal/metrics"
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrCartBusy    = errors.New("cart is being updated")
	ErrUnknownItem = errors.New("item is not in the cart")
	ErrNoAddress   = errors.New("no shipping address on file")
	ErrInvalid     = errors.New("invalid checkout request")
)

const (
	msgCheckoutFailed = "Could not place the order"
	msgOrdersFailed   = "Could not load orders"
	msgAddressFailed  = "Could not load addresses"
)

// CartSource is what checkout needs from the cart reconciler.
type CartSource interface {
	Snapshot() cart.Snapshot
	FetchCart(ctx context.Context) error
}

type Options struct {
	Orders    api.OrderAPI
	Addresses api.AddressAPI
	Cart      CartSource
	Metrics   *metrics.Recorder
}

// Request selects what to buy. Empty ItemIDs buys every line at its cart
// quantity; an empty AddressID uses the default address.
type Request struct {
	AddressID     string
	ItemIDs       []string
	PaymentMethod domain.PaymentMethod
	Notes         string
}

type Service struct {
	orders    api.OrderAPI
	addresses api.AddressAPI
	cart      CartSource
	metrics   *metrics.Recorder
	validate  *validator.Validate
}

func NewService(opts Options) *Service {
	return &Service{
		orders:    opts.Orders,
		addresses: opts.Addresses,
		cart:      opts.Cart,
		metrics:   opts.Metrics,
		validate:  validator.New(),
	}
}

// Checkout places an order for lines of the current cart snapshot, then
// reads the cart back from the server. A cart with an add in flight or an
// unconfirmed optimistic patch is refused.
func (s *Service) Checkout(ctx context.Context, req Request) (*domain.Order, error) {
	snap := s.cart.Snapshot()
	if snap.Adding || snap.Phase == cart.PhaseOptimistic {
		return nil, ErrCartBusy
	}

	items, err := Lines(snap.Cart, req.ItemIDs)
	if err != nil {
		return nil, err
	}

	addressID := req.AddressID
	if addressID == "" {
		address, err := s.DefaultAddress(ctx)
		if err != nil {
			return nil, err
		}
		addressID = address.ID
	}

	body := domain.CheckoutRequest{
		ShippingAddressID: addressID,
		Items:             items,
		PaymentMethod:     req.PaymentMethod,
		Notes:             req.Notes,
	}
	if err := s.validate.Struct(body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	order, err := s.orders.Checkout(ctx, body)
	if err != nil {
		s.metrics.Checkout("failed")
		log.Printf("[Checkout] Order of %d lines failed: %v", len(items), err)
		return nil, fmt.Errorf("%s: %w", gateway.Message(err, msgCheckoutFailed), err)
	}
	s.metrics.Checkout("placed")
	log.Printf("[Checkout] Placed order %s for %.0f", order.OrderCode, order.FinalAmount)

	// The order stands even if the cart cannot be read back right now.
	if err := s.cart.FetchCart(ctx); err != nil {
		log.Printf("[Checkout] Cart refresh after order %s failed: %v", order.OrderCode, err)
	}
	return order, nil
}

// Lines builds checkout items from the cart. ids may name cart lines or
// products; none selects every line.
func Lines(c *domain.Cart, ids []string) ([]domain.CheckoutItem, error) {
	if c == nil || len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if len(ids) == 0 {
		out := make([]domain.CheckoutItem, 0, len(c.Items))
		for _, it := range c.Items {
			out = append(out, domain.CheckoutItem{CartItemID: it.ID, Quantity: it.Quantity})
		}
		return out, nil
	}

	seen := make(map[string]bool, len(ids))
	out := make([]domain.CheckoutItem, 0, len(ids))
	for _, id := range ids {
		item := c.FindItem(id)
		if item == nil {
			item = c.FindByProduct(id)
		}
		if item == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownItem, id)
		}
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, domain.CheckoutItem{CartItemID: item.ID, Quantity: item.Quantity})
	}
	return out, nil
}

func (s *Service) Orders(ctx context.Context, q api.OrderQuery) (*domain.OrderPage, error) {
	page, err := s.orders.List(ctx, q)
	if err != nil {
		log.Printf("[Checkout] Failed to list orders: %v", err)
		return nil, fmt.Errorf("%s: %w", gateway.Message(err, msgOrdersFailed), err)
	}
	return page, nil
}

func (s *Service) Addresses(ctx context.Context) ([]domain.Address, error) {
	list, err := s.addresses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", gateway.Message(err, msgAddressFailed), err)
	}
	return list, nil
}

// DefaultAddress falls back to the first address when none is marked.
func (s *Service) DefaultAddress(ctx context.Context) (*domain.Address, error) {
	list, err := s.Addresses(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNoAddress
	}
	for i := range list {
		if list[i].IsDefault {
			return &list[i], nil
		}
	}
	return &list[0], nil
}

func (s *Service) AddAddress(ctx context.Context, req domain.CreateAddressRequest) (*domain.Address, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	address, err := s.addresses.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", gateway.Message(err, "Could not save address"), err)
	}
	return address, nil
}
