// Package cart owns the client's view of the shopping cart. Adds are
// optimistic and serialized; every other mutation takes the server's cart
// as returned.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"

	"storefront-client/internal/api"
	"storefront-client/internal/domain"
	"storefront-client/internal/gateway"
	"storefront-client/internal/metrics"
)

var (
	ErrInvalidRequest  = errors.New("invalid cart request")
	ErrEmptyCouponCode = errors.New("coupon code is required")
)

const (
	msgAddFailed          = "Failed to add product to cart"
	msgUpdateFailed       = "Failed to update cart item"
	msgRemoveFailed       = "Failed to remove cart item"
	msgClearFailed        = "Failed to clear cart"
	msgApplyCouponFailed  = "Could not apply coupon"
	msgRemoveCouponFailed = "Could not remove coupon"
)

type Options struct {
	API      api.CartAPI
	Notifier Notifier
	Metrics  *metrics.Recorder
}

type Reconciler struct {
	api      api.CartAPI
	notify   Notifier
	metrics  *metrics.Recorder
	validate *validator.Validate

	adding atomic.Bool

	mu      sync.RWMutex
	cart    *domain.Cart
	status  Status
	phase   Phase
	loading int
}

func New(opts Options) *Reconciler {
	notify := opts.Notifier
	if notify == nil {
		notify = LogNotifier{}
	}

	return &Reconciler{
		api:      opts.API,
		notify:   notify,
		metrics:  opts.Metrics,
		validate: validator.New(),
	}
}

// Cart returns a copy of the current cart, or nil.
func (r *Reconciler) Cart() *domain.Cart {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cart.Clone()
}

func (r *Reconciler) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{
		Cart:    r.cart.Clone(),
		Status:  r.status,
		Phase:   r.phase,
		Loading: r.loading > 0,
		Adding:  r.adding.Load(),
	}
}

func (r *Reconciler) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loading > 0
}

func (r *Reconciler) ItemCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cart.ItemCount()
}

// FetchCart replaces the local cart with the server's. On failure the cart
// becomes nil with StatusUnknown, or StatusNone once the session is gone.
func (r *Reconciler) FetchCart(ctx context.Context) error {
	r.beginLoading()
	defer r.endLoading()

	return r.fetch(ctx, PhaseReconciled)
}

// AddToCart merges into an existing line for the same product or inserts a
// new one. Only one add runs at a time; a call that finds another in flight
// returns AddDropped without touching the network.
func (r *Reconciler) AddToCart(ctx context.Context, req domain.AddToCartRequest) (AddOutcome, error) {
	if err := r.validate.Struct(req); err != nil {
		return AddDropped, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if !r.adding.CompareAndSwap(false, true) {
		log.Printf("[Cart] WARN: add of product %s dropped, another add is in flight", req.ProductID)
		r.metrics.CartAdd(AddDropped.String())
		return AddDropped, nil
	}
	defer r.adding.Store(false)

	r.beginLoading()
	defer r.endLoading()

	outcome, err := r.mergeOrInsert(ctx, req)
	if err == nil {
		err = r.fetch(ctx, PhaseReconciled)
		if err != nil {
			r.mu.Lock()
			r.phase = PhaseRolledBack
			r.mu.Unlock()
		}
	} else {
		r.rollback(ctx, err)
	}

	if err != nil {
		r.metrics.CartRollback()
		r.notify.Error(gateway.Message(err, msgAddFailed))
		log.Printf("[Cart] Add of product %s failed: %v", req.ProductID, err)
		return outcome, fmt.Errorf("failed to add to cart: %w", err)
	}

	r.metrics.CartAdd(outcome.String())
	return outcome, nil
}

func (r *Reconciler) mergeOrInsert(ctx context.Context, req domain.AddToCartRequest) (AddOutcome, error) {
	r.mu.Lock()
	existing := r.cart.FindByProduct(req.ProductID)
	if existing == nil {
		r.mu.Unlock()
		return AddInserted, r.api.AddItem(ctx, req)
	}

	update := domain.UpdateCartItemRequest{
		ItemID:   existing.ID,
		Quantity: existing.Quantity + req.Quantity,
	}
	r.cart.SetQuantity(update.ItemID, update.Quantity)
	r.cart.TotalItems += req.Quantity
	r.phase = PhaseOptimistic
	r.mu.Unlock()

	// The server gets the final quantity, not the delta.
	_, err := r.api.UpdateItem(ctx, update)
	return AddMerged, err
}

// rollback discards an optimistic patch by reading the server cart again.
// A dead session has nothing to read, so the cart is simply dropped.
func (r *Reconciler) rollback(ctx context.Context, cause error) {
	if errors.Is(cause, gateway.ErrSessionExpired) {
		r.mu.Lock()
		r.cart = nil
		r.status = StatusNone
		r.phase = PhaseRolledBack
		r.mu.Unlock()
		return
	}

	if err := r.fetch(context.WithoutCancel(ctx), PhaseRolledBack); err != nil {
		log.Printf("[Cart] Rollback fetch failed: %v", err)
	}
}

// UpdateItem sets an item's quantity and takes the cart the server returns.
func (r *Reconciler) UpdateItem(ctx context.Context, req domain.UpdateCartItemRequest) error {
	if err := r.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	cart, err := r.api.UpdateItem(ctx, req)
	if err != nil {
		r.notify.Error(gateway.Message(err, msgUpdateFailed))
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	r.replace(cart, PhaseReconciled)
	return nil
}

func (r *Reconciler) RemoveItem(ctx context.Context, itemID string) error {
	if strings.TrimSpace(itemID) == "" {
		return fmt.Errorf("%w: item id is required", ErrInvalidRequest)
	}

	cart, err := r.api.RemoveItem(ctx, itemID)
	if err != nil {
		r.notify.Error(gateway.Message(err, msgRemoveFailed))
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	r.replace(cart, PhaseReconciled)
	return nil
}

// ClearCart empties the cart. Without a cart there is nothing to clear on the
// server either, unless the last fetch failed and the server state is unknown.
func (r *Reconciler) ClearCart(ctx context.Context) error {
	r.mu.RLock()
	skip := r.cart == nil && r.status != StatusUnknown
	r.mu.RUnlock()
	if skip {
		return nil
	}

	if err := r.api.ClearCart(ctx); err != nil {
		r.notify.Error(gateway.Message(err, msgClearFailed))
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.replace(nil, PhaseReconciled)
	return nil
}

// ApplyCoupon asks the server to apply code and adopts the cart it returns.
// The server's rejection message reaches the notifier verbatim.
func (r *Reconciler) ApplyCoupon(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyCouponCode
	}

	cart, err := r.api.ApplyCoupon(ctx, code)
	if err != nil {
		r.notify.Error(gateway.Message(err, msgApplyCouponFailed))
		return fmt.Errorf("failed to apply coupon %s: %w", code, err)
	}

	r.replace(cart, PhaseReconciled)
	r.notify.Success(fmt.Sprintf("Coupon %s applied", code))
	return nil
}

func (r *Reconciler) RemoveCoupon(ctx context.Context) error {
	cart, err := r.api.RemoveCoupon(ctx)
	if err != nil {
		r.notify.Error(gateway.Message(err, msgRemoveCouponFailed))
		return fmt.Errorf("failed to remove coupon: %w", err)
	}

	r.replace(cart, PhaseReconciled)
	r.notify.Success("Coupon removed")
	return nil
}

// HandleAuthChange follows the session's authenticated signal: a login
// fetches the cart, a logout drops it without a network call.
func (r *Reconciler) HandleAuthChange(ctx context.Context, authenticated bool) {
	if !authenticated {
		r.replace(nil, PhaseReconciled)
		return
	}

	if err := r.FetchCart(ctx); err != nil {
		log.Printf("[Cart] Fetch after login failed: %v", err)
	}
}

func (r *Reconciler) fetch(ctx context.Context, phase Phase) error {
	cart, err := r.api.GetCart(ctx)
	if err != nil {
		r.mu.Lock()
		r.cart = nil
		r.status = StatusUnknown
		if errors.Is(err, gateway.ErrSessionExpired) {
			r.status = StatusNone
		}
		r.phase = phase
		r.mu.Unlock()
		log.Printf("[Cart] Fetch failed: %v", err)
		return fmt.Errorf("failed to fetch cart: %w", err)
	}

	r.replace(cart, phase)
	return nil
}

func (r *Reconciler) replace(cart *domain.Cart, phase Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cart = cart.Clone()
	r.phase = phase
	if cart == nil {
		r.status = StatusNone
	} else {
		r.status = StatusReady
	}
}

func (r *Reconciler) beginLoading() {
	r.mu.Lock()
	r.loading++
	r.mu.Unlock()
}

func (r *Reconciler) endLoading() {
	r.mu.Lock()
	r.loading--
	r.mu.Unlock()
}
