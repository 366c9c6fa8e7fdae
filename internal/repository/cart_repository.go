package repository

import (
	"sync"

	"storefront-client/internal/domain"
)

// CartRepository stores one cart per user. Get returns nil for a user
// without a cart.
type CartRepository interface {
	Get(userID string) (*domain.Cart, error)
	Save(userID string, cart *domain.Cart) error
	Delete(userID string) error
}

type cartRepository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewCartRepository() CartRepository {
	return &cartRepository{carts: make(map[string]*domain.Cart)}
}

func (r *cartRepository) Get(userID string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.carts[userID].Clone(), nil
}

func (r *cartRepository) Save(userID string, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[userID] = cart.Clone()
	return nil
}

func (r *cartRepository) Delete(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}
