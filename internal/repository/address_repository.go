package repository

import (
	"fmt"
	"sync"

	"storefront-client/internal/domain"
)

type AddressRepository interface {
	Create(address *domain.Address) error
	FindByID(userID, id string) (*domain.Address, error)
	ListByUser(userID string) ([]*domain.Address, error)
}

type addressRepository struct {
	mu        sync.RWMutex
	addresses map[string][]*domain.Address
}

func NewAddressRepository() AddressRepository {
	return &addressRepository{addresses: make(map[string][]*domain.Address)}
}

// Create stores the address. The user's first address, or one marked
// default, becomes the only default.
func (r *addressRepository) Create(address *domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.addresses[address.UserID]
	stored := *address
	if len(list) == 0 {
		stored.IsDefault = true
	}
	if stored.IsDefault {
		for _, a := range list {
			a.IsDefault = false
		}
	}

	r.addresses[address.UserID] = append(list, &stored)
	*address = stored
	return nil
}

func (r *addressRepository) FindByID(userID, id string) (*domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.addresses[userID] {
		if a.ID == id {
			found := *a
			return &found, nil
		}
	}
	return nil, fmt.Errorf("address %s: %w", id, ErrNotFound)
}

// ListByUser returns the default address first, then in creation order.
func (r *addressRepository) ListByUser(userID string) ([]*domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Address, 0, len(r.addresses[userID]))
	for _, a := range r.addresses[userID] {
		found := *a
		if found.IsDefault {
			out = append([]*domain.Address{&found}, out...)
			continue
		}
		out = append(out, &found)
	}
	return out, nil
}
