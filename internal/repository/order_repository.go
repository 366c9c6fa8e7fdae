package repository

import (
	"sort"
	"sync"

	"storefront-client/internal/domain"
)

type OrderRepository interface {
	Create(order *domain.Order) error
	// ListByUser returns newest first. An empty status matches every order.
	ListByUser(userID, status string) ([]*domain.Order, error)
}

type orderRepository struct {
	mu     sync.RWMutex
	orders []*domain.Order
}

func NewOrderRepository() OrderRepository {
	return &orderRepository{}
}

func (r *orderRepository) Create(order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *order
	stored.Items = append([]domain.OrderItem(nil), order.Items...)
	r.orders = append(r.orders, &stored)
	return nil
}

func (r *orderRepository) ListByUser(userID, status string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Order
	for _, o := range r.orders {
		if o.UserID != userID || (status != "" && o.OrderStatus != status) {
			continue
		}
		found := *o
		found.Items = append([]domain.OrderItem(nil), o.Items...)
		out = append(out, &found)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
