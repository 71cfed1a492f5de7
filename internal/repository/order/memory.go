package order

import (
	"context"
	"sync"

	"license-storefront/internal/domain"
)

// memoryRepo keeps the latest order per customer in process memory. It is
// the default store when no database is configured; carts then do not
// survive a restart.
type memoryRepo struct {
	mu     sync.RWMutex
	latest map[string]*domain.CartOrder
}

// NewMemory returns an in-memory Repository.
func NewMemory() Repository {
	return &memoryRepo{latest: make(map[string]*domain.CartOrder)}
}

func (r *memoryRepo) GetOpenByCustomer(_ context.Context, customerID string) (*domain.CartOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.latest[customerID]
	if !ok || !o.Open() {
		return nil, domain.ErrNotFound
	}
	return o.Clone(), nil
}

func (r *memoryRepo) GetLatestByCustomer(_ context.Context, customerID string) (*domain.CartOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.latest[customerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o.Clone(), nil
}

func (r *memoryRepo) Save(_ context.Context, o *domain.CartOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest[o.CustomerID] = o.Clone()
	return nil
}
