package memory

import (
	"context"
	"sync"

	"github.com/amushan/portal-storefront/internal/domains/cart/domain"
	"github.com/amushan/portal-storefront/internal/domains/cart/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory cart persistence adapter for development
// and tests.
type Repository struct {
	mu    sync.RWMutex
	carts map[string][]domain.Item
}

func NewRepository() *Repository {
	return &Repository{carts: map[string][]domain.Item{}}
}

func (r *Repository) Load(_ context.Context, sessionKey string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items, ok := r.carts[sessionKey]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return domain.FromItems(items), nil
}

func (r *Repository) Save(_ context.Context, sessionKey string, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart == nil {
		r.carts[sessionKey] = nil
		return nil
	}
	r.carts[sessionKey] = cart.Items()
	return nil
}

func (r *Repository) Delete(_ context.Context, sessionKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionKey)
	return nil
}
