package ports

import (
	"context"

	"github.com/amushan/portal-storefront/internal/domains/cart/domain"
)

// AddItemInput carries the product details for a new cart line.
type AddItemInput struct {
	ProductID string
	Name      string
	UnitPrice int64
	ImageRef  string
}

// Service exposes the cart store use cases to adapters. Every mutation
// persists before returning; a persistence failure is reported as
// ErrStorage alongside the mutated in-memory cart.
type Service interface {
	Load(ctx context.Context, sessionKey string) (*domain.Cart, error)
	AddItem(ctx context.Context, sessionKey string, input AddItemInput) (*domain.Cart, error)
	ChangeQuantity(ctx context.Context, sessionKey, productID string, delta int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, sessionKey, productID string) (*domain.Cart, error)
	Clear(ctx context.Context, sessionKey string) (*domain.Cart, error)
}
