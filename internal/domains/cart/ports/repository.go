package ports

import (
	"context"
	"errors"

	"github.com/amushan/portal-storefront/internal/domains/cart/domain"
)

var (
	// ErrNotFound signals no cart has been persisted under the session key.
	ErrNotFound = errors.New("cart not found")
	// ErrStorage signals the persisted-state layer failed; the in-memory
	// cart held by the caller stays authoritative.
	ErrStorage = errors.New("cart storage failure")
)

// Repository persists one cart per session key.
type Repository interface {
	Load(ctx context.Context, sessionKey string) (*domain.Cart, error)
	Save(ctx context.Context, sessionKey string, cart *domain.Cart) error
	Delete(ctx context.Context, sessionKey string) error
}
