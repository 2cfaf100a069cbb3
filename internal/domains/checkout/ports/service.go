package ports

import (
	"context"

	"github.com/amushan/portal-storefront/internal/domains/checkout/domain"
)

// Service exposes the checkout use case to adapters.
type Service interface {
	Submit(ctx context.Context, sessionKey string) (*domain.Confirmation, error)
}

// Orchestrator runs a checkout either inline or through a durable
// workflow engine.
type Orchestrator interface {
	Checkout(ctx context.Context, sessionKey string) (*domain.Confirmation, error)
}
