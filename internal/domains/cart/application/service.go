package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amushan/portal-storefront/internal/domains/cart/domain"
	"github.com/amushan/portal-storefront/internal/domains/cart/ports"
)

// Service orchestrates the cart store use cases.
type Service struct {
	repo   ports.Repository
	logger *slog.Logger
}

// Option configures the cart service.
type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService wires the cart service with its repository.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores the session cart from storage. Missing or unreadable
// state degrades to an empty cart rather than blocking the caller.
func (s *Service) Load(ctx context.Context, sessionKey string) (*domain.Cart, error) {
	cart, err := s.repo.Load(ctx, sessionKey)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.logWarn(ctx, "cart load degraded to empty cart",
				slog.String("session", sessionKey), slog.String("error", err.Error()))
		}
		return domain.NewCart(), nil
	}
	if cart == nil {
		return domain.NewCart(), nil
	}
	return cart, nil
}

// AddItem merges the product into the cart and persists the result.
func (s *Service) AddItem(ctx context.Context, sessionKey string, input ports.AddItemInput) (*domain.Cart, error) {
	cart, _ := s.Load(ctx, sessionKey)
	if err := cart.Add(input.ProductID, input.Name, input.UnitPrice, input.ImageRef); err != nil {
		return cart, mapError(err)
	}
	return cart, s.persist(ctx, sessionKey, cart)
}

// ChangeQuantity applies a quantity delta; a resulting quantity of zero
// or below removes the line. An absent product id is a no-op plus persist.
func (s *Service) ChangeQuantity(ctx context.Context, sessionKey, productID string, delta int) (*domain.Cart, error) {
	cart, _ := s.Load(ctx, sessionKey)
	cart.ChangeQuantity(productID, delta)
	return cart, s.persist(ctx, sessionKey, cart)
}

// RemoveItem drops the line unconditionally when present.
func (s *Service) RemoveItem(ctx context.Context, sessionKey, productID string) (*domain.Cart, error) {
	cart, _ := s.Load(ctx, sessionKey)
	cart.Remove(productID)
	return cart, s.persist(ctx, sessionKey, cart)
}

// Clear empties the cart and persists the empty state.
func (s *Service) Clear(ctx context.Context, sessionKey string) (*domain.Cart, error) {
	cart := domain.NewCart()
	return cart, s.persist(ctx, sessionKey, cart)
}

func (s *Service) persist(ctx context.Context, sessionKey string, cart *domain.Cart) error {
	if err := s.repo.Save(ctx, sessionKey, cart); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *Service) logWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

var _ ports.Service = (*Service)(nil)
