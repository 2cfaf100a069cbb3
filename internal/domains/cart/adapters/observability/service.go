package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/amushan/portal-storefront/internal/domains/cart/domain"
	"github.com/amushan/portal-storefront/internal/domains/cart/ports"
)

const tracerName = "github.com/amushan/portal-storefront/internal/domains/cart/adapters/observability/service"

// Service decorates the cart application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core cart service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// Load restores the session cart.
func (s *Service) Load(ctx context.Context, sessionKey string) (*domain.Cart, error) {
	ctx, span := s.startSpan(ctx, "Cart.Load", attribute.String("cart.session", sessionKey))
	defer span.End()

	cart, err := s.inner.Load(ctx, sessionKey)
	if err != nil {
		return cart, s.handleError(ctx, span, err, "failed to load cart", slog.String("cart.session", sessionKey))
	}
	if cart != nil {
		span.SetAttributes(attribute.Int("cart.lines", cart.Len()))
	}
	return cart, nil
}

// AddItem merges the product into the cart.
func (s *Service) AddItem(ctx context.Context, sessionKey string, input ports.AddItemInput) (*domain.Cart, error) {
	ctx, span := s.startSpan(ctx, "Cart.AddItem",
		attribute.String("cart.session", sessionKey),
		attribute.String("cart.product_id", input.ProductID),
	)
	defer span.End()

	s.logInfo(ctx, "adding cart item", slog.String("cart.session", sessionKey), slog.String("product.id", input.ProductID))
	cart, err := s.inner.AddItem(ctx, sessionKey, input)
	if err != nil {
		return cart, s.handleError(ctx, span, err, "failed to add cart item", slog.String("product.id", input.ProductID))
	}
	s.metrics.recordItemAdded(ctx)
	if cart != nil {
		s.logInfo(ctx, "cart item added", slog.String("product.id", input.ProductID), slog.Int("cart.lines", cart.Len()))
	}
	return cart, nil
}

// ChangeQuantity applies a quantity delta to a cart line.
func (s *Service) ChangeQuantity(ctx context.Context, sessionKey, productID string, delta int) (*domain.Cart, error) {
	ctx, span := s.startSpan(ctx, "Cart.ChangeQuantity",
		attribute.String("cart.session", sessionKey),
		attribute.String("cart.product_id", productID),
		attribute.Int("cart.delta", delta),
	)
	defer span.End()

	cart, err := s.inner.ChangeQuantity(ctx, sessionKey, productID, delta)
	if err != nil {
		return cart, s.handleError(ctx, span, err, "failed to change quantity", slog.String("product.id", productID))
	}
	s.logInfo(ctx, "cart quantity changed", slog.String("product.id", productID), slog.Int("delta", delta))
	return cart, nil
}

// RemoveItem drops a cart line.
func (s *Service) RemoveItem(ctx context.Context, sessionKey, productID string) (*domain.Cart, error) {
	ctx, span := s.startSpan(ctx, "Cart.RemoveItem",
		attribute.String("cart.session", sessionKey),
		attribute.String("cart.product_id", productID),
	)
	defer span.End()

	cart, err := s.inner.RemoveItem(ctx, sessionKey, productID)
	if err != nil {
		return cart, s.handleError(ctx, span, err, "failed to remove cart item", slog.String("product.id", productID))
	}
	s.metrics.recordItemRemoved(ctx)
	s.logInfo(ctx, "cart item removed", slog.String("product.id", productID))
	return cart, nil
}

// Clear empties the session cart.
func (s *Service) Clear(ctx context.Context, sessionKey string) (*domain.Cart, error) {
	ctx, span := s.startSpan(ctx, "Cart.Clear", attribute.String("cart.session", sessionKey))
	defer span.End()

	cart, err := s.inner.Clear(ctx, sessionKey)
	if err != nil {
		return cart, s.handleError(ctx, span, err, "failed to clear cart", slog.String("cart.session", sessionKey))
	}
	s.metrics.recordCleared(ctx)
	s.logInfo(ctx, "cart cleared", slog.String("cart.session", sessionKey))
	return cart, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	itemsAdded   metric.Int64Counter
	itemsRemoved metric.Int64Counter
	cartsCleared metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	itemsAdded, _ := m.Int64Counter("cart.service.items_added", metric.WithDescription("Number of cart lines added or merged"))
	itemsRemoved, _ := m.Int64Counter("cart.service.items_removed", metric.WithDescription("Number of cart lines removed"))
	cartsCleared, _ := m.Int64Counter("cart.service.cleared", metric.WithDescription("Number of carts cleared"))
	return serviceMetrics{
		itemsAdded:   itemsAdded,
		itemsRemoved: itemsRemoved,
		cartsCleared: cartsCleared,
	}
}

func (m serviceMetrics) recordItemAdded(ctx context.Context) {
	if m.itemsAdded != nil {
		m.itemsAdded.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordItemRemoved(ctx context.Context) {
	if m.itemsRemoved != nil {
		m.itemsRemoved.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordCleared(ctx context.Context) {
	if m.cartsCleared != nil {
		m.cartsCleared.Add(ctx, 1)
	}
}
