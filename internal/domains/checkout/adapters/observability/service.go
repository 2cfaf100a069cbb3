package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/amushan/portal-storefront/internal/domains/checkout/domain"
	"github.com/amushan/portal-storefront/internal/domains/checkout/ports"
)

const tracerName = "github.com/amushan/portal-storefront/internal/domains/checkout/adapters/observability/service"

// Service decorates the checkout coordinator with tracing, logging, and metrics.
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

// New wires a decorator around the checkout coordinator.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Submit runs the checkout submission with instrumentation.
func (s *Service) Submit(ctx context.Context, sessionKey string) (*domain.Confirmation, error) {
	ctx, span := s.tracer.Start(ctx, "Checkout.Submit",
		trace.WithAttributes(attribute.String("checkout.session", sessionKey)))
	defer span.End()

	start := time.Now()
	s.logger.LogAttrs(ctx, slog.LevelInfo, "submitting order", slog.String("session", sessionKey))
	confirmation, err := s.inner.Submit(ctx, sessionKey)
	s.metrics.recordDuration(ctx, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.recordFailed(ctx)
		s.logger.LogAttrs(ctx, slog.LevelError, "order submission failed",
			slog.String("session", sessionKey), slog.String("error", err.Error()))
		return nil, err
	}
	span.SetAttributes(attribute.String("checkout.order_id", confirmation.OrderID))
	s.metrics.recordConfirmed(ctx)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order confirmed",
		slog.String("session", sessionKey), slog.String("order.id", confirmation.OrderID))
	return confirmation, nil
}

type serviceMetrics struct {
	confirmed metric.Int64Counter
	failed    metric.Int64Counter
	duration  metric.Float64Histogram
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	confirmed, _ := m.Int64Counter("checkout.service.confirmed", metric.WithDescription("Number of confirmed order submissions"))
	failed, _ := m.Int64Counter("checkout.service.failed", metric.WithDescription("Number of failed order submissions"))
	duration, _ := m.Float64Histogram("checkout.service.duration_seconds", metric.WithDescription("Submission round-trip duration"))
	return serviceMetrics{confirmed: confirmed, failed: failed, duration: duration}
}

func (m serviceMetrics) recordConfirmed(ctx context.Context) {
	if m.confirmed != nil {
		m.confirmed.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordFailed(ctx context.Context) {
	if m.failed != nil {
		m.failed.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDuration(ctx context.Context, d time.Duration) {
	if m.duration != nil {
		m.duration.Record(ctx, d.Seconds())
	}
}

var _ ports.Service = (*Service)(nil)
