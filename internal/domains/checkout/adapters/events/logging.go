package events

import (
	"context"
	"log/slog"

	"github.com/amushan/portal-storefront/internal/domains/checkout/domain"
	"github.com/amushan/portal-storefront/internal/domains/checkout/ports"
)

var _ ports.EventListener = (*LogListener)(nil)

// LogListener records submission outcomes in the structured log. It is
// the default listener when no broker is configured.
type LogListener struct {
	logger *slog.Logger
}

func NewLogListener(logger *slog.Logger) *LogListener {
	return &LogListener{logger: logger}
}

func (l *LogListener) OrderConfirmed(ctx context.Context, event domain.OrderConfirmed) {
	if l.logger == nil {
		return
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "order confirmed",
		slog.String("session", event.SessionKey),
		slog.String("order.id", event.OrderID),
		slog.Int64("order.total", event.TotalAmount),
	)
}

func (l *LogListener) OrderFailed(ctx context.Context, event domain.OrderFailed) {
	if l.logger == nil {
		return
	}
	l.logger.LogAttrs(ctx, slog.LevelWarn, "order failed",
		slog.String("session", event.SessionKey),
		slog.String("reason", event.Message),
	)
}
