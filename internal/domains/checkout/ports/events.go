package ports

import (
	"context"

	"github.com/amushan/portal-storefront/internal/domains/checkout/domain"
)

// EventListener receives submission outcomes. Listeners must not block
// the coordinator; slow delivery belongs in the adapter.
type EventListener interface {
	OrderConfirmed(ctx context.Context, event domain.OrderConfirmed)
	OrderFailed(ctx context.Context, event domain.OrderFailed)
}

// Fanout delivers each event to every listener in order.
type Fanout []EventListener

func (f Fanout) OrderConfirmed(ctx context.Context, event domain.OrderConfirmed) {
	for _, l := range f {
		if l != nil {
			l.OrderConfirmed(ctx, event)
		}
	}
}

func (f Fanout) OrderFailed(ctx context.Context, event domain.OrderFailed) {
	for _, l := range f {
		if l != nil {
			l.OrderFailed(ctx, event)
		}
	}
}

var _ EventListener = (Fanout)(nil)
