package checkout

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/amushan/portal-storefront/internal/domains/checkout/domain"
	checkoutports "github.com/amushan/portal-storefront/internal/domains/checkout/ports"
)

const (
	// SubmitOrderActivityName builds the order from the session cart and submits it upstream.
	SubmitOrderActivityName = "checkout.activities.SubmitOrder"
)

// Activities groups activities operating on the checkout bounded context.
type Activities struct {
	service checkoutports.Service
}

// NewActivities wires the checkout coordinator into the Temporal activities bundle.
func NewActivities(service checkoutports.Service) *Activities {
	return &Activities{service: service}
}

// SubmitOrder runs a single end-to-end submission for the session cart.
func (a *Activities) SubmitOrder(ctx context.Context, sessionKey string) (*domain.Confirmation, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("submit order activity not initialized", "session", sessionKey)
		return nil, errors.New("submit order activity not initialized")
	}
	logger.Info("SubmitOrder activity started", "session", sessionKey)
	confirmation, err := a.service.Submit(ctx, sessionKey)
	if err != nil {
		logger.Error("SubmitOrder activity failed", "session", sessionKey, "error", err)
		return nil, err
	}
	logger.Info("SubmitOrder activity completed", "session", sessionKey, "orderId", confirmation.OrderID)
	return confirmation, nil
}
