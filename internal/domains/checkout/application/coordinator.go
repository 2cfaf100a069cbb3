package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	cartports "github.com/amushan/portal-storefront/internal/domains/cart/ports"
	"github.com/amushan/portal-storefront/internal/domains/checkout/domain"
	"github.com/amushan/portal-storefront/internal/domains/checkout/ports"
	sessionports "github.com/amushan/portal-storefront/internal/domains/session/ports"
)

// DefaultSubmitTimeout bounds how long a submission may stay in flight.
const DefaultSubmitTimeout = 10 * time.Second

// Coordinator owns the submit-order state machine: Idle -> Submitting ->
// {Confirmed, Failed}. One submission per session key may be in flight;
// a confirmed submission clears the cart, a failed one leaves it exactly
// as it was.
type Coordinator struct {
	carts    cartports.Service
	gateway  ports.OrderGateway
	listener ports.EventListener
	state    sessionports.StateStore
	logger   *slog.Logger
	timeout  time.Duration
	now      func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

type Option func(*Coordinator)

// WithEventListener wires the submission outcome listener.
func WithEventListener(listener ports.EventListener) Option {
	return func(c *Coordinator) {
		c.listener = listener
	}
}

// WithStateStore records the last confirmed order id for the follow-on
// payment screen.
func WithStateStore(store sessionports.StateStore) Option {
	return func(c *Coordinator) {
		c.state = store
	}
}

// WithSubmitTimeout overrides the bounded submission timeout.
func WithSubmitTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCoordinator wires the checkout coordinator with its collaborators.
func NewCoordinator(carts cartports.Service, gateway ports.OrderGateway, opts ...Option) *Coordinator {
	c := &Coordinator{
		carts:    carts,
		gateway:  gateway,
		timeout:  DefaultSubmitTimeout,
		now:      time.Now,
		inFlight: map[string]struct{}{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// State reports the current submission state for the session key. Only
// Idle and Submitting are observable from outside; Confirmed and Failed
// resolve back to Idle as the result is returned.
func (c *Coordinator) State(sessionKey string) domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.inFlight[sessionKey]; ok {
		return domain.StateSubmitting
	}
	return domain.StateIdle
}

// Submit snapshots the session cart, sends it to the order API once, and
// resolves the state machine. On confirmation the cart store is cleared
// and the cleared state persisted; on any failure the cart is untouched.
func (c *Coordinator) Submit(ctx context.Context, sessionKey string) (*domain.Confirmation, error) {
	if !c.begin(sessionKey) {
		return nil, fmt.Errorf("%w: session %s", ErrSubmissionInProgress, sessionKey)
	}
	defer c.end(sessionKey)

	cart, _ := c.carts.Load(ctx, sessionKey)
	request, err := domain.BuildOrderRequest(cart)
	if err != nil {
		return nil, err
	}

	submitCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	orderID, err := c.gateway.Submit(submitCtx, request)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", ErrSubmitTimeout, err)
		}
		c.notifyFailed(ctx, sessionKey, err)
		return nil, err
	}

	confirmation := &domain.Confirmation{OrderID: orderID, SubmittedAt: c.now().UTC()}
	// The order is accepted upstream; local bookkeeping failures must not
	// turn the confirmation into a failure.
	if _, err := c.carts.Clear(ctx, sessionKey); err != nil {
		c.logWarn(ctx, "cart clear failed after confirmed order",
			slog.String("session", sessionKey), slog.String("order.id", orderID), slog.String("error", err.Error()))
	}
	if c.state != nil {
		if err := c.state.SetLastOrder(ctx, sessionKey, orderID); err != nil {
			c.logWarn(ctx, "failed to record last order id",
				slog.String("session", sessionKey), slog.String("order.id", orderID), slog.String("error", err.Error()))
		}
	}
	if c.listener != nil {
		c.listener.OrderConfirmed(ctx, domain.OrderConfirmed{
			SessionKey:  sessionKey,
			OrderID:     orderID,
			TotalAmount: request.TotalAmount,
		})
	}
	return confirmation, nil
}

func (c *Coordinator) begin(sessionKey string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.inFlight[sessionKey]; ok {
		return false
	}
	c.inFlight[sessionKey] = struct{}{}
	return true
}

func (c *Coordinator) end(sessionKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, sessionKey)
}

func (c *Coordinator) notifyFailed(ctx context.Context, sessionKey string, err error) {
	if c.listener == nil {
		return
	}
	c.listener.OrderFailed(ctx, domain.OrderFailed{
		SessionKey: sessionKey,
		Message:    FailureMessage(err),
	})
}

func (c *Coordinator) logWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

// FailureMessage extracts the user-facing message for a failed
// submission: the order API's own words when it rejected the order,
// otherwise the error text.
func FailureMessage(err error) string {
	var rejection *ports.Rejection
	if errors.As(err, &rejection) && rejection.Message != "" {
		return rejection.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

var _ ports.Service = (*Coordinator)(nil)
