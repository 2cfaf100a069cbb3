package application

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cartmemory "github.com/amushan/portal-storefront/internal/domains/cart/adapters/memory"
	cartapp "github.com/amushan/portal-storefront/internal/domains/cart/application"
	cartports "github.com/amushan/portal-storefront/internal/domains/cart/ports"
	"github.com/amushan/portal-storefront/internal/domains/checkout/domain"
	"github.com/amushan/portal-storefront/internal/domains/checkout/ports"
)

type fakeGateway struct {
	mu       sync.Mutex
	requests []domain.OrderRequest
	orderID  string
	err      error
	block    chan struct{}
}

func (f *fakeGateway) Submit(ctx context.Context, request domain.OrderRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, request)
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.orderID, nil
}

func (f *fakeGateway) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type capturedEvents struct {
	mu        sync.Mutex
	confirmed []domain.OrderConfirmed
	failed    []domain.OrderFailed
}

func (c *capturedEvents) OrderConfirmed(_ context.Context, event domain.OrderConfirmed) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmed = append(c.confirmed, event)
}

func (c *capturedEvents) OrderFailed(_ context.Context, event domain.OrderFailed) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed = append(c.failed, event)
}

func newCartService(t *testing.T) cartports.Service {
	t.Helper()
	return cartapp.NewService(cartmemory.NewRepository())
}

func seedWidgetCart(t *testing.T, carts cartports.Service, sessionKey string) {
	t.Helper()
	ctx := context.Background()
	_, err := carts.AddItem(ctx, sessionKey, cartports.AddItemInput{ProductID: "p1", Name: "Widget", UnitPrice: 1000, ImageRef: "widget.jpg"})
	require.NoError(t, err)
	_, err = carts.ChangeQuantity(ctx, sessionKey, "p1", 1)
	require.NoError(t, err)
}

func serializedCart(t *testing.T, carts cartports.Service, sessionKey string) []byte {
	t.Helper()
	cart, err := carts.Load(context.Background(), sessionKey)
	require.NoError(t, err)
	raw, err := json.Marshal(cart.Items())
	require.NoError(t, err)
	return raw
}

func TestSubmit_EmptyCartFailsWithoutNetworkCall(t *testing.T) {
	carts := newCartService(t)
	gateway := &fakeGateway{orderID: "O1"}
	coordinator := NewCoordinator(carts, gateway)

	_, err := coordinator.Submit(context.Background(), "s1")
	require.ErrorIs(t, err, domain.ErrEmptyCart)
	require.Zero(t, gateway.calls())
}

func TestSubmit_SuccessClearsCartAndEmitsConfirmed(t *testing.T) {
	carts := newCartService(t)
	seedWidgetCart(t, carts, "s1")

	gateway := &fakeGateway{orderID: "O123"}
	events := &capturedEvents{}
	coordinator := NewCoordinator(carts, gateway, WithEventListener(events))

	confirmation, err := coordinator.Submit(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, "O123", confirmation.OrderID)

	// The snapshot matches the cart with the total recomputed at build time.
	require.Equal(t, 1, gateway.calls())
	request := gateway.requests[0]
	require.Equal(t, []domain.OrderLine{{ProductID: "p1", Name: "Widget", UnitPrice: 1000, Quantity: 2}}, request.Lines)
	require.Equal(t, int64(2000), request.TotalAmount)
	require.Equal(t, domain.PaymentCashOnDelivery, request.PaymentMethod)

	// The cleared state is what gets persisted.
	cart, err := carts.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.True(t, cart.IsEmpty())

	require.Len(t, events.confirmed, 1)
	require.Equal(t, domain.OrderConfirmed{SessionKey: "s1", OrderID: "O123", TotalAmount: 2000}, events.confirmed[0])
	require.Empty(t, events.failed)
}

func TestSubmit_RejectionLeavesCartIdenticalAndEmitsFailed(t *testing.T) {
	carts := newCartService(t)
	seedWidgetCart(t, carts, "s1")
	before := serializedCart(t, carts, "s1")

	gateway := &fakeGateway{err: &ports.Rejection{Message: "Out of stock", StatusCode: 409}}
	events := &capturedEvents{}
	coordinator := NewCoordinator(carts, gateway, WithEventListener(events))

	_, err := coordinator.Submit(context.Background(), "s1")
	require.ErrorIs(t, err, ports.ErrRejected)

	require.Equal(t, before, serializedCart(t, carts, "s1"))
	require.Len(t, events.failed, 1)
	require.Equal(t, domain.OrderFailed{SessionKey: "s1", Message: "Out of stock"}, events.failed[0])
	require.Empty(t, events.confirmed)
}

func TestSubmit_TransportFailureLeavesCartUntouched(t *testing.T) {
	carts := newCartService(t)
	seedWidgetCart(t, carts, "s1")
	before := serializedCart(t, carts, "s1")

	gateway := &fakeGateway{err: ports.ErrTransport}
	coordinator := NewCoordinator(carts, gateway)

	_, err := coordinator.Submit(context.Background(), "s1")
	require.ErrorIs(t, err, ports.ErrTransport)
	require.Equal(t, before, serializedCart(t, carts, "s1"))
}

func TestSubmit_TimeoutMapsToSubmitTimeout(t *testing.T) {
	carts := newCartService(t)
	seedWidgetCart(t, carts, "s1")

	gateway := &fakeGateway{block: make(chan struct{})}
	events := &capturedEvents{}
	coordinator := NewCoordinator(carts, gateway,
		WithEventListener(events),
		WithSubmitTimeout(20*time.Millisecond),
	)

	_, err := coordinator.Submit(context.Background(), "s1")
	require.ErrorIs(t, err, ErrSubmitTimeout)

	cart, loadErr := carts.Load(context.Background(), "s1")
	require.NoError(t, loadErr)
	require.False(t, cart.IsEmpty())
	require.Len(t, events.failed, 1)
}

func TestSubmit_SecondSubmissionRejectedWithoutSecondRequest(t *testing.T) {
	carts := newCartService(t)
	seedWidgetCart(t, carts, "s1")

	release := make(chan struct{})
	gateway := &fakeGateway{orderID: "O123", block: release}
	coordinator := NewCoordinator(carts, gateway)

	firstDone := make(chan error, 1)
	go func() {
		_, err := coordinator.Submit(context.Background(), "s1")
		firstDone <- err
	}()

	require.Eventually(t, func() bool {
		return coordinator.State("s1") == domain.StateSubmitting
	}, time.Second, time.Millisecond)

	_, err := coordinator.Submit(context.Background(), "s1")
	require.ErrorIs(t, err, ErrSubmissionInProgress)

	close(release)
	require.NoError(t, <-firstDone)
	require.Equal(t, 1, gateway.calls())
	require.Equal(t, domain.StateIdle, coordinator.State("s1"))
}

func TestSubmit_DifferentSessionsDoNotBlockEachOther(t *testing.T) {
	carts := newCartService(t)
	seedWidgetCart(t, carts, "s1")
	seedWidgetCart(t, carts, "s2")

	release := make(chan struct{})
	blocked := &fakeGateway{orderID: "O1", block: release}
	coordinator := NewCoordinator(carts, blocked)

	done := make(chan error, 1)
	go func() {
		_, err := coordinator.Submit(context.Background(), "s1")
		done <- err
	}()
	require.Eventually(t, func() bool {
		return coordinator.State("s1") == domain.StateSubmitting
	}, time.Second, time.Millisecond)

	require.Equal(t, domain.StateIdle, coordinator.State("s2"))

	close(release)
	require.NoError(t, <-done)
}

func TestSubmit_RetryAfterFailureSucceeds(t *testing.T) {
	carts := newCartService(t)
	seedWidgetCart(t, carts, "s1")

	gateway := &fakeGateway{err: &ports.Rejection{Message: "Out of stock", StatusCode: 409}}
	coordinator := NewCoordinator(carts, gateway)

	_, err := coordinator.Submit(context.Background(), "s1")
	require.ErrorIs(t, err, ports.ErrRejected)

	gateway.err = nil
	gateway.orderID = "O124"
	confirmation, err := coordinator.Submit(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, "O124", confirmation.OrderID)
	require.Equal(t, 2, gateway.calls())
}

func TestFailureMessage_PrefersRejectionBody(t *testing.T) {
	require.Equal(t, "Out of stock", FailureMessage(&ports.Rejection{Message: "Out of stock"}))
	require.Equal(t, "order api transport failure", FailureMessage(ports.ErrTransport))
	require.Empty(t, FailureMessage(nil))
}
