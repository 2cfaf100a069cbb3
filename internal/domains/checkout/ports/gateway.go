package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/amushan/portal-storefront/internal/domains/checkout/domain"
)

var (
	// ErrRejected signals the order API answered and declined the order.
	ErrRejected = errors.New("order rejected")
	// ErrTransport signals the order API could not be reached or returned
	// an unreadable response.
	ErrTransport = errors.New("order api transport failure")
)

// Rejection carries the order API's failure message and HTTP status. It
// unwraps to ErrRejected.
type Rejection struct {
	Message    string
	StatusCode int
}

func (r *Rejection) Error() string {
	if r.Message == "" {
		return fmt.Sprintf("order rejected (status %d)", r.StatusCode)
	}
	return fmt.Sprintf("order rejected: %s", r.Message)
}

func (r *Rejection) Unwrap() error { return ErrRejected }

// OrderGateway submits one order request and waits for a single response.
type OrderGateway interface {
	Submit(ctx context.Context, request domain.OrderRequest) (orderID string, err error)
}
