package ports

import (
	"context"
	"errors"
)

// ErrNotFound signals no state has been recorded for the session key.
var ErrNotFound = errors.New("session state not found")

// StateStore keeps the small per-session client state that outlives a
// single page: the profile-completion flag and the most recent confirmed
// order id consumed by the payment screen.
type StateStore interface {
	SetLastOrder(ctx context.Context, sessionKey, orderID string) error
	LastOrder(ctx context.Context, sessionKey string) (string, error)
	SetProfileComplete(ctx context.Context, sessionKey string, complete bool) error
	ProfileComplete(ctx context.Context, sessionKey string) (bool, error)
}
