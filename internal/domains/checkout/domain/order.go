package domain

import (
	"errors"
	"time"

	cartdomain "github.com/amushan/portal-storefront/internal/domains/cart/domain"
)

// State enumerates the submission state machine. Failed returns to Idle
// so the same cart can be retried; Confirmed ends the cart instance.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateConfirmed  State = "confirmed"
	StateFailed     State = "failed"
)

// PaymentCashOnDelivery is the only payment tag the order API accepts today.
const PaymentCashOnDelivery = "cod"

// ErrEmptyCart signals a submission attempted with no cart lines.
var ErrEmptyCart = errors.New("cart is empty")

// OrderLine is one line of an order request.
type OrderLine struct {
	ProductID string
	Name      string
	UnitPrice int64
	Quantity  int
}

// OrderRequest is the atomic snapshot submitted to the order API. The
// total is recomputed from the snapshot lines at build time, never taken
// from a cached value.
type OrderRequest struct {
	Lines         []OrderLine
	TotalAmount   int64
	PaymentMethod string
}

// BuildOrderRequest snapshots a cart into an order request.
func BuildOrderRequest(cart *cartdomain.Cart) (OrderRequest, error) {
	if cart == nil || cart.IsEmpty() {
		return OrderRequest{}, ErrEmptyCart
	}
	items := cart.Items()
	request := OrderRequest{
		Lines:         make([]OrderLine, 0, len(items)),
		PaymentMethod: PaymentCashOnDelivery,
	}
	for _, item := range items {
		request.Lines = append(request.Lines, OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
		request.TotalAmount += item.UnitPrice * int64(item.Quantity)
	}
	return request, nil
}

// Confirmation records a successful submission.
type Confirmation struct {
	OrderID     string
	SubmittedAt time.Time
}

// OrderConfirmed is emitted once per confirmed submission so the
// surrounding layer can redirect or show a confirmation view.
type OrderConfirmed struct {
	SessionKey  string
	OrderID     string
	TotalAmount int64
}

// OrderFailed is emitted when a submission does not confirm; the cart is
// left untouched for retry.
type OrderFailed struct {
	SessionKey string
	Message    string
}
