package storefrontserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	checkoutdomain "github.com/amushan/portal-storefront/internal/domains/checkout/domain"
	checkoutports "github.com/amushan/portal-storefront/internal/domains/checkout/ports"
)

// StateReporter answers the current submission state for a session.
type StateReporter interface {
	State(sessionKey string) checkoutdomain.State
}

// CheckoutAPI wires HTTP transport with the checkout bounded context.
type CheckoutAPI struct {
	orchestrator checkoutports.Orchestrator
	states       StateReporter
}

// NewCheckoutAPI creates a CheckoutAPI backed by the provided orchestrator.
func NewCheckoutAPI(orchestrator checkoutports.Orchestrator, states StateReporter) CheckoutAPI {
	return CheckoutAPI{orchestrator: orchestrator, states: states}
}

type confirmationResponse struct {
	OrderID     string    `json:"order_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type stateResponse struct {
	State string `json:"state"`
}

// Post /v1/checkout
// Submit the session cart as an order
func (api *CheckoutAPI) SubmitOrder(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}
	confirmation, err := api.orchestrator.Checkout(c.Request.Context(), key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, confirmationResponse{
		OrderID:     confirmation.OrderID,
		SubmittedAt: confirmation.SubmittedAt,
	})
}

// Get /v1/checkout/state
// Report the submission state for the session
func (api *CheckoutAPI) GetState(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}
	state := checkoutdomain.StateIdle
	if api.states != nil {
		state = api.states.State(key)
	}
	c.JSON(http.StatusOK, stateResponse{State: string(state)})
}
