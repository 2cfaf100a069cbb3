package storefrontserver

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/amushan/portal-storefront/internal/domains/cart/adapters/memory"
	cartapp "github.com/amushan/portal-storefront/internal/domains/cart/application"
	checkoutworkflows "github.com/amushan/portal-storefront/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/amushan/portal-storefront/internal/domains/checkout/application"
	checkoutdomain "github.com/amushan/portal-storefront/internal/domains/checkout/domain"
	checkoutports "github.com/amushan/portal-storefront/internal/domains/checkout/ports"
	sessionmemory "github.com/amushan/portal-storefront/internal/domains/session/adapters/memory"
)

type stubGateway struct {
	orderID string
	err     error
}

func (g *stubGateway) Submit(context.Context, checkoutdomain.OrderRequest) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.orderID, nil
}

type checkoutApp struct {
	router *gin.Engine
	state  *sessionmemory.StateStore
}

func newCheckoutApp(t *testing.T, gateway checkoutports.OrderGateway) checkoutApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	carts := cartapp.NewService(cartmemory.NewRepository())
	state := sessionmemory.NewStateStore()
	coordinator := checkoutapp.NewCoordinator(carts, gateway, checkoutapp.WithStateStore(state))

	router := NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{
		CartAPI:     NewCartAPI(carts, nil),
		CheckoutAPI: NewCheckoutAPI(checkoutworkflows.NewInlineCheckout(coordinator), coordinator),
		SessionAPI:  NewSessionAPI(state),
	})
	return checkoutApp{router: router, state: state}
}

func TestSubmitOrderConfirmsAndClearsCart(t *testing.T) {
	app := newCheckoutApp(t, &stubGateway{orderID: "ORD-1"})

	doJSON(t, app.router, http.MethodPost, "/v1/cart/items", "s1", gin.H{
		"product_id": "p1", "name": "Passport Renewal", "price": 3500,
	})

	recorder := doJSON(t, app.router, http.MethodPost, "/v1/checkout", "s1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var confirmation confirmationResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &confirmation))
	require.Equal(t, "ORD-1", confirmation.OrderID)

	recorder = doJSON(t, app.router, http.MethodGet, "/v1/cart", "s1", nil)
	require.True(t, decodeDisplay(t, recorder).Empty)

	recorder = doJSON(t, app.router, http.MethodGet, "/v1/session/last-order", "s1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var lastOrder lastOrderResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &lastOrder))
	require.Equal(t, "ORD-1", lastOrder.OrderID)
}

func TestSubmitOrderEmptyCartIs422(t *testing.T) {
	app := newCheckoutApp(t, &stubGateway{orderID: "ORD-1"})

	recorder := doJSON(t, app.router, http.MethodPost, "/v1/checkout", "s1", nil)
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestSubmitOrderRejectionIs409WithServerMessage(t *testing.T) {
	app := newCheckoutApp(t, &stubGateway{err: &checkoutports.Rejection{Message: "Out of stock", StatusCode: http.StatusConflict}})

	doJSON(t, app.router, http.MethodPost, "/v1/cart/items", "s1", gin.H{
		"product_id": "p1", "name": "A", "price": 100,
	})
	recorder := doJSON(t, app.router, http.MethodPost, "/v1/checkout", "s1", nil)
	require.Equal(t, http.StatusConflict, recorder.Code)
	require.Contains(t, recorder.Body.String(), "Out of stock")

	// The cart survives a failed submission.
	recorder = doJSON(t, app.router, http.MethodGet, "/v1/cart", "s1", nil)
	require.False(t, decodeDisplay(t, recorder).Empty)
}

func TestSubmitOrderTransportFailureIs502(t *testing.T) {
	app := newCheckoutApp(t, &stubGateway{err: checkoutports.ErrTransport})

	doJSON(t, app.router, http.MethodPost, "/v1/cart/items", "s1", gin.H{
		"product_id": "p1", "name": "A", "price": 100,
	})
	recorder := doJSON(t, app.router, http.MethodPost, "/v1/checkout", "s1", nil)
	require.Equal(t, http.StatusBadGateway, recorder.Code)
}

func TestGetCheckoutStateIdleByDefault(t *testing.T) {
	app := newCheckoutApp(t, &stubGateway{orderID: "ORD-1"})

	recorder := doJSON(t, app.router, http.MethodGet, "/v1/checkout/state", "s1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var state stateResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &state))
	require.Equal(t, "idle", state.State)
}

func TestLastOrderMissingIs404(t *testing.T) {
	app := newCheckoutApp(t, &stubGateway{orderID: "ORD-1"})

	recorder := doJSON(t, app.router, http.MethodGet, "/v1/session/last-order", "s1", nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestProfileRoundTrip(t *testing.T) {
	app := newCheckoutApp(t, &stubGateway{orderID: "ORD-1"})

	recorder := doJSON(t, app.router, http.MethodGet, "/v1/session/profile", "s1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var profile profilePayload
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &profile))
	require.False(t, profile.Complete)

	recorder = doJSON(t, app.router, http.MethodPut, "/v1/session/profile", "s1", gin.H{"complete": true})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, app.router, http.MethodGet, "/v1/session/profile", "s1", nil)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &profile))
	require.True(t, profile.Complete)
}

func TestCreateSessionMintsKey(t *testing.T) {
	app := newCheckoutApp(t, &stubGateway{orderID: "ORD-1"})

	recorder := doJSON(t, app.router, http.MethodPost, "/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var session sessionResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &session))
	require.NotEmpty(t, session.SessionKey)
}
