package storefrontserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/amushan/portal-storefront/internal/shared/errors"
)

// SessionKeyHeader carries the caller's session key on every cart,
// checkout, and session route.
const SessionKeyHeader = "X-Session-Key"

// Route defines the parameters for a single API endpoint.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// Routes is a collection of defined api endpoints.
type Routes []Route

// ApiHandleFunctions groups the handler implementations for the API sections.
type ApiHandleFunctions struct {
	CartAPI       CartAPI
	CheckoutAPI   CheckoutAPI
	SessionAPI    SessionAPI
	CatalogAPI    CatalogAPI
	EngagementAPI EngagementAPI
}

// NewRouter returns a new gin router with all routes attached.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine attaches the API routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = defaultHandler
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

func getRoutes(handleFunctions ApiHandleFunctions) Routes {
	return Routes{
		{"CreateSession", http.MethodPost, "/v1/sessions", handleFunctions.SessionAPI.CreateSession},
		{"GetLastOrder", http.MethodGet, "/v1/session/last-order", handleFunctions.SessionAPI.GetLastOrder},
		{"GetProfile", http.MethodGet, "/v1/session/profile", handleFunctions.SessionAPI.GetProfile},
		{"PutProfile", http.MethodPut, "/v1/session/profile", handleFunctions.SessionAPI.PutProfile},
		{"GetCart", http.MethodGet, "/v1/cart", handleFunctions.CartAPI.GetCart},
		{"AddCartItem", http.MethodPost, "/v1/cart/items", handleFunctions.CartAPI.AddItem},
		{"ChangeCartItemQuantity", http.MethodPatch, "/v1/cart/items/:productId", handleFunctions.CartAPI.ChangeQuantity},
		{"RemoveCartItem", http.MethodDelete, "/v1/cart/items/:productId", handleFunctions.CartAPI.RemoveItem},
		{"ClearCart", http.MethodDelete, "/v1/cart", handleFunctions.CartAPI.ClearCart},
		{"SubmitOrder", http.MethodPost, "/v1/checkout", handleFunctions.CheckoutAPI.SubmitOrder},
		{"GetCheckoutState", http.MethodGet, "/v1/checkout/state", handleFunctions.CheckoutAPI.GetState},
		{"ListProducts", http.MethodGet, "/v1/store/products", handleFunctions.CatalogAPI.ListProducts},
		{"ListCategories", http.MethodGet, "/v1/store/categories", handleFunctions.CatalogAPI.ListCategories},
		{"RecordEngagement", http.MethodPost, "/v1/engagement", handleFunctions.EngagementAPI.Record},
	}
}

func defaultHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{})
}

// sessionKey extracts the caller's session key or answers 400 when the
// header is missing.
func sessionKey(c *gin.Context) (string, bool) {
	key := strings.TrimSpace(c.GetHeader(SessionKeyHeader))
	if key == "" {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("missing "+SessionKeyHeader+" header"))
		return "", false
	}
	return key, true
}
