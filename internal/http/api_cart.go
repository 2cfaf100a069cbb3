package storefrontserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amushan/portal-storefront/internal/clients/http/catalog"
	cartapp "github.com/amushan/portal-storefront/internal/domains/cart/application"
	cartports "github.com/amushan/portal-storefront/internal/domains/cart/ports"
	apierrors "github.com/amushan/portal-storefront/internal/shared/errors"
)

// ProductSource resolves a product id to its catalog entry. Used when an
// add-to-cart request carries only the product id.
type ProductSource interface {
	Product(ctx context.Context, productID string) (*catalog.Product, error)
}

// CartAPI wires HTTP transport with the cart bounded context service.
type CartAPI struct {
	service  cartports.Service
	products ProductSource
}

// NewCartAPI creates a CartAPI backed by the provided service. products
// may be nil; by-id adds then require the full payload.
func NewCartAPI(service cartports.Service, products ProductSource) CartAPI {
	return CartAPI{service: service, products: products}
}

type addItemPayload struct {
	ProductID string `json:"product_id" binding:"required"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
}

type changeQuantityPayload struct {
	Delta int `json:"delta"`
}

// Get /v1/cart
// Render the session cart
func (api *CartAPI) GetCart(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}
	cart, err := api.service.Load(c.Request.Context(), key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartapp.Render(cart))
}

// Post /v1/cart/items
// Add an item to the session cart
func (api *CartAPI) AddItem(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}
	var payload addItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	input := cartports.AddItemInput{
		ProductID: payload.ProductID,
		Name:      payload.Name,
		UnitPrice: payload.Price,
		ImageRef:  payload.Image,
	}
	if payload.Name == "" {
		resolved, ok := api.resolveProduct(c, payload.ProductID)
		if !ok {
			return
		}
		input.Name = resolved.Name
		input.UnitPrice = resolved.Price
		input.ImageRef = resolved.Image
	}
	cart, err := api.service.AddItem(c.Request.Context(), key, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartapp.Render(cart))
}

// Patch /v1/cart/items/:productId
// Apply a quantity delta to one cart line
func (api *CartAPI) ChangeQuantity(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}
	var payload changeQuantityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	cart, err := api.service.ChangeQuantity(c.Request.Context(), key, c.Param("productId"), payload.Delta)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartapp.Render(cart))
}

// Delete /v1/cart/items/:productId
// Remove one cart line
func (api *CartAPI) RemoveItem(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}
	cart, err := api.service.RemoveItem(c.Request.Context(), key, c.Param("productId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartapp.Render(cart))
}

// Delete /v1/cart
// Empty the session cart
func (api *CartAPI) ClearCart(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}
	cart, err := api.service.Clear(c.Request.Context(), key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartapp.Render(cart))
}

func (api *CartAPI) resolveProduct(c *gin.Context, productID string) (*catalog.Product, bool) {
	if api.products == nil {
		apierrors.Respond(c, apierrors.NewValidationProblem(map[string]string{
			"name":  "required when no catalog source is configured",
			"price": "required when no catalog source is configured",
		}))
		return nil, false
	}
	product, err := api.products.Product(c.Request.Context(), productID)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	if product == nil {
		apierrors.Respond(c, apierrors.NewNotFoundProblem("product", productID))
		return nil, false
	}
	return product, true
}
