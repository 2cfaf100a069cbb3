package storefrontserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amushan/portal-storefront/internal/clients/http/catalog"
)

// CatalogSource lists catalog products and categories.
type CatalogSource interface {
	Products(ctx context.Context, query catalog.ProductQuery) ([]catalog.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// CatalogAPI relays catalog reads to the upstream catalog API.
type CatalogAPI struct {
	source CatalogSource
}

// NewCatalogAPI creates a CatalogAPI backed by the provided source.
func NewCatalogAPI(source CatalogSource) CatalogAPI {
	return CatalogAPI{source: source}
}

// Get /v1/store/products
// List catalog products
func (api *CatalogAPI) ListProducts(c *gin.Context) {
	query := catalog.ProductQuery{
		Category: c.Query("category"),
		Delivery: c.Query("delivery"),
		MinPrice: priceBound(c.Query("min_price")),
		MaxPrice: priceBound(c.Query("max_price")),
		Sort:     c.Query("sort"),
	}
	products, err := api.source.Products(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Get /v1/store/categories
// List catalog categories
func (api *CatalogAPI) ListCategories(c *gin.Context) {
	categories, err := api.source.Categories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// priceBound parses a price filter, dropping values that are not whole
// rupee amounts rather than failing the listing.
func priceBound(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &value
}
