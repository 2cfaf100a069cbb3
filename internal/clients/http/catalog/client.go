package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	productsPath   = "/api/store/products"
	categoriesPath = "/api/store/categories"
)

// ErrUpstream signals the catalog API could not serve the request.
var ErrUpstream = errors.New("catalog api failure")

// Product is one sellable catalog entry.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	Category string `json:"category"`
}

// ProductQuery narrows the product listing. Price bounds are pointers so
// a zero rupee bound still reaches the upstream.
type ProductQuery struct {
	Category string
	Delivery string
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

// Client reads products and categories from the catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient instantiates the catalog client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalog base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

// Products lists catalog products matching the query. The upstream has
// shipped both a bare JSON array and a {"products": []} wrapper, so both
// shapes decode.
func (c *Client) Products(ctx context.Context, query ProductQuery) ([]Product, error) {
	values := url.Values{}
	if category := strings.TrimSpace(query.Category); category != "" {
		values.Set("category", category)
	}
	if delivery := strings.TrimSpace(query.Delivery); delivery != "" {
		values.Set("delivery", delivery)
	}
	if query.MinPrice != nil {
		values.Set("min_price", strconv.FormatInt(*query.MinPrice, 10))
	}
	if query.MaxPrice != nil {
		values.Set("max_price", strconv.FormatInt(*query.MaxPrice, 10))
	}
	if sortBy := strings.TrimSpace(query.Sort); sortBy != "" {
		values.Set("sort", sortBy)
	}
	raw, err := c.get(ctx, productsPath, values)
	if err != nil {
		return nil, err
	}

	var products []Product
	if err := json.Unmarshal(raw, &products); err == nil {
		return products, nil
	}
	var wrapped struct {
		Products []Product `json:"products"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: decode products: %w", ErrUpstream, err)
	}
	return wrapped.Products, nil
}

// Product fetches one product by id, or nil when the catalog does not
// list it.
func (c *Client) Product(ctx context.Context, productID string) (*Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, errors.New("product id is required")
	}
	products, err := c.Products(ctx, ProductQuery{})
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == productID {
			return &products[i], nil
		}
	}
	return nil, nil
}

// Categories lists the catalog category names.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	raw, err := c.get(ctx, categoriesPath, nil)
	if err != nil {
		return nil, err
	}
	var wrapped struct {
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: decode categories: %w", ErrUpstream, err)
	}
	return wrapped.Categories, nil
}

func (c *Client) get(ctx context.Context, path string, values url.Values) ([]byte, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("catalog client not configured")
	}
	target := c.baseURL + path
	if len(values) > 0 {
		target += "?" + values.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrUpstream, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrUpstream, resp.Status)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrUpstream, err)
	}
	return raw, nil
}
