package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	checkoutdomain "github.com/amushan/portal-storefront/internal/domains/checkout/domain"
	checkoutports "github.com/amushan/portal-storefront/internal/domains/checkout/ports"
)

const submitPath = "/api/store/order"

// Client submits orders to the upstream order API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient instantiates the order API client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("order API base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

type orderItemPayload struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

type orderPayload struct {
	Items         []orderItemPayload `json:"items"`
	TotalAmount   int64              `json:"total_amount"`
	PaymentMethod string             `json:"payment_method"`
}

type orderResponse struct {
	OrderID string `json:"order_id"`
	Error   string `json:"error"`
}

// Submit posts the order and returns the upstream order id. A non-2xx
// response with a readable body maps to a Rejection; connection and
// decoding failures map to ErrTransport.
func (c *Client) Submit(ctx context.Context, request checkoutdomain.OrderRequest) (string, error) {
	if c == nil || c.httpClient == nil {
		return "", errors.New("order API client not configured")
	}
	payload := orderPayload{
		Items:         make([]orderItemPayload, 0, len(request.Lines)),
		TotalAmount:   request.TotalAmount,
		PaymentMethod: request.PaymentMethod,
	}
	for _, line := range request.Lines {
		payload.Items = append(payload.Items, orderItemPayload{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: encode order: %w", checkoutports.ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+submitPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", checkoutports.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", checkoutports.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", checkoutports.ErrTransport, err)
	}

	var decoded orderResponse
	if len(raw) > 0 {
		// A malformed body on a success status is still a transport
		// failure; on an error status the status alone is enough.
		if err := json.Unmarshal(raw, &decoded); err != nil && resp.StatusCode < http.StatusBadRequest {
			return "", fmt.Errorf("%w: decode response: %w", checkoutports.ErrTransport, err)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return "", &checkoutports.Rejection{Message: decoded.Error, StatusCode: resp.StatusCode}
	}
	if decoded.Error != "" {
		return "", &checkoutports.Rejection{Message: decoded.Error, StatusCode: resp.StatusCode}
	}
	if decoded.OrderID == "" {
		return "", fmt.Errorf("%w: response missing order_id", checkoutports.ErrTransport)
	}
	return decoded.OrderID, nil
}

var _ checkoutports.OrderGateway = (*Client)(nil)
