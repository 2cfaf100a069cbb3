package engagement

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const recordPath = "/api/engagement"

// Event is one recorded interaction with the portal.
type Event struct {
	UserID          string `json:"user_id"`
	QuestionClicked string `json:"question_clicked"`
	Service         string `json:"service,omitempty"`
}

// Client pushes engagement events to the analytics backend. Recording is
// fire-and-forget; a lost event never blocks the journey that produced it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient instantiates the engagement client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("engagement base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: logger}, nil
}

// Record posts one event. Failures are logged at debug level and
// swallowed.
func (c *Client) Record(ctx context.Context, event Event) {
	if c == nil || c.httpClient == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		c.logger.DebugContext(ctx, "engagement event not encodable", "error", err)
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+recordPath, bytes.NewReader(body))
	if err != nil {
		c.logger.DebugContext(ctx, "engagement request not buildable", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "engagement event dropped", "error", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.DebugContext(ctx, "engagement event rejected", "status", resp.StatusCode)
	}
}
