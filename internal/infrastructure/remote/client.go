// Package remote implements the account-cart channel over the storefront
// REST API. Every request is bounded by a fixed timeout; callers treat an
// exceeded deadline as a failed best-effort sync. Retries, if any, belong to
// the request transport, not here.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/client"
)

// maxResponseSize caps account cart API responses (1MB)
const maxResponseSize = 1 << 20

// ErrUnauthenticated indicates the session token was missing or rejected
var ErrUnauthenticated = errors.New("remote cart: session not authenticated")

// TokenProvider supplies the current session bearer token. It is consulted
// per request so a refreshed token is picked up without rebuilding the client.
type TokenProvider func() string

// Client talks to the server-held account cart
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenProvider
}

// Config holds remote channel settings
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a remote cart client
func NewClient(cfg Config, token TokenProvider) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("remote cart: base URL cannot be empty")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("remote cart: invalid base URL: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
	}, nil
}

// wireItem is the over-the-wire account cart record. Older records key the
// product by product_id instead of item_id; normalization prefers the
// primary field and falls back to the legacy one.
type wireItem struct {
	ItemID    string          `json:"item_id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	ImageRef  string          `json:"image_ref"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func (w wireItem) normalize() client.RemoteLineItem {
	id := w.ItemID
	if id == "" {
		id = w.ProductID
	}
	return client.RemoteLineItem{
		ItemID:    id,
		Name:      w.Name,
		ImageRef:  w.ImageRef,
		UnitPrice: w.UnitPrice,
		Quantity:  w.Quantity,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Fetch retrieves the account cart and normalizes every record
func (c *Client) Fetch(ctx context.Context) ([]client.RemoteLineItem, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v1/cart", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items []wireItem `json:"items"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("remote cart: malformed fetch response: %w", err)
	}

	items := make([]client.RemoteLineItem, len(payload.Items))
	for i, w := range payload.Items {
		items[i] = w.normalize()
	}
	return items, nil
}

// AddItem pushes an add mutation for one product
func (c *Client) AddItem(ctx context.Context, itemID string, quantity int) error {
	body := map[string]any{"item_id": itemID, "quantity": quantity}
	_, err := c.do(ctx, http.MethodPost, "/api/v1/cart/items", body)
	return err
}

// UpdateItem pushes a quantity change
func (c *Client) UpdateItem(ctx context.Context, itemID string, quantity int) error {
	body := map[string]any{"quantity": quantity}
	_, err := c.do(ctx, http.MethodPut, "/api/v1/cart/items/"+url.PathEscape(itemID), body)
	return err
}

// RemoveItem pushes a line removal
func (c *Client) RemoveItem(ctx context.Context, itemID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/cart/items/"+url.PathEscape(itemID), nil)
	return err
}

// Clear pushes a full cart clear
func (c *Client) Clear(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/cart", nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("remote cart: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("remote cart: failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token := c.token()
	if token == "" {
		return nil, ErrUnauthenticated
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote cart: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("remote cart: failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthenticated
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("remote cart: malformed response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		if env.Error != nil {
			return nil, fmt.Errorf("remote cart: %s: %s", env.Error.Code, env.Error.Message)
		}
		return nil, fmt.Errorf("remote cart: unexpected status %d", resp.StatusCode)
	}
	return env.Data, nil
}

var _ client.RemoteCart = (*Client)(nil)
