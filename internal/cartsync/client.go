package cartsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client is the REST client for the cart API. It is the single authoritative
// contract for cart access; every call decodes the full-cart envelope.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type ClientOption func(*Client)

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Cart       *Cart       `json:"cart"`
	UserErrors []UserError `json:"userErrors"`
}

func (c *Client) CreateCart(ctx context.Context, currency string) (*Cart, error) {
	body := map[string]string{}
	if currency != "" {
		body["currency"] = currency
	}
	return c.roundTrip(ctx, http.MethodPost, "/cart", body)
}

func (c *Client) GetCart(ctx context.Context, id string) (*Cart, error) {
	return c.roundTrip(ctx, http.MethodGet, "/cart/"+id, nil)
}

func (c *Client) AddLine(ctx context.Context, cartID, variantID string, quantity int) (*Cart, error) {
	return c.roundTrip(ctx, http.MethodPost, "/cart/"+cartID+"/lines", map[string]any{
		"variantId": variantID,
		"quantity":  quantity,
	})
}

func (c *Client) UpdateLine(ctx context.Context, cartID, lineID string, quantity int) (*Cart, error) {
	return c.roundTrip(ctx, http.MethodPatch, "/cart/"+cartID+"/lines", map[string]any{
		"lineId":   lineID,
		"quantity": quantity,
	})
}

func (c *Client) RemoveLine(ctx context.Context, cartID, lineID string) (*Cart, error) {
	return c.roundTrip(ctx, http.MethodDelete, "/cart/"+cartID+"/lines/"+lineID, nil)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any) (*Cart, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	c.logger.Debug("cart api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"dur_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Errors = env.UserErrors
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	if len(env.UserErrors) > 0 {
		return nil, &APIError{Status: resp.StatusCode, Errors: env.UserErrors}
	}
	if env.Cart == nil {
		return nil, fmt.Errorf("%s %s: response carried no cart", method, path)
	}
	return env.Cart, nil
}
