// Package apiclient is a thin typed wrapper over the orchestrator's JSON API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cybrty/pentest-e2e/config"
	"github.com/cybrty/pentest-e2e/internal/poll"
)

// Client performs JSON requests against a single API base URL. It owns one
// underlying connection pool for its lifetime; callers must Close it when the
// owning fixture tears down, on all exit paths.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Options holds optional dependencies for NewClient.
type Options struct {
	// HTTPClient overrides the default pooled client, mainly for tests.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient builds a client from config. The base URL is required.
func NewClient(cfg config.APIConfig, opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: baseURL,
		client:  hc,
		logger:  logger.With("component", "api_client"),
	}, nil
}

// Get issues a GET request and returns the raw response body.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request with a JSON payload.
func (c *Client) Post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, payload)
}

// Put issues a PUT request with a JSON payload.
func (c *Client) Put(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, payload)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// GetJSON issues a GET request and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	body, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// PostJSON issues a POST request and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, payload, out any) error {
	body, err := c.Post(ctx, path, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// HealthCheck performs a best-effort GET /health. It returns a boolean
// instead of an error so it can be used directly as a poll condition during
// startup synchronization.
func (c *Client) HealthCheck(ctx context.Context) bool {
	_, err := c.Get(ctx, "/health")
	if err != nil {
		c.logger.DebugContext(ctx, "health check failed", "error", err)
		return false
	}
	return true
}

// WaitForReady polls the health endpoint until the API responds or the
// timeout elapses.
func (c *Client) WaitForReady(ctx context.Context, timeout, interval time.Duration) bool {
	return poll.WaitFor(ctx, func(ctx context.Context) (bool, error) {
		return c.HealthCheck(ctx), nil
	}, poll.Options{
		Timeout:     timeout,
		Interval:    interval,
		Description: "API readiness",
		Logger:      c.logger,
	})
}

// Close releases the client's pooled connections.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	url := c.baseURL + "/" + strings.TrimLeft(path, "/")

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", path, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: method, URL: url, Err: err}
	}

	body, readErr := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if readErr != nil {
		return nil, &TransportError{Op: method, URL: url, Err: readErr}
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close response body: %w", closeErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	return body, nil
}
