// Package platform is the HTTP client for the upstream platform REST API.
// The console owns no domain data; every listing, form submission and status
// toggle becomes exactly one call through this package.
package platform

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
)

// ErrUnauthorized marks upstream 401/403 responses.
var ErrUnauthorized = errors.New("platform: not authorized")

// StatusError is any other non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("platform: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client issues authenticated requests against the platform API base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL. The timeout bounds every
// request; there are no retries, a failed call is terminal for its cycle.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Get fetches path with query parameters and decodes the response envelope.
func (c *Client) Get(ctx context.Context, path, token string, params url.Values) (*Envelope, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req, token)
}

// PostJSON sends a JSON create request.
func (c *Client) PostJSON(ctx context.Context, path, token string, payload any) (*Envelope, error) {
	return c.sendJSON(ctx, http.MethodPost, path, token, payload)
}

// PutJSON sends a JSON update request.
func (c *Client) PutJSON(ctx context.Context, path, token string, payload any) (*Envelope, error) {
	return c.sendJSON(ctx, http.MethodPut, path, token, payload)
}

// PatchJSON sends a JSON partial update, used for status toggles.
func (c *Client) PatchJSON(ctx context.Context, path, token string, payload any) (*Envelope, error) {
	return c.sendJSON(ctx, http.MethodPatch, path, token, payload)
}

// SendBody forwards a pre-encoded body (multipart form submissions) upstream
// without re-buffering it.
func (c *Client) SendBody(ctx context.Context, method, path, token, contentType string, body io.Reader) (*Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, token)
}

func (c *Client) sendJSON(ctx context.Context, method, path, token string, payload any) (*Envelope, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, token)
}

func (c *Client) do(req *http.Request, token string) (*Envelope, error) {
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("platform request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &env, nil
}

// maxResponseBytes caps how much of an upstream body is read; listings are
// paginated and stay far below this.
const maxResponseBytes = 16 << 20

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
