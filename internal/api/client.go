// Package api is the typed gateway to the ticketing backend. Every endpoint the
// storefront consumes has one method here; responses are decoded into the
// models package and checked for required fields before they are returned.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is where the ticketing API listens in development
const DefaultBaseURL = "http://localhost:8000"

// Config configures the gateway
type Config struct {
	BaseURL string
	// Timeout bounds each request. Zero leaves the transport default in place.
	Timeout    time.Duration
	HTTPClient *http.Client
	// RequestID returns the id of the inbound request, forwarded as X-Request-ID.
	RequestID func(ctx context.Context) string
}

// Client issues requests to the ticketing API
type Client struct {
	baseURL   string
	client    *http.Client
	requestID func(ctx context.Context) string
}

// NewClient creates a new ticketing API client
func NewClient(config Config) *Client {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		baseURL:   baseURL,
		client:    httpClient,
		requestID: config.RequestID,
	}
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one call to the API
type request struct {
	method string
	path   string
	query  url.Values
	header http.Header
}

// send performs the request and returns the raw body of a 2xx response.
// Any other status becomes an *Error carrying the API's detail message.
func (c *Client) send(ctx context.Context, req request) (*http.Response, []byte, error) {
	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s %s request: %w", req.method, req.path, err)
	}

	httpReq.Header.Set("Accept", "application/json")
	for key, values := range req.header {
		httpReq.Header.Del(key)
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if c.requestID != nil {
		if id := c.requestID(ctx); id != "" {
			httpReq.Header.Set("X-Request-ID", id)
		}
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send %s %s request: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s %s response: %w", req.method, req.path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, newError(req.method, req.path, resp.StatusCode, body)
	}

	return resp, body, nil
}

// do performs the request and decodes the JSON body into out
func (c *Client) do(ctx context.Context, req request, out any) error {
	_, body, err := c.send(ctx, req)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return &ContractError{Resource: req.path, Field: "body"}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", req.method, req.path, err)
	}

	return nil
}
