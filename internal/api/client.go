package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"specter/internal/logging"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// AuthorizedHTTPClient sends requests that already carry the caller's
// credentials. *http.Client built by NewBearerHTTPClient satisfies it, and
// tests substitute their own.
type AuthorizedHTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewBearerHTTPClient returns an HTTP client that sets
// "Authorization: Bearer <token>" on every request. It has no timeout;
// requests end when their context does.
func NewBearerHTTPClient(ctx context.Context, token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})
	return oauth2.NewClient(ctx, src)
}

// Client handles communication with the API server
type Client struct {
	// Base URL of the API server
	BaseURL string

	http   AuthorizedHTTPClient
	logger *slog.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithLogger sets the logger used for request tracing
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new API client on top of an authorized HTTP client
func NewClient(baseURL string, httpClient AuthorizedHTTPClient, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewBearerClient creates a client authenticated with the given token
func NewBearerClient(ctx context.Context, baseURL, token string, opts ...Option) *Client {
	return NewClient(baseURL, NewBearerHTTPClient(ctx, token), opts...)
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: %s", e.statusText())
}

func (e *APIError) statusText() string {
	if text := http.StatusText(e.StatusCode); text != "" {
		return text
	}
	return e.Status
}

// doJSON sends a request with an optional JSON body and decodes a JSON
// response into out. An empty 2xx body leaves out untouched.
func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("error marshalling request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	data, err := c.do(ctx, method, path, body, "application/json")
	if err != nil {
		return err
	}
	return decodeBody(data, out)
}

func decodeBody(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

// do sends the request and returns the raw response body of a 2xx reply
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	requestID := uuid.NewString()
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-Id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.logger.Warn("failed to close response body", "error", err)
		}
	}(resp.Body)

	c.logger.Debug("request", "method", method, "path", path, "request_id", requestID, "status", resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(data),
		}
	}

	return data, nil
}
