// Package apiclient is a thin REST client for the actor platform API.
//
// It covers only what the actor SDK needs: starting actor runs, reading run
// state (with server-side long polling) and reading or writing key-value store
// records. Every operation accepts a per-request token that overrides the
// client's default credential.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/kubiyabot/actor-sdk/internal/util"
)

const (
	// DefaultBaseURL is the public platform API endpoint
	DefaultBaseURL = "https://api.apify.com"

	// defaultTimeout must exceed the longest server-side long poll (60s)
	defaultTimeout = 120 * time.Second
)

// Client represents a platform API client
type Client struct {
	Token   string
	BaseURL string
	Debug   bool

	http    *resty.Client
	timeout time.Duration
	limiter *rate.Limiter
	retry   *util.RetryConfig
}

// Option is a functional option for configuring the client
type Option func(*Client)

// WithBaseURL overrides the API base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.BaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithDebug enables debug logging
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.Debug = debug
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient makes resty use a custom http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc)
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry replaces the retry policy for rate-limited and 5xx responses
func WithRetry(cfg *util.RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// New creates a new platform API client.
// If no base URL option is given, it will check environment variables and use defaults.
func New(token string, opts ...Option) *Client {
	c := &Client{
		Token:   token,
		BaseURL: getBaseURL(),
		http:    resty.New(),
		timeout: defaultTimeout,
		retry:   util.DefaultRetryConfig(),
	}

	for _, opt := range opts {
		opt(c)
	}

	// Applied after the options so WithHTTPClient keeps it
	c.http.SetTimeout(c.timeout)

	c.http.SetHeader("Accept", "application/json")

	if c.Debug {
		fmt.Fprintf(os.Stderr, "Created platform API client (base_url=%s)\n", c.BaseURL)
	}

	return c
}

// getBaseURL returns the base URL for the platform API.
// APIFY_API_BASE_URL wins over the public default.
func getBaseURL() string {
	if customURL := os.Getenv("APIFY_API_BASE_URL"); customURL != "" {
		return strings.TrimRight(customURL, "/")
	}
	return DefaultBaseURL
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Type       string
	Message    string
	Method     string
	Path       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := e.Message
	if e.Type != "" {
		msg = e.Type + ": " + msg
	}
	return fmt.Sprintf("API error (status %d) on %s %s: %s", e.StatusCode, e.Method, e.Path, strings.TrimSpace(msg))
}

// Retryable reports whether repeating the request may succeed
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsAuthError reports whether err is a 401 or 403 from the API
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func newAPIError(method, path string, resp *resty.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Method:     method,
		Path:       path,
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Type = envelope.Error.Type
		apiErr.Message = envelope.Error.Message
	} else {
		apiErr.Message = string(resp.Body())
	}

	return apiErr
}

// doRequest performs a request with auth, rate limiting and retries.
// build is called for every attempt to configure a fresh request.
func (c *Client) doRequest(ctx context.Context, method, path, token string, build func(*resty.Request)) (*resty.Response, error) {
	if token == "" {
		token = c.Token
	}

	retryCfg := *util.DefaultRetryConfig()
	if c.retry != nil {
		retryCfg = *c.retry
	}
	if method == http.MethodPost {
		// Starting a run is not idempotent; only retry when the API refused it outright
		retryCfg.RetryableFunc = func(err error) bool {
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
		}
	}

	var resp *resty.Response
	err := util.RetryWithBackoff(ctx, &retryCfg, func() error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		req := c.http.R().SetContext(ctx)
		if token != "" {
			req.SetAuthToken(token)
		}
		if build != nil {
			build(req)
		}

		if c.Debug {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s %s%s\n", method, c.BaseURL, path)
		}

		startTime := time.Now()
		r, err := req.Execute(method, c.BaseURL+path)
		if err != nil {
			if c.Debug {
				fmt.Fprintf(os.Stderr, "[ERROR] Request failed: %v\n", err)
			}
			return fmt.Errorf("request failed: %w", err)
		}

		if c.Debug {
			fmt.Fprintf(os.Stderr, "[DEBUG] Response status: %d (took %dms)\n", r.StatusCode(), time.Since(startTime).Milliseconds())
		}

		if r.StatusCode() < 200 || r.StatusCode() >= 300 {
			return newAPIError(method, path, r)
		}

		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// parseData decodes a {"data": ...} response envelope into target
func (c *Client) parseData(resp *resty.Response, target interface{}) error {
	body := resp.Body()
	if len(body) == 0 {
		return nil
	}

	envelope := struct {
		Data interface{} `json:"data"`
	}{Data: target}
	if err := json.Unmarshal(body, &envelope); err != nil {
		if c.Debug {
			fmt.Fprintf(os.Stderr, "[ERROR] Failed to parse response: %v\n", err)
		}
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// escapeActorID turns "username/actor-name" into the API's "username~actor-name" form
func escapeActorID(actorID string) string {
	return strings.ReplaceAll(actorID, "/", "~")
}
