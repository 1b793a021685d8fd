// Package client provides a typed HTTP client for the product catalog API.
// It wraps resty with retries for transient failures, client-side rate
// limiting, and mapping of API error responses onto the shared error types.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"resty.dev/v3"

	"github.com/harborline/productcache/pkg/errors"
	"github.com/harborline/productcache/pkg/product"
)

// Config holds client configuration. The zero value is usable once BaseURL
// is set; every other field falls back to a default.
type Config struct {
	// BaseURL is the root of the catalog API, e.g. "http://localhost:8080".
	BaseURL string

	// Timeout bounds each request including retries of the body read.
	Timeout time.Duration

	// RetryCount is the number of retries after the initial attempt.
	// Retries apply to transport errors and 5xx responses.
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration

	// RateLimitPerSecond caps outgoing requests. Zero disables limiting.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Client is a product catalog API client. It is safe for concurrent use.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
}

// New creates a catalog API client for the given configuration.
func New(cfg Config) (*Client, error) {
	cfg = applyDefaults(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid client config")
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	if cfg.RetryCount > 0 {
		rc.SetRetryCount(cfg.RetryCount).
			SetRetryWaitTime(cfg.RetryWaitTime).
			SetRetryMaxWaitTime(cfg.RetryMaxWaitTime)

		rc.AddRetryConditions(func(res *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			code := res.StatusCode()
			return code >= 500 && code != http.StatusNotImplemented
		})
	}

	var limiter *rate.Limiter
	if cfg.RateLimitPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst)
	}

	return &Client{resty: rc, limiter: limiter}, nil
}

// GetProduct fetches a product by id.
// A missing product is reported as a not-found error.
func (c *Client) GetProduct(ctx context.Context, id int64) (*product.Product, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var out product.Product
	resp, err := c.resty.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/products/%d", id))
	if err != nil {
		return nil, errors.NewTemporary("product fetch failed", err)
	}
	if resp.IsError() {
		return nil, mapStatusError(resp, id)
	}
	return &out, nil
}

// UpdateProduct applies a partial update to a product and returns the
// merged record as the server persisted it.
func (c *Client) UpdateProduct(ctx context.Context, id int64, patch product.Update) (*product.Product, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var out product.Product
	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(patch).
		SetResult(&out).
		Put(fmt.Sprintf("/products/%d", id))
	if err != nil {
		return nil, errors.NewTemporary("product update failed", err)
	}
	if resp.IsError() {
		return nil, mapStatusError(resp, id)
	}
	return &out, nil
}

// Close releases the client's idle connections.
func (c *Client) Close() error {
	c.resty.Close()
	return nil
}

// wait blocks until the rate limiter admits a request or ctx is canceled.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limit wait failed")
	}
	return nil
}

// apiError is the error envelope the catalog API returns.
type apiError struct {
	Detail string `json:"detail"`
}

// mapStatusError converts a non-2xx API response into a typed error.
func mapStatusError(resp *resty.Response, id int64) error {
	var body apiError
	if err := json.Unmarshal([]byte(resp.String()), &body); err != nil || body.Detail == "" {
		body.Detail = fmt.Sprintf("unexpected status %d", resp.StatusCode())
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return errors.NewNotFound("product", product.FormatID(id))
	case code == http.StatusBadRequest:
		return errors.NewInvalidInput("request", body.Detail)
	case code >= 500:
		return errors.NewTemporary(body.Detail, nil)
	default:
		return errors.NewPermanent(body.Detail, nil)
	}
}

func applyDefaults(cfg Config) Config {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryWaitTime == 0 {
		cfg.RetryWaitTime = 500 * time.Millisecond
	}
	if cfg.RetryMaxWaitTime == 0 {
		cfg.RetryMaxWaitTime = 5 * time.Second
	}
	if cfg.RateLimitBurst == 0 && cfg.RateLimitPerSecond > 0 {
		cfg.RateLimitBurst = 1
	}
	return cfg
}

func validateConfig(cfg Config) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got: %v", cfg.Timeout)
	}
	if cfg.RetryCount < 0 {
		return fmt.Errorf("retry count must be non-negative, got: %d", cfg.RetryCount)
	}
	if cfg.RateLimitPerSecond < 0 {
		return fmt.Errorf("rate limit must be non-negative, got: %f", cfg.RateLimitPerSecond)
	}
	return nil
}
