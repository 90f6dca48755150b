// Package httpclient provides the HTTP client the scraping sources
// share: retries with exponential backoff, per-client rate limiting,
// optional proxy, and an in-memory page cache.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/cache"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/errors"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/logx"
	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/rate"
)

// Client wraps http.Client with retry logic, rate limiting and a page
// cache. One client per source keeps the rate limit per site.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	pageCache   *cache.PageCache
	cacheTTL    time.Duration
	logger      logx.Logger
	config      Config
}

// Config holds the configuration for the HTTP client.
type Config struct {
	// Timeout is the per-request timeout. Default: 30s.
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts. Default: 3.
	MaxRetries int

	// RetryBackoff is the initial backoff, doubled per retry. Default: 1s.
	RetryBackoff time.Duration

	// MaxRetryBackoff caps the backoff. Default: 30s.
	MaxRetryBackoff time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// RateLimit is requests per second; 0 disables limiting.
	RateLimit float64

	// RateLimitBurst is the limiter burst. Default: 1.
	RateLimitBurst int

	// ProxyURL routes requests through an HTTP(S) proxy when set.
	ProxyURL string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		RetryBackoff:    1 * time.Second,
		MaxRetryBackoff: 30 * time.Second,
		UserAgent:       "barracks-reconcile/1.0",
		RateLimitBurst:  1,
	}
}

// New creates an HTTP client. pageCache may be nil to disable caching.
func New(config Config, pageCache *cache.PageCache, cacheTTL time.Duration, logger logx.Logger) (*Client, error) {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = 1 * time.Second
	}
	if config.MaxRetryBackoff == 0 {
		config.MaxRetryBackoff = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "barracks-reconcile/1.0"
	}
	if config.RateLimitBurst == 0 {
		config.RateLimitBurst = 1
	}

	transport := http.DefaultTransport
	if config.ProxyURL != "" {
		proxy, err := url.Parse(config.ProxyURL)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid proxy url %s", config.ProxyURL)
		}
		transport = &http.Transport{Proxy: http.ProxyURL(proxy)}
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.New(config.RateLimit, config.RateLimitBurst)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		rateLimiter: limiter,
		pageCache:   pageCache,
		cacheTTL:    cacheTTL,
		logger:      logger.With("component", "httpclient"),
		config:      config,
	}, nil
}

// Get performs a GET request with retry logic and rate limiting.
func (c *Client) Get(ctx context.Context, rawurl string, headers map[string]string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if c.rateLimiter != nil {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return nil, errors.Wrap(err, "rate limit wait failed")
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create request for %s", rawurl)
		}

		req.Header.Set("User-Agent", c.config.UserAgent)
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		c.logger.Debug("http request",
			"url", rawurl,
			"attempt", attempt+1,
		)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			c.logger.Warn("http request failed",
				"url", rawurl,
				"attempt", attempt+1,
				"error", err.Error(),
				"duration_ms", duration.Milliseconds(),
			)
			lastErr = err

			if attempt >= c.config.MaxRetries {
				break
			}
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, errors.Wrap(err, "backoff interrupted")
			}
			continue
		}

		c.logger.Debug("http response",
			"url", rawurl,
			"status", resp.StatusCode,
			"duration_ms", duration.Milliseconds(),
		)

		if !isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = errors.Wrapf(errors.ErrServiceUnavailable, "HTTP %d from %s", resp.StatusCode, rawurl)

		if attempt >= c.config.MaxRetries {
			break
		}
		c.logger.Warn("retryable http status",
			"url", rawurl,
			"status", resp.StatusCode,
			"attempt", attempt+1,
		)
		if err := c.backoff(ctx, attempt); err != nil {
			return nil, errors.Wrap(err, "backoff interrupted")
		}
	}

	return nil, errors.Wrapf(lastErr, "request failed after %d attempts", c.config.MaxRetries+1)
}

// FetchPage performs a GET and returns the body, consulting the page
// cache first. Only 2xx responses are cached.
func (c *Client) FetchPage(ctx context.Context, rawurl string) ([]byte, error) {
	if c.pageCache != nil {
		if body, ok := c.pageCache.Get(rawurl); ok {
			c.logger.Debug("page cache hit", "url", rawurl)
			return body, nil
		}
	}

	resp, err := c.Get(ctx, rawurl, nil)
	if err != nil {
		return nil, err
	}

	if err := CheckStatus(resp); err != nil {
		resp.Body.Close()
		return nil, errors.Wrapf(err, "request to %s failed", rawurl)
	}

	body, err := ReadBody(resp)
	if err != nil {
		return nil, err
	}

	if c.pageCache != nil {
		c.pageCache.Set(rawurl, body, c.cacheTTL)
	}
	return body, nil
}

// backoff implements exponential backoff.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	backoff := c.config.RetryBackoff * time.Duration(math.Pow(2, float64(attempt)))
	if backoff > c.config.MaxRetryBackoff {
		backoff = c.config.MaxRetryBackoff
	}

	c.logger.Debug("backing off before retry",
		"attempt", attempt+1,
		"backoff_ms", backoff.Milliseconds(),
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(backoff):
		return nil
	}
}

// isRetryableStatus reports whether a status code warrants a retry.
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// ReadBody reads the response body and closes it.
func ReadBody(resp *http.Response) ([]byte, error) {
	if resp == nil {
		return nil, errors.New("response is nil")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	return body, nil
}

// CheckStatus maps non-2xx status codes to the shared sentinels.
func CheckStatus(resp *http.Response) error {
	if resp == nil {
		return errors.New("response is nil")
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return errors.ErrRateLimit
	case http.StatusNotFound:
		return errors.ErrNotFound
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusBadGateway:
		return errors.ErrServiceUnavailable
	default:
		return errors.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
}

// String returns a human-readable view of the client configuration.
func (c *Client) String() string {
	return fmt.Sprintf("HTTPClient{timeout=%s, max_retries=%d, rate_limit=%.1f/s}",
		c.config.Timeout,
		c.config.MaxRetries,
		c.config.RateLimit,
	)
}
