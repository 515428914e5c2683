// Package httpclient builds the resilient HTTP client every vendor
// adapter calls through. Each outbound call passes, in order:
// rate-limit admission, circuit-breaker admission, a retry loop, then
// the underlying network call.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/pkg/logger"
	"disputeshield-service/pkg/metrics"
)

// Config tunes one client instance
type Config struct {
	Timeout          time.Duration
	AuthTimeout      time.Duration
	MaxAttempts      int
	BackoffBase      time.Duration
	MaxTokens        int
	RefillRate       float64
	RefillInterval   time.Duration
	RateLimitFast    bool
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// DefaultConfig returns the defaults applied where a field is zero
func DefaultConfig() Config {
	return Config{
		Timeout:          30 * time.Second,
		AuthTimeout:      15 * time.Second,
		MaxAttempts:      3,
		BackoffBase:      500 * time.Millisecond,
		MaxTokens:        10,
		RefillRate:       10,
		RefillInterval:   time.Second,
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
	}
}

// Request is one outbound vendor call
type Request struct {
	Method    string
	URL       string
	Body      []byte
	Header    http.Header
	Operation string
}

// Response is the drained result of a successful call
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// HTTPError is returned for 4xx responses that are not retried
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("vendor returned status %d: %s", e.Status, e.Body)
}

// Client wraps an http.Client with a token bucket, a circuit breaker
// and retry-with-backoff. One Client is scoped to one adapter instance.
type Client struct {
	vendor  string
	http    *http.Client
	bucket  *TokenBucket
	breaker *CircuitBreaker
	cfg     Config
	logger  logger.Logger
	metrics *metrics.Metrics
	sleep   func(ctx context.Context, d time.Duration) error
}

// Factory builds clients sharing one logger and metrics registry
type Factory struct {
	logger   logger.Logger
	metrics  *metrics.Metrics
	defaults Config
}

// NewFactory creates a client factory
func NewFactory(log logger.Logger, m *metrics.Metrics, defaults Config) *Factory {
	return &Factory{logger: log, metrics: m, defaults: defaults}
}

// NewClient builds a resilient client for one vendor integration.
// Zero config fields fall back to the factory defaults.
func (f *Factory) NewClient(vendor string, cfg Config) *Client {
	cfg = merge(cfg, f.defaults)
	c := &Client{
		vendor:  vendor,
		http:    &http.Client{Timeout: cfg.Timeout},
		bucket:  NewTokenBucket(cfg.MaxTokens, cfg.RefillRate, cfg.RefillInterval, cfg.RateLimitFast),
		breaker: NewCircuitBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown),
		cfg:     cfg,
		logger:  f.logger.With("vendor", vendor),
		metrics: f.metrics,
		sleep:   sleepCtx,
	}
	if f.metrics != nil {
		c.breaker.OnTransition(func(from, to CircuitState) {
			f.metrics.CircuitTransitions.WithLabelValues(vendor, to.String()).Inc()
		})
	}
	return c
}

func merge(cfg, def Config) Config {
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.AuthTimeout == 0 {
		cfg.AuthTimeout = def.AuthTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BackoffBase == 0 {
		cfg.BackoffBase = def.BackoffBase
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.RefillRate == 0 {
		cfg.RefillRate = def.RefillRate
	}
	if cfg.RefillInterval == 0 {
		cfg.RefillInterval = def.RefillInterval
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = def.BreakerThreshold
	}
	if cfg.BreakerCooldown == 0 {
		cfg.BreakerCooldown = def.BreakerCooldown
	}
	return cfg
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Breaker exposes the circuit breaker for health reporting
func (c *Client) Breaker() *CircuitBreaker { return c.breaker }

// AuthTimeout is the merged cap on credential-endpoint calls
func (c *Client) AuthTimeout() time.Duration { return c.cfg.AuthTimeout }

// Do runs one resilient call. Transient failures (network errors, 5xx,
// 429) are retried with exponential backoff; other 4xx and auth
// failures propagate immediately so the caller can react.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if err := c.bucket.Wait(ctx); err != nil {
		return nil, err
	}
	if err := c.breaker.Allow(); err != nil {
		c.observe(req, "circuit_open", 0)
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		resp, retryable, err := c.attempt(ctx, req)
		if err == nil {
			c.breaker.RecordSuccess()
			return resp, nil
		}
		lastErr = err
		if !retryable {
			// vendor answered; the breaker only counts outages
			c.breaker.RecordSuccess()
			return nil, err
		}
		if attempt < c.cfg.MaxAttempts {
			backoff := c.cfg.BackoffBase * (1 << (attempt - 1))
			c.logger.Warn("Retrying vendor call",
				"method", req.Method, "path", req.URL,
				"attempt", attempt, "backoff", backoff.String(), "error", err)
			if serr := c.sleep(ctx, backoff); serr != nil {
				c.breaker.RecordFailure()
				return nil, serr
			}
		}
	}
	c.breaker.RecordFailure()
	return nil, &adapter.RetryExhaustedError{Attempts: c.cfg.MaxAttempts, LastErr: lastErr}
}

// attempt performs one network call, classifying the outcome as
// retryable or not.
func (c *Client) attempt(ctx context.Context, req Request) (*Response, bool, error) {
	start := time.Now()

	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	httpResp, err := c.http.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		c.logCall(req, 0, duration, err)
		c.observe(req, "network_error", duration)
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.logCall(req, httpResp.StatusCode, duration, err)
		c.observe(req, "read_error", duration)
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}

	c.logCall(req, httpResp.StatusCode, duration, nil)

	switch {
	case httpResp.StatusCode < 400:
		c.observe(req, "success", duration)
		return &Response{
			Status: httpResp.StatusCode,
			Body:   body,
			Header: httpResp.Header,
		}, false, nil
	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		c.observe(req, "auth_error", duration)
		return nil, false, &adapter.AuthError{
			Vendor:  c.vendor,
			Fatal:   true,
			Message: fmt.Sprintf("status %d: %s", httpResp.StatusCode, truncate(body)),
		}
	case httpResp.StatusCode == http.StatusTooManyRequests || httpResp.StatusCode >= 500:
		c.observe(req, "transient_error", duration)
		return nil, true, &HTTPError{Status: httpResp.StatusCode, Body: truncate(body)}
	default:
		c.observe(req, "client_error", duration)
		return nil, false, &HTTPError{Status: httpResp.StatusCode, Body: truncate(body)}
	}
}

func (c *Client) logCall(req Request, status int, duration time.Duration, err error) {
	fields := []interface{}{
		"method", req.Method,
		"path", req.URL,
		"status", status,
		"durationMs", duration.Milliseconds(),
	}
	if err != nil {
		fields = append(fields, "error", err)
		c.logger.Error("Vendor call failed", fields...)
		return
	}
	if status >= 400 {
		c.logger.Warn("Vendor call returned error status", fields...)
		return
	}
	c.logger.Info("Vendor call completed", fields...)
}

func (c *Client) observe(req Request, outcome string, duration time.Duration) {
	if c.metrics == nil {
		return
	}
	op := req.Operation
	if op == "" {
		op = req.Method
	}
	c.metrics.VendorCalls.WithLabelValues(c.vendor, op, outcome).Inc()
	if duration > 0 {
		c.metrics.VendorCallDuration.WithLabelValues(c.vendor, op).Observe(duration.Seconds())
	}
}

func truncate(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
