// Package client provides the core Hudu HTTP client with rate limiting,
// response caching, lifecycle events, and error classification.
package client

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hudu-tools/hudu-api-client/pkg/cache"
	"github.com/hudu-tools/hudu-api-client/pkg/events"
	"github.com/hudu-tools/hudu-api-client/pkg/ratelimit"
)

// Prometheus metrics for Hudu client operations.
var (
	huduRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hudu_requests_total",
		Help: "Total Hudu requests by endpoint and status",
	}, []string{"endpoint", "status"})

	huduRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hudu_request_duration_seconds",
		Help:    "Hudu request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	huduErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hudu_errors_total",
		Help: "Total Hudu errors by kind",
	}, []string{"kind"})
)

// APIPrefix is the fixed version prefix joined with every resource path.
const APIPrefix = "/api/v1/"

// EventTypeRequestError is the lifecycle event type published for every
// failed request regardless of endpoint.
const EventTypeRequestError = "request_error"

// Response is the outcome of one successful HTTP call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the Hudu instance, e.g. "https://docs.example.com".
	BaseURL string

	// APIKey is sent as the x-api-key header on every request.
	APIKey string

	// HTTPTimeout bounds each HTTP call. A timed-out call classifies as
	// transient. Default: 30s.
	HTTPTimeout time.Duration

	// Rate limiting. Defaults to the Hudu-documented 300 requests/minute
	// budget, scoped to this client instance. Set Limiter to a
	// ratelimit.SharedBucket to share the budget across processes.
	RateLimit  int
	RatePeriod time.Duration
	Limiter    ratelimit.Limiter

	// Notifier receives request lifecycle events. One is created (and owned)
	// by the client when nil.
	Notifier *events.Notifier

	// Redis enables the GET response cache when set.
	Redis *redis.Client

	// CacheTTL is the lifetime of cached GET responses. Hudu sends no
	// cache-validator headers, so freshness is purely client-side.
	// Default: 30s.
	CacheTTL time.Duration
}

// DefaultConfig returns a safe default configuration for a Hudu instance.
func DefaultConfig(baseURL, apiKey string) Config {
	return Config{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		HTTPTimeout: 30 * time.Second,
		RateLimit:   ratelimit.DefaultCapacity,
		RatePeriod:  ratelimit.DefaultPeriod,
		CacheTTL:    30 * time.Second,
	}
}

// Client is the low-level Hudu request executor. It attaches credentials,
// serializes callers through the rate limiter, classifies outcomes, and
// publishes lifecycle events. It performs no retries; see Run.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	limiter      ratelimit.Limiter
	notifier     *events.Notifier
	ownsNotifier bool
	cache        *cache.Manager
	cacheTTL     time.Duration
	logger       zerolog.Logger
}

// New creates a new Hudu client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}

	logger := log.With().Str("component", "hudu-client").Logger()

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = ratelimit.NewBucket(cfg.RateLimit, cfg.RatePeriod, logger)
	}

	notifier := cfg.Notifier
	ownsNotifier := false
	if notifier == nil {
		notifierCfg := events.DefaultConfig()
		notifierCfg.Logger = logger
		notifier = events.NewNotifier(notifierCfg)
		ownsNotifier = true
	}

	var cacheManager *cache.Manager
	if cfg.Redis != nil {
		cacheManager = cache.NewManager(cfg.Redis)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		limiter:      limiter,
		notifier:     notifier,
		ownsNotifier: ownsNotifier,
		cache:        cacheManager,
		cacheTTL:     cfg.CacheTTL,
		logger:       logger,
	}, nil
}

// Do performs one HTTP call against a Hudu endpoint. The flow is:
// consult the GET cache, acquire a rate-limit permit, issue the request,
// classify the outcome, publish a lifecycle event. A cache-served response
// makes no outbound request, so it spends no permit and publishes no event.
// Non-2xx outcomes return a classified *APIError; retries are the caller's
// (Run's) concern.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, ErrEmptyPath
	}

	endpoint := APIPrefix + path

	start := time.Now()
	defer func() {
		huduRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	cacheKey := cache.Key{Endpoint: endpoint, Query: query}
	if method == http.MethodGet && c.cache != nil {
		if entry, err := c.cache.Get(ctx, cacheKey); err == nil {
			c.logger.Debug().
				Str("endpoint", endpoint).
				Msg("Serving response from cache")
			return &Response{
				StatusCode: entry.StatusCode,
				Header:     entry.Headers,
				Body:       entry.Data,
			}, nil
		} else if err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("acquire rate limit permit: %w", err)
	}

	req, err := c.newRequest(ctx, method, endpoint, query, body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", method).
		Msg("Executing Hudu request")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := &APIError{
			Kind:    ErrorKindTransient,
			Message: "connection failure",
			Err:     err,
		}
		c.observeFailure(method, path, endpoint, apiErr)
		return nil, apiErr
	}
	defer httpResp.Body.Close()

	respBody, err := readBody(httpResp)
	if err != nil {
		apiErr := &APIError{
			Kind:    ErrorKindTransient,
			Message: "read response body",
			Err:     err,
		}
		c.observeFailure(method, path, endpoint, apiErr)
		return nil, apiErr
	}

	huduRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", httpResp.StatusCode)).Inc()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		kind := classifyStatus(httpResp.StatusCode)
		apiErr := &APIError{
			Kind:       kind,
			StatusCode: httpResp.StatusCode,
			Message:    strings.TrimSpace(httpResp.Status),
		}

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", httpResp.StatusCode).
			Str("error_kind", string(kind)).
			Msg("Hudu request error")

		c.observeFailure(method, path, endpoint, apiErr)
		return nil, apiErr
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header.Clone(),
		Body:       respBody,
	}

	if method == http.MethodGet && c.cache != nil {
		entry := cache.NewEntry(respBody, resp.StatusCode, resp.Header, c.cacheTTL)
		if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to cache response")
		}
	}

	c.notifier.Publish(events.Event{
		Type: EventTypeFor(method, path),
		Payload: map[string]any{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		},
	})

	return resp, nil
}

// Get performs a GET request against a resource path.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Notifier exposes the lifecycle event notifier for subscriptions.
func (c *Client) Notifier() *events.Notifier {
	return c.notifier
}

// Close releases client resources. A notifier created by New is closed
// (draining per its shutdown policy); an injected notifier stays open for
// its owner.
func (c *Client) Close() error {
	if c.ownsNotifier {
		return c.notifier.Close()
	}
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// newRequest builds the HTTP request with credentials attached.
func (c *Client) newRequest(ctx context.Context, method, endpoint string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// observeFailure records metrics and publishes the request_error lifecycle
// event for a classified failure.
func (c *Client) observeFailure(method, path, endpoint string, apiErr *APIError) {
	huduErrorsTotal.WithLabelValues(string(apiErr.Kind)).Inc()
	if apiErr.StatusCode == 0 {
		huduRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
	}

	c.notifier.Publish(events.Event{
		Type: EventTypeRequestError,
		Payload: map[string]any{
			"method": method,
			"path":   path,
			"status": apiErr.StatusCode,
			"kind":   string(apiErr.Kind),
		},
	})
}

// readBody drains and returns the response body.
func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// EventTypeFor derives the lifecycle event type for a successful request
// from the HTTP method and the first path segment:
// GET companies/5 -> "get_companies".
func EventTypeFor(method, path string) string {
	segment := strings.Trim(path, "/")
	if i := strings.IndexByte(segment, '/'); i >= 0 {
		segment = segment[:i]
	}
	return strings.ToLower(method) + "_" + segment
}
