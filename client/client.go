// Package client is the Go SDK for the RxReturn pharmacy reverse-distribution
// platform. It wraps the platform's REST API with typed resource clients
// (auth, dashboard, documents, inventory, marketplace, optimization, packages,
// product lists, settings, subscriptions) over a shared authenticated
// transport.
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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/rxreturn/rxreturn-go/internal/credentials"
	"github.com/rxreturn/rxreturn-go/pkg/logger"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxBodySize = 8 << 20

	headerPharmacyID     = "X-Pharmacy-ID"
	headerRequestID      = "X-Request-ID"
	headerIdempotencyKey = "X-Idempotency-Key"
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the platform API base URL, e.g. https://api.rxreturn.io.
	BaseURL string
	// Credentials stores the token pair and cached session. When nil an
	// in-memory store is used and nothing survives the process.
	Credentials credentials.Store
	// HTTPClient executes requests. When nil a default client with a
	// conservative timeout is used.
	HTTPClient *http.Client
	// Logger receives transport and auth lifecycle logs.
	Logger *logger.Logger
	// RateLimit caps outgoing requests per second. Zero means unlimited.
	RateLimit rate.Limit
	// RateBurst is the limiter burst size, defaulting to 1 when a limit is set.
	RateBurst int
	// Registerer, when set, receives transport metrics (request counts and
	// durations by method and status class).
	Registerer prometheus.Registerer
	// MaxBodyBytes caps response bodies to prevent memory exhaustion.
	MaxBodyBytes int64
}

// Client is the RxReturn API client. All resource clients share its
// transport, credential store, and single-flight token refresh.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	creds        credentials.Store
	log          *logger.Logger
	limiter      *rate.Limiter
	metrics      *transportMetrics
	maxBodyBytes int64

	authMu    sync.Mutex
	authState AuthState
}

// New creates a new RxReturn client.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("client: BaseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("client: BaseURL must be a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("client: BaseURL scheme must be http or https")
	}
	if parsed.User != nil {
		return nil, fmt.Errorf("client: BaseURL must not include user info")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewDefault("rxreturn")
	}

	creds := cfg.Credentials
	if creds == nil {
		creds = credentials.NewMemoryStore()
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodySize
	}

	c := &Client{
		baseURL:      baseURL,
		httpClient:   httpClient,
		creds:        creds,
		log:          log,
		limiter:      limiter,
		metrics:      newTransportMetrics(cfg.Registerer),
		maxBodyBytes: maxBodyBytes,
		authState:    StateUnauthenticated,
	}
	c.Auth().Restore()
	return c, nil
}

// =============================================================================
// Resource Clients
// =============================================================================

// Auth returns the auth client.
func (c *Client) Auth() *AuthClient { return &AuthClient{client: c} }

// Dashboard returns the dashboard client.
func (c *Client) Dashboard() *DashboardClient { return &DashboardClient{client: c} }

// Documents returns the documents client.
func (c *Client) Documents() *DocumentsClient { return &DocumentsClient{client: c} }

// Inventory returns the inventory client.
func (c *Client) Inventory() *InventoryClient { return &InventoryClient{client: c} }

// Marketplace returns the marketplace client.
func (c *Client) Marketplace() *MarketplaceClient { return &MarketplaceClient{client: c} }

// Optimization returns the optimization client.
func (c *Client) Optimization() *OptimizationClient { return &OptimizationClient{client: c} }

// Packages returns the packages client.
func (c *Client) Packages() *PackagesClient { return &PackagesClient{client: c} }

// ProductLists returns the product lists client.
func (c *Client) ProductLists() *ProductListsClient { return &ProductListsClient{client: c} }

// Settings returns the settings client.
func (c *Client) Settings() *SettingsClient { return &SettingsClient{client: c} }

// Subscriptions returns the subscriptions client.
func (c *Client) Subscriptions() *SubscriptionsClient { return &SubscriptionsClient{client: c} }

// =============================================================================
// Transport
// =============================================================================

// request describes one API call before it hits the wire.
type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
}

// do executes a request and returns the response envelope untouched. On a 401
// with a stored refresh token it refreshes and retries exactly once; the
// refresh endpoint itself never goes through this path.
func (c *Client) do(ctx context.Context, req request) (*Envelope, error) {
	env, err := c.doOnce(ctx, req)
	if err != nil {
		return nil, err
	}

	if env.httpStatus == http.StatusUnauthorized &&
		req.path != pathAuthRefresh &&
		c.creds.RefreshToken() != "" {
		token, _ := c.Auth().RefreshAccessToken(ctx)
		if token == "" {
			return env, nil
		}
		c.log.WithField("path", req.path).Debug("retrying request after token refresh")
		return c.doOnce(ctx, req)
	}

	return env, nil
}

// doOnce executes a request without any refresh handling.
func (c *Client) doOnce(ctx context.Context, req request) (*Envelope, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("client: rate limit wait: %w", err)
		}
	}

	reqURL := c.baseURL + req.path
	if len(req.query) > 0 {
		reqURL += "?" + req.query.Encode()
	}

	var bodyReader io.Reader
	if req.body != nil {
		jsonBody, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("client: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set(headerRequestID, uuid.NewString())
	if token := c.creds.AccessToken(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if session, ok := c.creds.Session(); ok && session.PharmacyID != "" {
		httpReq.Header.Set(headerPharmacyID, session.PharmacyID)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.observeError(req.method)
		return nil, fmt.Errorf("client: execute request: %w", err)
	}
	defer resp.Body.Close()

	c.metrics.observe(req.method, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("client: read response body: %w", err)
	}

	env := &Envelope{httpStatus: resp.StatusCode}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, env); err != nil {
			// Non-envelope body, whatever the status code: a proxy's HTML
			// page must surface as an error, never as an empty result.
			env.Status = "error"
			env.Data = nil
			env.Message = strings.TrimSpace(string(raw))
		}
	}
	if env.Status == "" {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			env.Status = StatusSuccess
		} else {
			env.Status = "error"
			if env.Message == "" {
				env.Message = resp.Status
			}
		}
	}

	return env, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query})
}

func (c *Client) post(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.do(ctx, request{method: http.MethodPost, path: path, body: body})
}

func (c *Client) patch(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.do(ctx, request{method: http.MethodPatch, path: path, body: body})
}

func (c *Client) delete(ctx context.Context, path string) (*Envelope, error) {
	return c.do(ctx, request{method: http.MethodDelete, path: path})
}

// idempotencyHeader returns headers carrying a fresh idempotency key. Cart
// mutations attach one so the backend can recognize replays; the client does
// not deduplicate or sequence concurrent mutations itself.
func idempotencyHeader() map[string]string {
	return map[string]string{headerIdempotencyKey: uuid.NewString()}
}
