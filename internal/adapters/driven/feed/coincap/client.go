package coincap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
	"github.com/custodia-labs/assetdeck/internal/core/ports/driven"
	"github.com/custodia-labs/assetdeck/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.AssetFeed = (*Client)(nil)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 15 * time.Second

	// MaxRetries is the maximum number of retries for transient errors.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries. It doubles per attempt.
	RetryDelay = time.Second

	// RequestIDHeader carries a per-request UUID for support tickets.
	RequestIDHeader = "X-Request-Id"

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 4 << 10
)

var log = logger.For("coincap")

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, e.g. https://api.coincap.io/v2.
	BaseURL string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Timeout bounds each HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration

	// RequestsPerSecond is the sustained request rate. Zero means 2.
	RequestsPerSecond float64

	// Burst is the token bucket size. Zero means 4.
	Burst int

	// MaxRetries caps retries of 429 and 5xx responses.
	// Negative disables retries; zero means MaxRetries.
	MaxRetries int

	// RetryDelay is the first retry delay. Zero means RetryDelay.
	RetryDelay time.Duration

	// Transport overrides the base round tripper, mainly for tests.
	Transport http.RoundTripper
}

// ConfigFromSettings builds a Config from feed settings.
func ConfigFromSettings(s domain.FeedSettings) Config {
	return Config{
		BaseURL:           s.BaseURL,
		APIKey:            s.APIKey,
		Timeout:           time.Duration(s.TimeoutSeconds) * time.Second,
		RequestsPerSecond: s.RequestsPerSecond,
	}
}

// Client is an HTTP client for the asset feed.
type Client struct {
	http        *http.Client
	baseURL     string
	rateLimiter *RateLimiter
	maxRetries  int
	retryDelay  time.Duration
}

// NewClient creates a new feed client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultFeedBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 4
	}
	switch {
	case cfg.MaxRetries == 0:
		cfg.MaxRetries = MaxRetries
	case cfg.MaxRetries < 0:
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = RetryDelay
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if cfg.APIKey != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey}),
			Base:   transport,
		}
	}

	return &Client{
		http:        &http.Client{Transport: transport, Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
	}
}

// envelope is the wrapper every response uses.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// errorBody is the shape of error responses.
type errorBody struct {
	Error string `json:"error"`
}

// ListAssets returns assets in rank order.
func (c *Client) ListAssets(ctx context.Context, query domain.AssetQuery) ([]domain.Asset, error) {
	params := url.Values{}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		params.Set("offset", strconv.Itoa(query.Offset))
	}
	if s := strings.TrimSpace(query.Search); s != "" {
		params.Set("search", s)
	}
	if len(query.IDs) > 0 {
		ids := make([]string, len(query.IDs))
		for i, id := range query.IDs {
			ids[i] = id.String()
		}
		params.Set("ids", strings.Join(ids, ","))
	}

	var assets []domain.Asset
	if err := c.get(ctx, "/assets", params, &assets); err != nil {
		return nil, err
	}
	if assets == nil {
		assets = []domain.Asset{}
	}
	return assets, nil
}

// GetAsset returns a single asset.
func (c *Client) GetAsset(ctx context.Context, id domain.AssetID) (*domain.Asset, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	var asset *domain.Asset
	if err := c.get(ctx, "/assets/"+url.PathEscape(id.String()), nil, &asset); err != nil {
		return nil, err
	}
	if asset == nil || asset.ID == "" {
		return nil, domain.ErrNotFound
	}
	return asset, nil
}

// get performs a GET with rate limiting and retries, decoding the
// envelope's data into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay << (attempt - 1)
			log.Debug("retrying %s in %s (attempt %d): %v", path, delay, attempt+1, lastErr)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}

		err := c.do(ctx, endpoint, out)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// do performs a single request.
func (c *Client) do(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &transportError{err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"), c.retryDelay)
		c.rateLimiter.RecordRateLimitError(retryAfter)
		return &RateLimitError{RetryAfter: retryAfter, RequestID: requestID}

	case resp.StatusCode != http.StatusOK:
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body, resp.Status),
			URL:        endpoint,
			RequestID:  requestID,
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrFeedUnavailable, err)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("%w: response has no data", domain.ErrFeedUnavailable)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", domain.ErrFeedUnavailable, err)
	}
	return nil
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(header string, fallback time.Duration) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs < 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

func readErrorMessage(body io.Reader, status string) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return status
	}
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
		return eb.Error
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		return status
	}
	return msg
}

// Ping checks that the feed answers a minimal listing.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.ListAssets(ctx, domain.AssetQuery{Limit: 1}); err != nil {
		return fmt.Errorf("feed unreachable at %s: %w", c.baseURL, err)
	}
	return nil
}
