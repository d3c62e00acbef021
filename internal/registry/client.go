package registry

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/rooforge/roowiz/internal/logging"
	"github.com/rooforge/roowiz/internal/redact"
)

// Default client settings, used when Options leaves a field zero.
const (
	DefaultTimeout       = 10 * time.Second
	DefaultRetryAttempts = 2
	DefaultRetryDelay    = time.Second
)

// maxResponseSize bounds catalog response bodies (4MB).
const maxResponseSize = 4 * 1024 * 1024

// Options configures a Client. The zero value is usable once BaseURL is set.
type Options struct {
	// BaseURL is the catalog root, e.g. https://registry.example.com/api/mcp.
	BaseURL string

	// Token is an optional bearer token sent with every request.
	Token string

	// Timeout bounds each HTTP request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// RetryAttempts is the number of retries after the initial request
	// fails with a retryable status. Defaults to DefaultRetryAttempts.
	// Set to a negative value to disable retries.
	RetryAttempts int

	// RetryDelay is the fixed wait between retries, overridden by a 429
	// response's Retry-After. Defaults to DefaultRetryDelay.
	RetryDelay time.Duration

	// CacheEnabled toggles response caching for unfiltered calls.
	CacheEnabled bool

	// HTTPClient overrides the underlying client, mainly for tests.
	HTTPClient *http.Client

	// Logger receives debug-level request/retry logging. Defaults to a
	// discarding logger.
	Logger *slog.Logger
}

// Client talks to the remote connector catalog. All reads; the catalog is
// never mutated. Safe for concurrent use.
type Client struct {
	baseURL       string
	token         string
	retryAttempts int
	retryDelay    time.Duration
	cacheEnabled  bool
	httpClient    *http.Client
	logger        *slog.Logger
	cache         *memoryCache
}

// New creates a catalog client from the given options.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	retryAttempts := opts.RetryAttempts
	if retryAttempts == 0 {
		retryAttempts = DefaultRetryAttempts
	}
	if retryAttempts < 0 {
		retryAttempts = 0
	}

	retryDelay := opts.RetryDelay
	if retryDelay == 0 {
		retryDelay = DefaultRetryDelay
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscard()
	}

	return &Client{
		baseURL:       opts.BaseURL,
		token:         opts.Token,
		retryAttempts: retryAttempts,
		retryDelay:    retryDelay,
		cacheEnabled:  opts.CacheEnabled,
		httpClient:    httpClient,
		logger:        logger,
		cache:         newMemoryCache(),
	}
}

// GetServers lists catalog connectors. Unfiltered listings are cached for
// five minutes; any filter bypasses the cache.
func (c *Client) GetServers(ctx context.Context, filter ServerFilter) (*ServerList, error) {
	const key = "servers"

	useCache := c.cacheEnabled && !filter.HasFilters()
	if useCache {
		if v, ok := c.cache.get(key); ok {
			return v.(*ServerList), nil
		}
	}

	var list ServerList
	rl, err := c.doGet(ctx, "/servers", filter.Values(), "servers", &list)
	if err != nil {
		return nil, err
	}
	list.RateLimit = rl

	if useCache {
		c.cache.set(key, &list, serversTTL)
	}
	return &list, nil
}

// GetServerDetails fetches the full metadata for one connector.
// Details are cached for an hour per connector id.
func (c *Client) GetServerDetails(ctx context.Context, id string) (*ConnectorMetadata, error) {
	if id == "" {
		return nil, errors.New("connector id is required")
	}

	key := "details:" + id
	if c.cacheEnabled {
		if v, ok := c.cache.get(key); ok {
			return v.(*ConnectorMetadata), nil
		}
	}

	var meta ConnectorMetadata
	if _, err := c.doGet(ctx, "/servers/"+url.PathEscape(id), nil, id, &meta); err != nil {
		return nil, err
	}

	if c.cacheEnabled {
		c.cache.set(key, &meta, detailsTTL)
	}
	return &meta, nil
}

// GetCategories fetches the catalog category list, cached for a day.
func (c *Client) GetCategories(ctx context.Context) (*CategoryList, error) {
	const key = "categories"

	if c.cacheEnabled {
		if v, ok := c.cache.get(key); ok {
			return v.(*CategoryList), nil
		}
	}

	var list CategoryList
	rl, err := c.doGet(ctx, "/categories", nil, "categories", &list)
	if err != nil {
		return nil, err
	}
	list.RateLimit = rl

	if c.cacheEnabled {
		c.cache.set(key, &list, categoriesTTL)
	}
	return &list, nil
}

// SearchServers runs a free-text catalog search. Search results are never
// cached.
func (c *Client) SearchServers(ctx context.Context, query SearchQuery) (*SearchResults, error) {
	if query.Q == "" {
		return nil, errors.New("search query is required")
	}

	var results SearchResults
	rl, err := c.doGet(ctx, "/search", query.Values(), "search", &results)
	if err != nil {
		return nil, err
	}
	results.RateLimit = rl
	return &results, nil
}

// ClearCache drops every cached response.
func (c *Client) ClearCache() {
	c.cache.clear()
}

// doGet performs a GET with retry. Retryable failures (network errors, 5xx,
// 429) are retried up to the configured attempt count with the fixed delay;
// a 429's Retry-After overrides the delay. Other 4xx fail immediately.
func (c *Client) doGet(ctx context.Context, path string, query url.Values, resource string, out any) (RateLimit, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	for attempt := 0; ; attempt++ {
		rl, err := c.attempt(ctx, u, resource, out)
		if err == nil {
			c.logger.Debug("registry request succeeded",
				"url", redact.MaskURL(u),
				"rate_limit_remaining", rl.Remaining)
			return rl, nil
		}

		if !retryable(err) || attempt >= c.retryAttempts {
			return RateLimit{}, err
		}

		delay := c.retryDelay
		var rateErr *RateLimitError
		if errors.As(err, &rateErr) && rateErr.RetryAfter > 0 {
			delay = rateErr.RetryAfter
		}

		c.logger.Debug("retrying registry request",
			"path", path,
			"attempt", attempt+1,
			"delay", delay,
			"cause", err)

		if err := sleepContext(ctx, delay); err != nil {
			return RateLimit{}, err
		}
	}
}

// attempt performs a single HTTP round trip.
func (c *Client) attempt(ctx context.Context, u, resource string, out any) (RateLimit, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return RateLimit{}, errors.Wrap(err, "building registry request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return RateLimit{}, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return RateLimit{}, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return RateLimit{}, errorFromResponse(resp.StatusCode, body, resp.Header, resource)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return RateLimit{}, errors.Wrap(err, "decoding registry response")
	}

	return parseRateLimit(resp.Header), nil
}

// retryable reports whether the error warrants another attempt.
func retryable(err error) bool {
	var netErr *NetworkError
	var srvErr *ServerError
	var rateErr *RateLimitError
	return errors.As(err, &netErr) || errors.As(err, &srvErr) || errors.As(err, &rateErr)
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
