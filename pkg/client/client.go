// Package client provides the core Spotify Web API HTTP client with
// rate limiting, caching, and error handling.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/cache"
	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/ratelimit"
	"github.com/E-Corp-Inc/spotify-web-api-go/pkg/scopes"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the Spotify Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1"

// Prometheus metrics for Web API client operations.
var (
	spotifyRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spotify_requests_total",
		Help: "Total Web API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	spotifyRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spotify_request_duration_seconds",
		Help:    "Web API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	spotifyErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spotify_errors_total",
		Help: "Total Web API errors by class",
	}, []string{"class"})
)

// ErrorClass represents a classification of HTTP errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 rate limit errors.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// Client is the main Web API client.
type Client struct {
	httpClient  *http.Client
	redis       *redis.Client
	rateLimiter *ratelimit.Tracker
	cache       *cache.Manager
	config      Config
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// AccessToken is the OAuth bearer token sent with every request.
	AccessToken string

	// Scopes is the set of scopes the token was granted. Operations
	// that need a scope are checked against this set before any
	// request is made.
	Scopes scopes.Set

	// User identifies the token owner. Cached responses are
	// partitioned by user so two tokens never see each other's data.
	User string

	// BaseURL overrides the Web API root (for testing against a mock
	// server). Defaults to DefaultBaseURL.
	BaseURL string

	// UserAgent identifies the application.
	// Format: "AppName/Version (contact@example.com)"
	UserAgent string

	// Redis client for caching and shared rate limit state. Optional:
	// when nil the client runs without a cache and tracks the
	// Retry-After window per process only.
	Redis *redis.Client

	// Retry
	MaxRetries     int
	InitialBackoff time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(accessToken string, granted scopes.Set) Config {
	return Config{
		AccessToken:    accessToken,
		Scopes:         granted,
		BaseURL:        DefaultBaseURL,
		UserAgent:      "spotify-web-api-go/1.0",
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
	}
}

// New creates a new Web API client.
func New(cfg Config) (*Client, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	logger := log.With().Str("component", "spotify-client").Logger()

	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		redis:  cfg.Redis,
		config: cfg,
		logger: logger,
	}

	// Cache and fleet-wide rate limit state need Redis
	if cfg.Redis != nil {
		c.rateLimiter = ratelimit.NewTracker(cfg.Redis, logger)
		c.cache = cache.NewManager(cfg.Redis)
	}

	return c, nil
}

// GrantedScopes returns the scopes the configured token was granted.
func (c *Client) GrantedScopes() scopes.Set {
	return c.config.Scopes
}

// RequireScopes fails with a MissingScopeError unless every required
// scope was granted to the configured token.
func (c *Client) RequireScopes(required ...scopes.Scope) error {
	return scopes.Require(c.config.Scopes, required, false)
}

// RequireAnyScope fails unless at least one of the listed scopes was
// granted to the configured token.
func (c *Client) RequireAnyScope(required ...scopes.Scope) error {
	return scopes.Require(c.config.Scopes, required, true)
}

// Do performs an HTTP request with rate limiting, caching, and error handling.
// This is the core request method that orchestrates all client features.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := req.URL.Path

	startTime := time.Now()
	defer func() {
		spotifyRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: Check Rate Limit
	if c.rateLimiter != nil {
		allowed, err := c.rateLimiter.ShouldAllowRequest(ctx)
		if err != nil {
			c.logger.Error().Err(err).Msg("Rate limit check failed")
			return nil, fmt.Errorf("rate limit check: %w", err)
		}
		if !allowed {
			c.logger.Warn().
				Str("endpoint", endpoint).
				Msg("Request blocked, Retry-After window still open")
			spotifyRequestsTotal.WithLabelValues(endpoint, "rate_limited").Inc()
			return nil, &APIError{
				StatusCode: http.StatusTooManyRequests,
				ErrorClass: ErrorClassRateLimit,
				Message:    "request blocked: Retry-After window still open",
			}
		}
	}

	// Step 2: Check Cache (GET only)
	var cachedEntry *cache.Entry
	var cacheKey cache.Key
	cacheable := c.cache != nil && req.Method == http.MethodGet
	if cacheable {
		cacheKey = cache.KeyForURL(req.URL.String(), c.config.User)

		var err error
		cachedEntry, err = c.cache.Get(ctx, cacheKey)
		if err != nil && err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
	}

	// Step 3: Make Conditional Request if cache hit
	if cachedEntry != nil && cache.ShouldMakeConditionalRequest(cachedEntry) {
		cache.AddConditionalHeaders(req, cachedEntry)
		cache.ConditionalRequestsSent.Inc()
		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("etag", cachedEntry.ETag).
			Msg("Making conditional request")
	}

	// Step 4: Set standard headers
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	// Step 5: Execute HTTP Request with Retry Logic
	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", req.Method).
		Msg("Executing Web API request")

	var resp *http.Response
	var errClass ErrorClass

	retryErr := retryWithBackoff(ctx, func() error {
		var reqErr error
		resp, reqErr = c.httpClient.Do(req)

		// Handle network errors
		if reqErr != nil {
			c.logger.Error().Err(reqErr).Str("endpoint", endpoint).Msg("HTTP request failed")
			errClass = c.classifyError(nil, reqErr)
			spotifyErrorsTotal.WithLabelValues(string(errClass)).Inc()
			spotifyRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			return reqErr
		}

		// Record the Retry-After window on 429 so sibling clients back off too
		if c.rateLimiter != nil {
			if err := c.rateLimiter.UpdateFromResponse(ctx, resp.StatusCode, resp.Header); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to update rate limit state")
			}
		}

		// 304 Not Modified is a success, the cached entry is still valid
		if resp.StatusCode == http.StatusNotModified {
			return nil
		}

		if resp.StatusCode >= 400 {
			errClass = c.classifyError(resp, nil)
			spotifyErrorsTotal.WithLabelValues(string(errClass)).Inc()
			spotifyRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Str("error_class", string(errClass)).
				Msg("Web API request error")

			if shouldRetry(errClass) {
				retriable := &APIError{
					StatusCode: resp.StatusCode,
					ErrorClass: errClass,
					Message:    resp.Status,
				}
				resp.Body.Close()
				return retriable
			}

			// Don't retry client errors - let the caller handle the status
			return nil
		}

		spotifyRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()
		return nil
	}, func(error) ErrorClass {
		return errClass
	})

	if retryErr != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, retryErr
	}

	// Step 6: Handle 304 Not Modified
	if resp.StatusCode == http.StatusNotModified {
		c.logger.Debug().Str("endpoint", endpoint).Msg("304 Not Modified - using cache")
		spotifyRequestsTotal.WithLabelValues(endpoint, "304").Inc()
		cache.NotModifiedResponses.Inc()

		// The 304 carries fresh Cache-Control headers, extend the entry
		if cacheable && cachedEntry != nil {
			newExpires := cache.Freshness(resp.Header)
			if err := c.cache.UpdateTTL(ctx, cacheKey, newExpires); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to update cache TTL")
			}
		}

		resp.Body.Close()
		return cache.EntryToResponse(cachedEntry), nil
	}

	// Step 7: Update Cache on success
	if cacheable && resp.StatusCode == http.StatusOK {
		entry, err := cache.ResponseToEntry(resp)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to create cache entry")
		} else if entry.TTL() > 0 {
			if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to cache response")
			} else {
				c.logger.Debug().
					Str("endpoint", endpoint).
					Dur("ttl", entry.TTL()).
					Msg("Cached response")
			}
		}
	}

	return resp, nil
}

// classifyError categorizes an error for observability and handling.
func (c *Client) classifyError(resp *http.Response, err error) ErrorClass {
	if err != nil {
		return ErrorClassNetwork
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return ErrorClassClient
	case resp.StatusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// Get performs a GET request and returns the response body. The URL
// may be a path relative to the Web API root or an absolute URL, which
// is how paginated responses hand back their next/previous links.
// Responses with status >= 400 are returned as *APIError.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	resolved := rawURL
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		if !strings.HasPrefix(rawURL, "/") {
			rawURL = "/" + rawURL
		}
		resolved = c.config.BaseURL + rawURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: c.classifyError(resp, nil),
			Message:    parseErrorMessage(body, resp.Status),
		}
	}

	return body, nil
}

// Close closes the client and releases resources.
func (c *Client) Close() error {
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Cache returns the cache manager, nil when the client was created
// without Redis.
func (c *Client) Cache() *cache.Manager {
	return c.cache
}
