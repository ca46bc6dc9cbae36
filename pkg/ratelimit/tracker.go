package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for rate limit tracking.
var (
	retryWindowSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spotify_retry_window_seconds",
		Help: "Seconds remaining in the currently open Retry-After window",
	})

	rateLimitBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spotify_rate_limit_blocks_total",
		Help: "Total number of requests blocked by an open Retry-After window",
	})

	rateLimitHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "spotify_rate_limit_hits_total",
		Help: "Total number of 429 responses observed",
	})
)

// Tracker monitors Spotify Retry-After windows and gates requests.
type Tracker struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// NewTracker creates a new rate limit tracker.
func NewTracker(redisClient *redis.Client, logger zerolog.Logger) *Tracker {
	return &Tracker{
		redis:  redisClient,
		logger: logger,
	}
}

// GetState retrieves the current rate limit state from Redis.
// Returns a clear state if no window is recorded.
func (t *Tracker) GetState(ctx context.Context) (*State, error) {
	retryUntil, err := t.redis.Get(ctx, RedisKeyRetryUntil).Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get retry until: %w", err)
	}
	if err == redis.Nil {
		return &State{LastUpdate: time.Now()}, nil
	}

	lastUpdate, err := t.redis.Get(ctx, RedisKeyLastUpdate).Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get last update: %w", err)
	}

	return &State{
		RetryUntil: time.Unix(retryUntil, 0),
		LastUpdate: time.Unix(lastUpdate, 0),
	}, nil
}

// UpdateFromResponse records a Retry-After window when the response is a
// 429. Other status codes clear nothing; windows expire on their own via
// key TTL.
func (t *Tracker) UpdateFromResponse(ctx context.Context, statusCode int, headers http.Header) error {
	if statusCode != http.StatusTooManyRequests {
		return nil
	}

	rateLimitHitsTotal.Inc()

	wait := parseRetryAfter(headers.Get("Retry-After"))
	now := time.Now()
	retryUntil := now.Add(wait)

	pipe := t.redis.Pipeline()
	pipe.Set(ctx, RedisKeyRetryUntil, retryUntil.Unix(), wait)
	pipe.Set(ctx, RedisKeyLastUpdate, now.Unix(), 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store rate limit state in redis: %w", err)
	}

	retryWindowSeconds.Set(wait.Seconds())

	t.logger.Warn().
		Dur("retry_after", wait).
		Time("retry_until", retryUntil).
		Msg("Rate limit window opened by 429 response")

	return nil
}

// ShouldAllowRequest checks whether a request may proceed. Returns false
// while a shared Retry-After window is open.
func (t *Tracker) ShouldAllowRequest(ctx context.Context) (bool, error) {
	state, err := t.GetState(ctx)
	if err != nil {
		return false, fmt.Errorf("get rate limit state: %w", err)
	}

	if state.Blocked() {
		wait := state.TimeUntilClear()

		t.logger.Warn().
			Dur("wait_duration", wait).
			Msg("Request blocked by open Retry-After window")

		rateLimitBlocksTotal.Inc()
		retryWindowSeconds.Set(wait.Seconds())
		return false, nil
	}

	retryWindowSeconds.Set(0)
	return true, nil
}

// parseRetryAfter parses a Retry-After header value: delay seconds per
// the Spotify documentation, HTTP-date as a fallback.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return DefaultRetryAfter
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return DefaultRetryAfter
		}
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}

	return DefaultRetryAfter
}
