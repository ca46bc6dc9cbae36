// Package ratelimit implements Spotify rate limit tracking and request
// gating. Spotify applies a rolling 30-second request window and answers
// 429 Too Many Requests with a Retry-After header; the tracker shares the
// open Retry-After window across all client instances via Redis so a
// fleet backs off together.
package ratelimit

import (
	"time"
)

// Redis keys for rate limit state storage.
const (
	RedisKeyRetryUntil = "spotify:rate_limit:retry_until"
	RedisKeyLastUpdate = "spotify:rate_limit:last_update"
)

// DefaultRetryAfter is assumed when a 429 response carries no usable
// Retry-After header.
const DefaultRetryAfter = 5 * time.Second

// State represents the current rate limit state shared across client
// instances.
type State struct {
	// RetryUntil is the end of the currently open Retry-After window.
	// Zero when no window is open.
	RetryUntil time.Time `json:"retry_until"`

	// LastUpdate is when this state was last written.
	LastUpdate time.Time `json:"last_update"`
}

// Blocked returns true while a Retry-After window is open.
func (s *State) Blocked() bool {
	return time.Now().Before(s.RetryUntil)
}

// TimeUntilClear returns the duration until the open window closes.
// Returns 0 when no window is open.
func (s *State) TimeUntilClear() time.Duration {
	d := time.Until(s.RetryUntil)
	if d < 0 {
		return 0
	}
	return d
}

// IsStale returns true if the state data is older than the given duration.
func (s *State) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}
