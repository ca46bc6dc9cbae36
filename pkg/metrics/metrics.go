// Package metrics provides the centralized Prometheus metrics registry
// for the Spotify Web API client. All metrics are defined in their
// respective packages (client, cache, ratelimit, paging, bulk) to
// maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - spotify_retry_window_seconds (Gauge): Seconds remaining in the open Retry-After window
//   - spotify_rate_limit_blocks_total (Counter): Requests blocked by an open Retry-After window
//   - spotify_rate_limit_hits_total (Counter): 429 responses observed
//
// Cache Metrics (pkg/cache):
//   - spotify_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - spotify_cache_misses_total (Counter): Cache misses
//   - spotify_cache_size_bytes{layer="redis"} (Gauge): Current cache size in bytes
//   - spotify_304_responses_total (Counter): 304 Not Modified responses
//   - spotify_conditional_requests_total (Counter): Conditional requests sent with If-None-Match
//   - spotify_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - spotify_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - spotify_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - spotify_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/client):
//   - spotify_retries_total{error_class} (Counter): Retry attempts by error class
//   - spotify_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - spotify_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Pagination Metrics (pkg/paging):
//   - spotify_page_fetches_total{kind, direction} (Counter): Page fetches by payload kind and direction
//   - spotify_collect_walk_pages{kind} (Histogram): Pages gathered per collection walk
//
// Bulk Metrics (pkg/bulk):
//   - spotify_bulk_chunks_total (Counter): Chunked sub-requests issued
//   - spotify_bulk_rejected_total (Counter): Bulk requests rejected for exceeding the per-request limit
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(spotify_cache_hits_total[5m])) /
//   (sum(rate(spotify_cache_hits_total[5m])) + sum(rate(spotify_cache_misses_total[5m])))
//
//   # Open Retry-After Window
//   spotify_retry_window_seconds > 0
//
//   # Request Error Rate
//   rate(spotify_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(spotify_request_duration_seconds_bucket[5m]))
//
//   # 304 Response Rate
//   rate(spotify_304_responses_total[5m]) / rate(spotify_requests_total[5m])
//
//   # Pages Walked Per Collection
//   histogram_quantile(0.95, rate(spotify_collect_walk_pages_bucket[5m]))
