// Package metrics provides the centralized Prometheus metrics registry for
// the Hudu client. All metrics are defined in their respective packages
// (client, cache, events, ratelimit) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the Hudu client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - hudu_rate_limit_permits_acquired_total (Counter): Permits handed out by the token bucket
//   - hudu_rate_limit_wait_seconds (Histogram): Time callers spent waiting for a permit
//   - hudu_rate_limit_shared_blocks_total (Counter): Waits imposed by the shared Redis window
//
// Cache Metrics (pkg/cache):
//   - hudu_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - hudu_cache_misses_total (Counter): Cache misses
//   - hudu_cache_size_bytes{layer="redis"} (Gauge): Current cache size in bytes
//   - hudu_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - hudu_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - hudu_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - hudu_errors_total{kind} (Counter): Errors by kind (not_found, unauthorized, transient, permanent, validation)
//
// Retry Metrics (pkg/client):
//   - hudu_retries_total{error_kind} (Counter): Retry attempts by error kind
//   - hudu_retry_backoff_seconds{error_kind} (Histogram): Backoff duration by error kind
//   - hudu_retry_exhausted_total{error_kind} (Counter): Operations that exhausted max retries
//
// Event Metrics (pkg/events):
//   - hudu_events_published_total{type} (Counter): Lifecycle events accepted for delivery
//   - hudu_events_dropped_total{reason} (Counter): Events dropped (overflow, closed, shutdown)
//   - hudu_event_handler_panics_total (Counter): Handler panics recovered during delivery
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(hudu_cache_hits_total[5m])) /
//   (sum(rate(hudu_cache_hits_total[5m])) + sum(rate(hudu_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(hudu_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(hudu_request_duration_seconds_bucket[5m]))
//
//   # Rate Limit Pressure
//   histogram_quantile(0.95, rate(hudu_rate_limit_wait_seconds_bucket[5m]))
