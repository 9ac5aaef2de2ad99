// Package metrics defines all custom Prometheus metrics for the board
// gateway. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry at import time via
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "boardgw"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsStartedTotal counts successful logins.
// Label:
//   - method: "token" (direct bearer exchange) or "credentials"
var SessionsStartedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_started_total",
		Help:      "Total number of sessions started, by login method.",
	},
	[]string{"method"},
)

// SessionsEndedTotal counts explicit logouts.
var SessionsEndedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_ended_total",
		Help:      "Total number of sessions ended by logout.",
	},
)

// ProfileFetchFailuresTotal counts failed upstream profile fetches, both at
// login and during auto-resume.
var ProfileFetchFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_fetch_failures_total",
		Help:      "Total number of profile fetches that did not resolve an identity.",
	},
)

// ── Guard metrics ─────────────────────────────────────────────────────────────

// GuardRedirectsTotal counts navigations the guard bounced.
// Label:
//   - reason: "unauthenticated" or "no_scope"
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of navigations redirected by the route guard.",
	},
	[]string{"reason"},
)

// PolicyDeniedTotal counts navigations blocked by the visibility policy.
// Label:
//   - destination: the screen that was denied
var PolicyDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_denied_total",
		Help:      "Total number of navigations denied by the role visibility policy.",
	},
	[]string{"destination"},
)

// ScopeSelectedTotal counts project selections.
var ScopeSelectedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scope_selected_total",
		Help:      "Total number of project scope selections.",
	},
)

// ── Upstream metrics ──────────────────────────────────────────────────────────

// UpstreamRequestDuration measures the latency of calls to the board API.
// Label:
//   - method: HTTP method of the upstream call
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of requests to the upstream board API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// UpstreamErrorsTotal counts failed upstream calls.
// Label:
//   - reason: "transport", "read", or "decode"
var UpstreamErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Total number of upstream calls that failed before yielding a response.",
	},
	[]string{"reason"},
)

// ── Activity trail metrics ────────────────────────────────────────────────────

// ActivityQueueDepth tracks the number of events waiting in each recorder
// worker channel.
// Label:
//   - worker_id: numeric worker index
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity events pending per recorder worker.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts events dropped because a shard buffer was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity events dropped due to backpressure.",
	},
)
