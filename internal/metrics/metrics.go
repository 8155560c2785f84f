// Package metrics defines and registers all custom Prometheus metrics for the
// student grievance portal. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "grievance_portal"

// ── Upstream gateway metrics ─────────────────────────────────────────────────

// UpstreamRequestsTotal counts requests sent to the grievance backend.
// Labels:
//   - path: the upstream path (e.g. "/student/grievance/my")
//   - outcome: "success" (2xx), "rejected" (non-2xx), or "error" (transport failure)
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests issued to the grievance backend.",
	},
	[]string{"path", "outcome"},
)

// UpstreamRequestDuration measures the round-trip time of backend calls.
// Label:
//   - path: the upstream path
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of grievance backend round trips.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"path"},
)

// ── Session metrics ──────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome ("success" or "failure").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of student login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// GuardRedirectsTotal counts unauthenticated navigations bounced to /login.
var GuardRedirectsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of guarded-route requests redirected to the login view.",
	},
)

// ── Quick-search metrics ─────────────────────────────────────────────────────

// SearchQueriesTotal counts quick-search queries by snapshot outcome.
// Label:
//   - snapshot: "hit" (served from cache) or "miss" (snapshot re-fetched)
var SearchQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_queries_total",
		Help:      "Total number of header quick-search queries, by snapshot outcome.",
	},
	[]string{"snapshot"},
)

// SnapshotRefreshesTotal counts snapshot refreshes by result.
// Label:
//   - result: "applied" or "stale" (lost the generation race)
var SnapshotRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_refreshes_total",
		Help:      "Total number of grievance snapshot refreshes, by result.",
	},
	[]string{"result"},
)
