// Package metrics defines and registers all custom Prometheus metrics for the
// workshop console. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package init via
// promauto and exposed by the view server at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "workshop_console"

// ── Session metrics ───────────────────────────────────────────────────────────

// TokenRefreshTotal counts backend token refresh calls.
// Label:
//   - result: "ok" or "failed"
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of access token refresh calls made to the backend.",
	},
	[]string{"result"},
)

// TokenRefreshShared counts callers that reused a refresh already in flight
// or already completed instead of issuing their own.
var TokenRefreshShared = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_shared_total",
		Help:      "Total number of 401 retries served by a shared or already rotated token.",
	},
)

// ── Realtime metrics ──────────────────────────────────────────────────────────

// RealtimeConnected is 1 while the backend feed is connected.
var RealtimeConnected = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_connected",
		Help:      "Whether the backend realtime feed is currently connected.",
	},
)

// RealtimeReconnectsTotal counts scheduled reconnect attempts.
var RealtimeReconnectsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_reconnects_total",
		Help:      "Total number of realtime reconnect attempts.",
	},
)

// RealtimeEventsTotal counts inbound realtime messages.
// Labels:
//   - type: "order", "shift", "connection_established" or "invalid"
//   - outcome: "delivered" or "dropped"
var RealtimeEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_events_total",
		Help:      "Total number of realtime messages received, by type and outcome.",
	},
	[]string{"type", "outcome"},
)

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreRefreshTotal counts store reloads.
// Labels:
//   - store: "orders", "shift" or "statistics"
//   - result: "applied", "stale" or "error"
var StoreRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_refresh_total",
		Help:      "Total number of store refreshes, labelled by store and result.",
	},
	[]string{"store", "result"},
)

// StoreRefreshDuration measures backend round trips for store reloads.
var StoreRefreshDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_refresh_duration_seconds",
		Help:      "Duration of store refresh calls against the backend.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"store"},
)

// ── Dispatcher metrics ────────────────────────────────────────────────────────

// EventsQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Live view metrics ─────────────────────────────────────────────────────────

// LiveSubscribers is the number of open /api/live connections.
var LiveSubscribers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_subscribers",
		Help:      "Current number of live board subscribers.",
	},
)
