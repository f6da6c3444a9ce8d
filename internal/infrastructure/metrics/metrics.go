// Package metrics defines the custom Prometheus metrics of the feedback
// portal. Metrics are registered with the default registry on package init
// through promauto; HTTP request metrics come from the echoprometheus
// middleware wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feedback_portal"

// ── Auth ──────────────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "invalid"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// GateRedirectsTotal counts redirects issued by the page gate.
// Label:
//   - reason: "public_with_marker", "login_required", "wrong_area", "reset"
var GateRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_redirects_total",
		Help:      "Total number of redirects issued by the page gate, by reason.",
	},
	[]string{"reason"},
)

// ── Feedback ──────────────────────────────────────────────────────────────────

// FeedbackCreatedTotal counts new submissions.
// Label:
//   - rating: "1" … "5"
var FeedbackCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_created_total",
		Help:      "Total number of feedback submissions, by rating.",
	},
	[]string{"rating"},
)

// FeedbackResponsesTotal counts administrator responses written.
var FeedbackResponsesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_responses_total",
		Help:      "Total number of administrator responses written.",
	},
)

// ── Suggestions ───────────────────────────────────────────────────────────────

// SuggestionsTotal counts suggestion lookups.
// Label:
//   - result: "cache_hit", "generated", "error", "disabled"
var SuggestionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "suggestions_total",
		Help:      "Total number of AI suggestion lookups, by result.",
	},
	[]string{"result"},
)

// PrefetchQueueDepth tracks jobs waiting in each prefetch worker channel.
var PrefetchQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "prefetch_queue_depth",
		Help:      "Current number of suggestion prefetch jobs pending per worker.",
	},
	[]string{"worker_id"},
)

// PrefetchDroppedTotal counts prefetch jobs dropped because a queue was full.
var PrefetchDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prefetch_dropped_total",
		Help:      "Total number of suggestion prefetch jobs dropped on a full queue.",
	},
)
