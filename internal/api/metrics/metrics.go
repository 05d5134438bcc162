// Package metrics defines and registers all custom Prometheus metrics for the
// nursing services API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nursing"

// ── Lifecycle metrics ─────────────────────────────────────────────────────────

// TransitionsTotal counts lifecycle transition attempts.
// Labels:
//   - transition: create, accept, reject, collect_payment, complete, file_report
//   - outcome: ok, forbidden, conflict, not_found, invalid, error
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "service_request_transitions_total",
		Help:      "Total number of service request transition attempts, by outcome.",
	},
	[]string{"transition", "outcome"},
)

// TransitionDuration measures a transition from handler entry to response.
var TransitionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "service_request_transition_duration_seconds",
		Help:      "Duration of service request transitions.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"transition"},
)

// PaymentsCollectedAmount sums collected payment amounts.
var PaymentsCollectedAmount = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_collected_amount_total",
		Help:      "Sum of all collected payment amounts.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts rejected requests at the auth boundary.
// Label:
//   - reason: missing_header, bad_scheme, malformed, expired, credentials
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of authentication failures, by reason.",
	},
	[]string{"reason"},
)

// ── Audit dispatcher metrics ──────────────────────────────────────────────────

// AuditQueueDepth tracks the number of events waiting in each worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of lifecycle events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit events by result.
// Label:
//   - result: recorded, failed, dropped
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of lifecycle audit events, by result.",
	},
	[]string{"result"},
)
