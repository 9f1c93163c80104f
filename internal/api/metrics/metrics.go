// Package metrics defines and registers all custom Prometheus metrics for the
// meetgate access service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "meetgate"

// ── Signup workflow metrics ───────────────────────────────────────────────────

// SignupSubmissionsTotal counts signup request submissions.
// Label:
//   - outcome: "accepted" or "duplicate_email"
var SignupSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signup_submissions_total",
		Help:      "Total number of signup request submissions, by outcome.",
	},
	[]string{"outcome"},
)

// SignupDecisionsTotal counts admin decisions on signup requests.
// Label:
//   - decision: "approved", "rejected", or "reset"
var SignupDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signup_decisions_total",
		Help:      "Total number of decisions applied to signup requests.",
	},
	[]string{"decision"},
)

// SignupDecisionSeconds observes how long decision handling takes end to end,
// including account creation on approval.
// Label:
//   - decision: "approved", "rejected", or "reset"
var SignupDecisionSeconds = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "signup_decision_duration_seconds",
		Help:      "Time spent handling signup request decisions.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"decision"},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthDeniedTotal counts requests rejected by role checks.
// Label:
//   - gate: the middleware gate that denied ("admin_like", "registered", "rbac")
var AuthDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_denied_total",
		Help:      "Total number of requests denied by role-based access control.",
	},
	[]string{"gate"},
)

// RoleChangesTotal counts successful account role changes.
// Label:
//   - new_role: the role assigned
var RoleChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_changes_total",
		Help:      "Total number of account role changes, by assigned role.",
	},
	[]string{"new_role"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsSentTotal counts decision notices delivered successfully.
// Label:
//   - status: the request status notified ("approved", "rejected")
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of signup decision notices delivered.",
	},
	[]string{"status"},
)

// NotificationsErrorsTotal counts notices that failed delivery.
var NotificationsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_errors_total",
		Help:      "Total number of signup decision notices that failed delivery.",
	},
	[]string{"status"},
)

// NotificationsQueueDepth tracks notices waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notifications_queue_depth",
		Help:      "Current number of notices pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
