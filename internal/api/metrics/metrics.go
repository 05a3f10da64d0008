// Package metrics defines the Prometheus metrics of the reference backend.
// Metrics register with the default registry on package init through promauto
// and are exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gemach"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts calls to the /auth endpoints.
// Labels:
//   - action: login, register, refresh or logout
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication requests, by action and result.",
	},
	[]string{"action", "result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditRecordedTotal counts audit entries persisted by the dispatcher workers.
var AuditRecordedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_recorded_total",
		Help:      "Total number of audit entries persisted.",
	},
)

// AuditErrorsTotal counts audit entries that were lost.
// Label:
//   - reason: "queue_full" or "persist_failed"
var AuditErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of audit entries dropped or not persisted.",
	},
	[]string{"reason"},
)

// AuditQueueDepth tracks entries waiting in each dispatcher worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditPersistDuration measures one Record call from dequeue to storage.
var AuditPersistDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_persist_duration_seconds",
		Help:      "Duration of audit entry persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)
