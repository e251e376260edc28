// Package observability defines the Prometheus metrics exported by the
// engine. Metrics are package-level promauto collectors registered against
// the default registry; the API server exposes them on /metrics when
// enabled.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Skill Execution Metrics ────────────────────────────────────────────────

// SkillExecutions counts skill invocations by skill name and terminal status.
var SkillExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "contentengine",
	Subsystem: "skills",
	Name:      "executions_total",
	Help:      "Total skill executions by skill and status.",
}, []string{"skill", "status"})

// SkillLatency tracks wall-clock skill execution latency.
var SkillLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "contentengine",
	Subsystem: "skills",
	Name:      "latency_ms",
	Help:      "Skill execution latency in milliseconds.",
	Buckets:   []float64{5, 25, 100, 250, 500, 1000, 2500, 5000, 15000},
}, []string{"skill"})

// ─── Credit Ledger Metrics ──────────────────────────────────────────────────

// CreditsCharged counts credits consumed through successful charges.
var CreditsCharged = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "contentengine",
	Subsystem: "credits",
	Name:      "charged_total",
	Help:      "Total credits charged by skill.",
}, []string{"skill"})

// ChargesWaived counts executions that ran free, by reason.
var ChargesWaived = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "contentengine",
	Subsystem: "credits",
	Name:      "waived_total",
	Help:      "Total free executions by waiver reason (audit_only, repeat, zero_cost).",
}, []string{"reason"})

// ChargeFailures counts charge rejections by cause.
var ChargeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "contentengine",
	Subsystem: "credits",
	Name:      "charge_failures_total",
	Help:      "Total rejected charges by cause (insufficient, disabled, not_configured).",
}, []string{"cause"})

// ─── API Metrics ────────────────────────────────────────────────────────────

// HTTPRequests counts API requests by route and status code class.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "contentengine",
	Subsystem: "api",
	Name:      "requests_total",
	Help:      "Total HTTP requests by route and status class.",
}, []string{"route", "class"})
