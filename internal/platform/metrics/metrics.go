// Package metrics holds the Prometheus collectors of the CRM.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crm"

// Metrics groups every collector. A nil *Metrics is valid and records nothing,
// so services can run without instrumentation in tests.
type Metrics struct {
	registry *prometheus.Registry

	ConcurrencyConflicts  *prometheus.CounterVec
	AttendanceTransitions *prometheus.CounterVec
	LedgerEntries         *prometheus.CounterVec
	ReconciledClients     *prometheus.CounterVec
	ReconcileDuration     prometheus.Histogram
	HTTPRequests          *prometheus.CounterVec
	HTTPDuration          *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ConcurrencyConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "concurrency_conflicts_total",
			Help:      "Optimistic concurrency conflicts hit by ledger operations, retried or not.",
		}, []string{"operation"}),
		AttendanceTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attendance",
			Name:      "transitions_total",
			Help:      "Attendance transitions by kind and ledger effect.",
		}, []string{"transition", "effect"}),
		LedgerEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "entries_total",
			Help:      "Ledger entries appended, by kind.",
		}, []string{"kind"}),
		ReconciledClients: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconciliation",
			Name:      "clients_total",
			Help:      "Clients processed by reconciliation, by outcome.",
		}, []string{"outcome"}),
		ReconcileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reconciliation",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full reconciliation run.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Conflict counts an optimistic concurrency conflict.
func (m *Metrics) Conflict(operation string) {
	if m == nil {
		return
	}
	m.ConcurrencyConflicts.WithLabelValues(operation).Inc()
}

// Attendance counts one attendance transition.
func (m *Metrics) Attendance(transition, effect string) {
	if m == nil {
		return
	}
	m.AttendanceTransitions.WithLabelValues(transition, effect).Inc()
}

// LedgerEntry counts an appended ledger entry.
func (m *Metrics) LedgerEntry(kind string) {
	if m == nil {
		return
	}
	m.LedgerEntries.WithLabelValues(kind).Inc()
}

// Reconciled counts a client processed by reconciliation.
func (m *Metrics) Reconciled(outcome string) {
	if m == nil {
		return
	}
	m.ReconciledClients.WithLabelValues(outcome).Inc()
}

// ObserveReconcile records the duration of a full run.
func (m *Metrics) ObserveReconcile(d time.Duration) {
	if m == nil {
		return
	}
	m.ReconcileDuration.Observe(d.Seconds())
}

// GinMiddleware records request counts and latency per route template.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
