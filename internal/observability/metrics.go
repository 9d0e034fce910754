// Package observability holds the tracker's Prometheus instrumentation.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics aggregates the daemon's counters. A nil *Metrics is valid and
// records nothing, so components never need to guard instrumentation.
type Metrics struct {
	eventsReceived     prometheus.Counter
	eventsIgnored      *prometheus.CounterVec
	eventsFailed       prometheus.Counter
	pointsCredited     prometheus.Counter
	windowsProvisioned prometheus.Counter
	grantsIssued       prometheus.Counter
	grantsFailed       prometheus.Counter
	cycleRuns          *prometheus.CounterVec
	cycleFailures      *prometheus.CounterVec
}

// NewMetrics registers the tracker's counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		eventsReceived: f.NewCounter(prometheus.CounterOpts{
			Name: "engaged_events_received_total",
			Help: "Inbound message events accepted off the queue.",
		}),
		eventsIgnored: f.NewCounterVec(prometheus.CounterOpts{
			Name: "engaged_events_ignored_total",
			Help: "Events skipped without a credit, by reason.",
		}, []string{"reason"}),
		eventsFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "engaged_events_failed_total",
			Help: "Events dropped because scoring or the credit failed.",
		}),
		pointsCredited: f.NewCounter(prometheus.CounterOpts{
			Name: "engaged_points_credited_total",
			Help: "Total points written to the ledger.",
		}),
		windowsProvisioned: f.NewCounter(prometheus.CounterOpts{
			Name: "engaged_charge_windows_provisioned_total",
			Help: "Weekly charge-window provisioning attempts that succeeded.",
		}),
		grantsIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "engaged_role_grants_issued_total",
			Help: "Role-grant requests dispatched to the platform bridge.",
		}),
		grantsFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "engaged_role_grants_failed_total",
			Help: "Role-grant requests that could not be dispatched.",
		}),
		cycleRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "engaged_cycle_runs_total",
			Help: "Scheduler cycle executions, by cycle.",
		}, []string{"cycle"}),
		cycleFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "engaged_cycle_failures_total",
			Help: "Scheduler cycle executions that ended in error, by cycle.",
		}, []string{"cycle"}),
	}
}

func (m *Metrics) EventReceived() {
	if m != nil {
		m.eventsReceived.Inc()
	}
}

func (m *Metrics) EventIgnored(reason string) {
	if m != nil {
		m.eventsIgnored.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) EventFailed() {
	if m != nil {
		m.eventsFailed.Inc()
	}
}

func (m *Metrics) PointsCredited(amount int64) {
	if m != nil {
		m.pointsCredited.Add(float64(amount))
	}
}

func (m *Metrics) WindowProvisioned() {
	if m != nil {
		m.windowsProvisioned.Inc()
	}
}

func (m *Metrics) GrantIssued() {
	if m != nil {
		m.grantsIssued.Inc()
	}
}

func (m *Metrics) GrantFailed() {
	if m != nil {
		m.grantsFailed.Inc()
	}
}

func (m *Metrics) CycleRan(cycle string) {
	if m != nil {
		m.cycleRuns.WithLabelValues(cycle).Inc()
	}
}

func (m *Metrics) CycleFailed(cycle string) {
	if m != nil {
		m.cycleFailures.WithLabelValues(cycle).Inc()
	}
}
