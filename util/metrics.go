package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	sessionsCreatedCounter     prometheus.Counter
	actionsAppliedCounter      prometheus.Counter
	timeoutFoldsCounter        prometheus.Counter
	transactionConflictCounter prometheus.Counter
	activeArbitersGauge        prometheus.Gauge
}

func (m *metrics) SessionCreated() {
	m.sessionsCreatedCounter.Inc()
}

func (m *metrics) ActionApplied() {
	m.actionsAppliedCounter.Inc()
}

func (m *metrics) TimeoutFold() {
	m.timeoutFoldsCounter.Inc()
}

func (m *metrics) TransactionConflict() {
	m.transactionConflictCounter.Inc()
}

func (m *metrics) SetActiveArbiters(count int) {
	m.activeArbitersGauge.Set(float64(count))
}

var Metrics = &metrics{
	sessionsCreatedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_created_total",
		Help: "Total number of sessions created",
	}),
	actionsAppliedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "actions_applied_total",
		Help: "Total number of player actions committed",
	}),
	timeoutFoldsCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "timeout_folds_total",
		Help: "Total number of folds forced by the turn timer",
	}),
	transactionConflictCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "store_transaction_conflicts_total",
		Help: "Total number of optimistic transaction retries",
	}),
	activeArbitersGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "active_session_arbiters",
		Help: "Count of sessions with a running arbiter",
	}),
}
