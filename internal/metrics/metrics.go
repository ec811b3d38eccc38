// Package metrics exposes the Prometheus collectors of the ledger server.
//
// A nil *Metrics is valid and records nothing, so callers never need to
// check whether metrics are enabled.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitledger/internal/models"
)

const namespace = "splitledger"

// Metrics holds the collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	expensesRecorded    *prometheus.CounterVec
	settlementTransfers prometheus.Histogram
	rpcDuration         *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry that also carries the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		expensesRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_recorded_total",
			Help:      "Expenses appended to group ledgers, by kind.",
		}, []string{"kind"}),
		settlementTransfers: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_transfers",
			Help:      "Number of transfers in computed settlement plans.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		rpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure and result code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ExpenseRecorded counts one persisted expense.
func (m *Metrics) ExpenseRecorded(kind models.ExpenseKind) {
	if m == nil {
		return
	}
	m.expensesRecorded.WithLabelValues(string(kind)).Inc()
}

// SettlementPlanned records the size of a settlement plan.
func (m *Metrics) SettlementPlanned(transfers int) {
	if m == nil {
		return
	}
	m.settlementTransfers.Observe(float64(transfers))
}

// ObserveRPC records the duration of one RPC.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure, code).Observe(d.Seconds())
}
