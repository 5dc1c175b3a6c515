package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SettlementOutcomeClosed  = "closed"
	SettlementOutcomeSkipped = "skipped"
	SettlementOutcomeFailed  = "failed"
)

// Metrics exposes the engine's counters.
type Metrics struct {
	ordersCreated   prometheus.Counter
	ordersCompleted prometheus.Counter
	ordersCancelled prometheus.Counter
	pointsRedeemed  prometheus.Counter
	settlementRuns  *prometheus.CounterVec
}

// New registers the engine counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ordersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "wasel_orders_created_total",
			Help: "Orders created.",
		}),
		ordersCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "wasel_orders_completed_total",
			Help: "Orders transitioned to completed.",
		}),
		ordersCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "wasel_orders_cancelled_total",
			Help: "Orders transitioned to cancelled.",
		}),
		pointsRedeemed: factory.NewCounter(prometheus.CounterOpts{
			Name: "wasel_points_redeemed_total",
			Help: "Loyalty points redeemed against orders.",
		}),
		settlementRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wasel_settlement_runs_total",
			Help: "Period close attempts by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncOrderCreated()   { m.ordersCreated.Inc() }
func (m *Metrics) IncOrderCompleted() { m.ordersCompleted.Inc() }
func (m *Metrics) IncOrderCancelled() { m.ordersCancelled.Inc() }

func (m *Metrics) AddPointsRedeemed(points int) {
	if points > 0 {
		m.pointsRedeemed.Add(float64(points))
	}
}

func (m *Metrics) IncSettlementRun(outcome string) {
	m.settlementRuns.WithLabelValues(outcome).Inc()
}
