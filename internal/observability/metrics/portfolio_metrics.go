package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PortfolioMetrics tracks gauges refreshed by the portfolio snapshot worker.
type PortfolioMetrics struct {
	totalARR       prometheus.Gauge
	atRiskARR      prometheus.Gauge
	averageHealth  prometheus.Gauge
	accountsByTier *prometheus.GaugeVec
	queueDepth     prometheus.Gauge
	snapshotRuns   *prometheus.CounterVec
}

var (
	portfolioOnce    sync.Once
	portfolioMetrics *PortfolioMetrics
)

// Portfolio returns the process-wide portfolio metrics, registering them on
// the default registerer on first use.
func Portfolio() *PortfolioMetrics {
	portfolioOnce.Do(func() {
		portfolioMetrics = newPortfolioMetrics(prometheus.DefaultRegisterer)
	})
	return portfolioMetrics
}

func newPortfolioMetrics(reg prometheus.Registerer) *PortfolioMetrics {
	m := &PortfolioMetrics{
		totalARR: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulse_portfolio_total_arr",
			Help: "Total annual recurring revenue across the portfolio.",
		}),
		atRiskARR: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulse_portfolio_at_risk_arr",
			Help: "ARR held by accounts classified at-risk or critical.",
		}),
		averageHealth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulse_portfolio_average_health",
			Help: "Mean account health score (0-100).",
		}),
		accountsByTier: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pulse_portfolio_accounts",
			Help: "Account count by risk status.",
		}, []string{"status"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulse_intervention_queue_depth",
			Help: "Accounts currently on the intervention queue.",
		}),
		snapshotRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_portfolio_snapshot_runs_total",
			Help: "Snapshot worker runs by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.totalARR, m.atRiskARR, m.averageHealth, m.accountsByTier, m.queueDepth, m.snapshotRuns)
	return m
}

// ObserveSnapshot records the gauges captured by one snapshot run.
func (m *PortfolioMetrics) ObserveSnapshot(totalARR, atRiskARR, avgHealth float64, byStatus map[string]int, queueDepth int) {
	if m == nil {
		return
	}
	m.totalARR.Set(totalARR)
	m.atRiskARR.Set(atRiskARR)
	m.averageHealth.Set(avgHealth)
	for status, count := range byStatus {
		m.accountsByTier.WithLabelValues(status).Set(float64(count))
	}
	m.queueDepth.Set(float64(queueDepth))
}

// IncSnapshotRun counts one worker run.
func (m *PortfolioMetrics) IncSnapshotRun(outcome string) {
	if m == nil {
		return
	}
	m.snapshotRuns.WithLabelValues(outcome).Inc()
}
