package matching

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the matching engine.
type Metrics struct {
	ComputationsTotal   prometheus.Counter
	ComputationDuration prometheus.Histogram
	CandidatesFound     *prometheus.CounterVec
}

// NewMetrics creates and registers matching metrics.
// Returns nil if reg is nil.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		ComputationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swapzo",
			Subsystem: "matching",
			Name:      "computations_total",
			Help:      "Total match computations performed.",
		}),
		ComputationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "swapzo",
			Subsystem: "matching",
			Name:      "computation_duration_seconds",
			Help:      "Duration of one full match computation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		CandidatesFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swapzo",
			Subsystem: "matching",
			Name:      "candidates_found_total",
			Help:      "Total candidates returned, by match type.",
		}, []string{"type"}),
	}

	reg.MustRegister(
		m.ComputationsTotal,
		m.ComputationDuration,
		m.CandidatesFound,
	)

	return m
}
