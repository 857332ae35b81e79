package scheduler

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the digest scheduler.
type Metrics struct {
	RefreshesFired     prometheus.Counter
	RefreshesSucceeded prometheus.Counter
	RefreshesFailed    prometheus.Counter
	ProfilesSeeded     prometheus.Counter
	TickDuration       prometheus.Histogram
}

// NewMetrics creates and registers scheduler metrics.
// Returns nil if reg is nil.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		RefreshesFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swapzo",
			Subsystem: "scheduler",
			Name:      "refreshes_fired_total",
			Help:      "Total digest refreshes started.",
		}),
		RefreshesSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swapzo",
			Subsystem: "scheduler",
			Name:      "refreshes_succeeded_total",
			Help:      "Total digest refreshes that completed and persisted.",
		}),
		RefreshesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swapzo",
			Subsystem: "scheduler",
			Name:      "refreshes_failed_total",
			Help:      "Total digest refreshes that failed.",
		}),
		ProfilesSeeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swapzo",
			Subsystem: "scheduler",
			Name:      "profiles_seeded_total",
			Help:      "Total profiles enrolled with an initial digest.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "swapzo",
			Subsystem: "scheduler",
			Name:      "tick_duration_seconds",
			Help:      "Duration of each scheduler tick (poll + refresh cycle).",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
	}

	reg.MustRegister(
		m.RefreshesFired,
		m.RefreshesSucceeded,
		m.RefreshesFailed,
		m.ProfilesSeeded,
		m.TickDuration,
	)

	return m
}
