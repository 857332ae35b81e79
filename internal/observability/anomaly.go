package observability

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jkaninda/swapzo/internal/config"
)

// minEvents is the smallest sample before a failure rate is evaluated.
const minEvents = 5

// AnomalyDetector watches operation outcomes over a rolling window and
// logs when the failure rate for an operation climbs above the configured
// threshold. Match computation and digest refreshes feed it.
type AnomalyDetector struct {
	mu     sync.Mutex
	ops    map[string]*opStats
	cfg    *config.AnomalyConfig
	logger *slog.Logger
}

type opStats struct {
	errors    rollingCount
	successes rollingCount
}

// rollingCount counts events inside a sliding time span.
type rollingCount struct {
	stamps []time.Time
	span   time.Duration
}

func (r *rollingCount) mark(now time.Time) {
	r.stamps = append(r.stamps, now)
	r.trim(now)
}

func (r *rollingCount) total(now time.Time) int {
	r.trim(now)
	return len(r.stamps)
}

func (r *rollingCount) trim(now time.Time) {
	cutoff := now.Add(-r.span)
	i := 0
	for i < len(r.stamps) && r.stamps[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		r.stamps = r.stamps[i:]
	}
}

// NewAnomalyDetector creates an anomaly detector from config.
func NewAnomalyDetector(cfg *config.AnomalyConfig, logger *slog.Logger) *AnomalyDetector {
	return &AnomalyDetector{
		ops:    make(map[string]*opStats),
		cfg:    cfg,
		logger: logger,
	}
}

func (a *AnomalyDetector) windowSpan() time.Duration {
	secs := a.cfg.WindowSeconds
	if secs <= 0 {
		secs = 300
	}
	return time.Duration(secs) * time.Second
}

// RecordError records a failed operation and re-evaluates its failure rate.
func (a *AnomalyDetector) RecordError(operation string) {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	st := a.stats(operation)
	st.errors.mark(now)
	a.evaluate(operation, st, now)
}

// RecordSuccess records a successful operation.
func (a *AnomalyDetector) RecordSuccess(operation string) {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats(operation).successes.mark(time.Now())
}

// evaluate logs when the windowed failure rate exceeds the threshold.
// Must be called with a.mu held.
func (a *AnomalyDetector) evaluate(operation string, st *opStats, now time.Time) {
	threshold := a.cfg.ErrorRateThreshold
	if threshold <= 0 {
		return
	}

	errs := st.errors.total(now)
	total := errs + st.successes.total(now)
	if total < minEvents {
		return
	}

	rate := float64(errs) / float64(total)
	if rate > threshold && a.logger != nil {
		a.logger.Warn("operation failure rate above threshold",
			slog.String("operation", operation),
			slog.Float64("failure_rate", rate),
			slog.Float64("threshold", threshold),
			slog.Int("failures", errs),
			slog.Int("total", total),
		)
	}
}

func (a *AnomalyDetector) stats(operation string) *opStats {
	st, ok := a.ops[operation]
	if !ok {
		span := a.windowSpan()
		st = &opStats{
			errors:    rollingCount{span: span},
			successes: rollingCount{span: span},
		}
		a.ops[operation] = st
	}
	return st
}
