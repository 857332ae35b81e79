// Package matching implements the deterministic swap matching engine: text
// normalization, keyword extraction, synonym/context expansion, similarity
// scoring, confidence blending, and direct/chain match discovery.
//
// The engine is pure with respect to its inputs: no I/O, no shared mutable
// state, no persistence. Concurrent invocations are safe because every call
// operates only on its argument snapshots.
package matching

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Default engine options, chosen to catch semantic matches without flooding
// the result with noise.
const (
	DefaultThreshold     = 0.5
	DefaultMinConfidence = 0.4
	DefaultMaxResults    = 10
)

// Strategy computes swap matches for one user against the global pool.
// The deterministic Engine is the default implementation; an LLM-backed
// strategy can be swapped in behind the same contract.
type Strategy interface {
	Name() string
	ComputeMatches(ctx context.Context, in Input) (*Result, error)
}

// Options tunes the engine. Zero values fall back to the defaults above.
type Options struct {
	Threshold     float64 // Minimum similarity for a pool item to qualify.
	MinConfidence float64 // Minimum blended confidence for a candidate.
	MaxResults    int     // Result cap per candidate list.
}

func (o Options) withDefaults() Options {
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.MinConfidence <= 0 {
		o.MinConfidence = DefaultMinConfidence
	}
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	return o
}

// Engine is the deterministic matching strategy.
type Engine struct {
	opts    Options
	logger  *slog.Logger
	metrics *Metrics
}

// NewEngine creates an Engine. logger and metrics may be nil.
func NewEngine(opts Options, logger *slog.Logger, metrics *Metrics) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{opts: opts.withDefaults(), logger: logger, metrics: metrics}
}

// Name implements Strategy.
func (e *Engine) Name() string { return "deterministic" }

// ComputeMatches finds direct and chain candidates for the given snapshot.
// It never fails: empty or malformed inputs degrade to an empty result. The
// context is accepted for Strategy compatibility; the computation itself is
// plain in-process work with no cancellation points.
func (e *Engine) ComputeMatches(_ context.Context, in Input) (*Result, error) {
	start := time.Now()

	direct := e.findDirect(in)
	chain := e.findChain(in)

	var sum float64
	for _, c := range direct {
		sum += c.Confidence
	}
	for _, c := range chain {
		sum += c.Confidence
	}
	avg := 0.0
	if n := len(direct) + len(chain); n > 0 {
		avg = sum / float64(n)
	}

	res := &Result{
		Direct: direct,
		Chain:  chain,
		Stats: Stats{
			TotalComparisons:  len(in.UserOffers) * len(in.UserNeeds) * len(in.AllOffers),
			Threshold:         e.opts.Threshold,
			AverageConfidence: avg,
		},
	}

	e.logger.Debug("matches computed",
		slog.String("user_id", in.UserID.String()),
		slog.Int("direct", len(direct)),
		slog.Int("chain", len(chain)),
		slog.Float64("avg_confidence", avg),
		slog.Duration("elapsed", time.Since(start)),
	)
	if e.metrics != nil {
		e.metrics.ComputationsTotal.Inc()
		e.metrics.ComputationDuration.Observe(time.Since(start).Seconds())
		e.metrics.CandidatesFound.WithLabelValues(string(MatchDirect)).Add(float64(len(direct)))
		e.metrics.CandidatesFound.WithLabelValues(string(MatchChain)).Add(float64(len(chain)))
	}
	return res, nil
}
