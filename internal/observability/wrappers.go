package observability

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jkaninda/swapzo/internal/matching"
)

// InstrumentedStrategy wraps a matching.Strategy with metrics, tracing, and
// anomaly detection.
type InstrumentedStrategy struct {
	inner   matching.Strategy
	metrics *MetricsCollector
	tracer  trace.Tracer
	anomaly *AnomalyDetector
}

// NewInstrumentedStrategy wraps a matching strategy with observability.
func NewInstrumentedStrategy(inner matching.Strategy, metrics *MetricsCollector, ts *TracerSetup, anomaly *AnomalyDetector) *InstrumentedStrategy {
	var tracer trace.Tracer
	if ts != nil {
		tracer = ts.Tracer()
	}
	return &InstrumentedStrategy{
		inner:   inner,
		metrics: metrics,
		tracer:  tracer,
		anomaly: anomaly,
	}
}

func (s *InstrumentedStrategy) Name() string { return s.inner.Name() }

func (s *InstrumentedStrategy) ComputeMatches(ctx context.Context, in matching.Input) (*matching.Result, error) {
	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.Start(ctx, "matching.compute",
			trace.WithAttributes(
				attribute.String("matching.strategy", s.inner.Name()),
				attribute.Int("matching.user_offers", len(in.UserOffers)),
				attribute.Int("matching.user_needs", len(in.UserNeeds)),
				attribute.Int("matching.pool_offers", len(in.AllOffers)),
				attribute.Int("matching.pool_needs", len(in.AllNeeds)),
			))
		defer span.End()
	}

	start := time.Now()
	res, err := s.inner.ComputeMatches(ctx, in)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
		if s.tracer != nil {
			span := trace.SpanFromContext(ctx)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	} else if res != nil && s.tracer != nil {
		span := trace.SpanFromContext(ctx)
		span.SetAttributes(
			attribute.Int("matching.direct_matches", len(res.Direct)),
			attribute.Int("matching.chain_matches", len(res.Chain)),
		)
	}

	if s.metrics != nil {
		s.metrics.MatchRequestsTotal.WithLabelValues(status).Inc()
		s.metrics.MatchRequestDuration.WithLabelValues(status).Observe(duration)
	}

	if s.anomaly != nil {
		if err != nil {
			s.anomaly.RecordError("match_compute")
		} else {
			s.anomaly.RecordSuccess("match_compute")
		}
	}

	return res, err
}

// compile-time interface check
var _ matching.Strategy = (*InstrumentedStrategy)(nil)

// statusCode returns the HTTP status code as a string for metric labels.
func statusCode(code int) string {
	return strconv.Itoa(code)
}
