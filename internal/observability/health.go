package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// readyTimeout bounds the whole readiness sweep, not each probe.
const readyTimeout = 3 * time.Second

// HealthChecker aggregates readiness probes for the gateway's /readyz
// endpoint. Liveness is unconditional; readiness runs every registered
// probe against a shared deadline.
type HealthChecker struct {
	mu     sync.Mutex
	names  []string
	probes map[string]func(ctx context.Context) error
	logger *slog.Logger
}

// HealthStatus is the JSON body served by health and readiness endpoints.
type HealthStatus struct {
	Status string                 `json:"status"` // "ok" or "degraded"
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one probe.
type CheckResult struct {
	Status    string `json:"status"` // "ok" or "fail"
	Message   string `json:"message,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// NewHealthChecker creates a HealthChecker with no probes registered.
func NewHealthChecker(logger *slog.Logger) *HealthChecker {
	return &HealthChecker{
		probes: make(map[string]func(ctx context.Context) error),
		logger: logger,
	}
}

// AddCheck registers a named readiness probe. Re-registering a name
// replaces the previous probe.
func (h *HealthChecker) AddCheck(name string, probe func(ctx context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.probes[name]; !ok {
		h.names = append(h.names, name)
	}
	h.probes[name] = probe
}

// CheckHealth is the liveness answer: "ok" whenever the process can respond.
func (h *HealthChecker) CheckHealth() HealthStatus {
	return HealthStatus{Status: "ok"}
}

// CheckReady runs all registered probes in registration order and reports
// "ok" only when every probe passes.
func (h *HealthChecker) CheckReady(ctx context.Context) HealthStatus {
	h.mu.Lock()
	names := make([]string, len(h.names))
	copy(names, h.names)
	probes := make(map[string]func(ctx context.Context) error, len(h.probes))
	for name, probe := range h.probes {
		probes[name] = probe
	}
	h.mu.Unlock()

	if len(names) == 0 {
		return HealthStatus{Status: "ok"}
	}

	probeCtx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	out := HealthStatus{
		Status: "ok",
		Checks: make(map[string]CheckResult, len(names)),
	}
	for _, name := range names {
		start := time.Now()
		err := probes[name](probeCtx)
		res := CheckResult{
			Status:    "ok",
			LatencyMS: time.Since(start).Milliseconds(),
		}
		if err != nil {
			out.Status = "degraded"
			res.Status = "fail"
			res.Message = err.Error()
			if h.logger != nil {
				h.logger.Warn("readiness probe failed",
					slog.String("probe", name),
					slog.String("error", err.Error()),
				)
			}
		}
		out.Checks[name] = res
	}

	return out
}
