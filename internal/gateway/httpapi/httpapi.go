// Package httpapi implements the HTTP API gateway for Swapzo.
//
// Security:
//   - API key authentication on every /v1 request (constant-time comparison)
//   - Request body size limits (default 1 MB)
//   - Per-client rate limiting via token bucket
//   - All requests logged with correlation IDs
//   - TLS expected via reverse proxy (not handled here)
package httpapi

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/jkaninda/okapi"

	"github.com/jkaninda/swapzo/internal/listing"
	"github.com/jkaninda/swapzo/internal/observability"
	"github.com/jkaninda/swapzo/internal/ratelimit"
)

const defaultMaxRequestSize = 1 << 20 // 1 MB

// ErrorBody is the standard error response used in OpenAPI documentation.
type ErrorBody struct {
	Error string `json:"error"`
}

// Config configures the HTTP API gateway.
type Config struct {
	ListenAddr     string // e.g., ":8080"
	EnableDocs     bool
	APIKeys        []string // Accepted API keys. Empty = unauthenticated access.
	MaxRequestSize int64    // Maximum request body in bytes. 0 = 1 MB default.

	// Observability
	MetricsRegistry *prometheus.Registry            // Custom Prometheus registry for /metrics.
	MetricsPath     string                          // Path for metrics endpoint. Default: "/metrics".
	HealthChecker   *observability.HealthChecker    // Health checker for /readyz endpoint.
	Metrics         *observability.MetricsCollector // Metrics collector for HTTP middleware.
	Tracer          trace.Tracer                    // OTel tracer for HTTP middleware.
}

// Gateway is the HTTP API gateway.
type Gateway struct {
	config  Config
	svc     *listing.Service
	digests listing.DigestStore // nil = digest endpoint disabled.
	limiter *ratelimit.Limiter
	logger  *slog.Logger
	server  *http.Server

	okapi *okapi.Okapi
	group *okapi.Group
}

// NewGateway creates an HTTP API gateway.
func NewGateway(cfg Config, svc *listing.Service, rl *ratelimit.Limiter, logger *slog.Logger) *Gateway {
	return &Gateway{
		config:  cfg,
		svc:     svc,
		limiter: rl,
		logger:  logger,
		okapi:   okapi.New(okapi.WithMaxMultipartMemory(defaultMaxRequestSize)),
	}
}

// WithDigests attaches the match digest store, enabling the digest endpoint.
func (g *Gateway) WithDigests(store listing.DigestStore) *Gateway {
	g.digests = store
	return g
}

// WithOpenAPIDocs enables the interactive OpenAPI documentation endpoint.
func (g *Gateway) WithOpenAPIDocs() *Gateway {
	g.okapi.WithOpenAPIDocs(
		okapi.OpenAPI{
			Title:   "Swapzo",
			Version: "v0.1.0",
		},
	)
	return g
}

// Start launches the HTTP server and blocks until it exits or ctx is canceled.
func (g *Gateway) Start(ctx context.Context) error {
	// Metrics/tracing middleware (applied globally).
	if g.config.Metrics != nil || g.config.Tracer != nil {
		g.okapi.UseMiddleware(func(next http.Handler) http.Handler {
			return observability.HTTPMetricsMiddleware(g.config.Metrics, g.config.Tracer, next)
		})
	}

	// Authenticated /v1 group.
	g.group = g.okapi.Group("/v1", g.authenticate)

	// Profile endpoints.
	g.group.Post("/profiles", g.handleProfileCreate,
		okapi.DocSummary("Register a new profile and reserve its username"),
		okapi.DocTags("Profiles"),
		okapi.DocRequestBody(ProfileRequest{}),
		okapi.DocResponse(http.StatusCreated, ProfileResponse{}),
		okapi.DocResponse(http.StatusBadRequest, ErrorBody{}),
		okapi.DocResponse(http.StatusConflict, ErrorBody{}),
	)
	g.group.Get("/profiles", g.handleProfileList,
		okapi.DocSummary("List all profiles"),
		okapi.DocTags("Profiles"),
		okapi.DocResponse([]ProfileResponse{}),
	)
	g.group.Get("/profiles/{id}", g.handleProfileGet,
		okapi.DocSummary("Get a profile by ID"),
		okapi.DocTags("Profiles"),
		okapi.DocPathParam("id", "string", "Profile ID (UUID)"),
		okapi.DocResponse(ProfileResponse{}),
		okapi.DocResponse(http.StatusNotFound, ErrorBody{}),
	)
	g.group.Put("/profiles/{id}", g.handleProfileUpdate,
		okapi.DocSummary("Update a profile"),
		okapi.DocTags("Profiles"),
		okapi.DocPathParam("id", "string", "Profile ID (UUID)"),
		okapi.DocRequestBody(ProfileUpdateRequest{}),
		okapi.DocResponse(ProfileResponse{}),
		okapi.DocResponse(http.StatusNotFound, ErrorBody{}),
	)
	g.group.Get("/usernames/{handle}", g.handleUsernameCheck,
		okapi.DocSummary("Check username availability with suggestions"),
		okapi.DocTags("Profiles"),
		okapi.DocPathParam("handle", "string", "Username to check"),
		okapi.DocResponse(UsernameCheckResponse{}),
		okapi.DocResponse(http.StatusBadRequest, ErrorBody{}),
	)

	// Offer endpoints.
	g.group.Post("/offers", g.handleOfferCreate,
		okapi.DocSummary("Create a new offer"),
		okapi.DocTags("Offers"),
		okapi.DocRequestBody(PostingRequest{}),
		okapi.DocResponse(http.StatusCreated, PostingResponse{}),
		okapi.DocResponse(http.StatusBadRequest, ErrorBody{}),
	)
	g.group.Get("/offers", g.handleOfferList,
		okapi.DocSummary("List offers, optionally filtered by user"),
		okapi.DocTags("Offers"),
		okapi.DocResponse([]PostingResponse{}),
	)
	g.group.Get("/offers/{id}", g.handleOfferGet,
		okapi.DocSummary("Get an offer by ID"),
		okapi.DocTags("Offers"),
		okapi.DocPathParam("id", "string", "Offer ID (UUID)"),
		okapi.DocResponse(PostingResponse{}),
		okapi.DocResponse(http.StatusNotFound, ErrorBody{}),
	)
	g.group.Put("/offers/{id}", g.handleOfferUpdate,
		okapi.DocSummary("Update an offer"),
		okapi.DocTags("Offers"),
		okapi.DocPathParam("id", "string", "Offer ID (UUID)"),
		okapi.DocRequestBody(PostingUpdateRequest{}),
		okapi.DocResponse(PostingResponse{}),
		okapi.DocResponse(http.StatusNotFound, ErrorBody{}),
	)
	g.group.Delete("/offers/{id}", g.handleOfferDelete,
		okapi.DocSummary("Delete an offer"),
		okapi.DocTags("Offers"),
		okapi.DocPathParam("id", "string", "Offer ID (UUID)"),
		okapi.DocResponse(map[string]string{}),
		okapi.DocResponse(http.StatusNotFound, ErrorBody{}),
	)

	// Need endpoints.
	g.group.Post("/needs", g.handleNeedCreate,
		okapi.DocSummary("Create a new need"),
		okapi.DocTags("Needs"),
		okapi.DocRequestBody(PostingRequest{}),
		okapi.DocResponse(http.StatusCreated, PostingResponse{}),
		okapi.DocResponse(http.StatusBadRequest, ErrorBody{}),
	)
	g.group.Get("/needs", g.handleNeedList,
		okapi.DocSummary("List needs, optionally filtered by user"),
		okapi.DocTags("Needs"),
		okapi.DocResponse([]PostingResponse{}),
	)
	g.group.Get("/needs/{id}", g.handleNeedGet,
		okapi.DocSummary("Get a need by ID"),
		okapi.DocTags("Needs"),
		okapi.DocPathParam("id", "string", "Need ID (UUID)"),
		okapi.DocResponse(PostingResponse{}),
		okapi.DocResponse(http.StatusNotFound, ErrorBody{}),
	)
	g.group.Put("/needs/{id}", g.handleNeedUpdate,
		okapi.DocSummary("Update a need"),
		okapi.DocTags("Needs"),
		okapi.DocPathParam("id", "string", "Need ID (UUID)"),
		okapi.DocRequestBody(PostingUpdateRequest{}),
		okapi.DocResponse(PostingResponse{}),
		okapi.DocResponse(http.StatusNotFound, ErrorBody{}),
	)
	g.group.Delete("/needs/{id}", g.handleNeedDelete,
		okapi.DocSummary("Delete a need"),
		okapi.DocTags("Needs"),
		okapi.DocPathParam("id", "string", "Need ID (UUID)"),
		okapi.DocResponse(map[string]string{}),
		okapi.DocResponse(http.StatusNotFound, ErrorBody{}),
	)

	// Match endpoints.
	g.group.Post("/matches", g.handleMatchCompute,
		okapi.DocSummary("Compute swap matches for a user"),
		okapi.DocTags("Matches"),
		okapi.DocRequestBody(MatchRequest{}),
		okapi.DocResponse(MatchResponse{}),
		okapi.DocResponse(http.StatusBadRequest, ErrorBody{}),
		okapi.DocResponse(http.StatusTooManyRequests, ErrorBody{}),
	)
	if g.digests != nil {
		g.group.Get("/matches/digest/{user_id}", g.handleDigestGet,
			okapi.DocSummary("Get the latest scheduled match digest for a user"),
			okapi.DocTags("Matches"),
			okapi.DocPathParam("user_id", "string", "User ID (UUID)"),
			okapi.DocResponse(DigestResponse{}),
			okapi.DocResponse(http.StatusNotFound, ErrorBody{}),
		)
	}

	// Observability endpoints (unauthenticated).
	g.okapi.Get("/healthz", g.handleLiveness)
	g.okapi.Get("/readyz", g.handleReadiness)

	if g.config.MetricsRegistry != nil {
		path := g.config.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		g.okapi.HandleStd("GET", path, promhttp.HandlerFor(g.config.MetricsRegistry, promhttp.HandlerOpts{}).ServeHTTP)
	}
	if g.config.EnableDocs {
		g.WithOpenAPIDocs()
	}

	g.server = &http.Server{
		Addr:              g.config.ListenAddr,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	g.logger.Info("http api gateway starting", slog.String("addr", g.config.ListenAddr))

	return g.okapi.StartServer(g.server)
}

// Stop gracefully shuts down the HTTP server.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}
	g.logger.Info("http api gateway stopping")
	return g.okapi.Shutdown(g.server)
}

// HealthResponse is the JSON response for the liveness endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleLiveness is the Kubernetes liveness probe
func (g *Gateway) handleLiveness(c *okapi.Context) error {
	return c.OK(&HealthResponse{Status: "ok"})
}

// handleReadiness checks all registered dependencies and returns 200 or 503.
func (g *Gateway) handleReadiness(c *okapi.Context) error {
	if g.config.HealthChecker == nil {
		return c.OK(&HealthResponse{Status: "ok"})
	}

	status := g.config.HealthChecker.CheckReady(c.Context())
	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, status)
}

// --- Authentication ---

// authenticate validates the API key when keys are configured and stores the
// rate-limit client key on the context. With no keys configured the gateway
// runs open and clients are keyed by remote address.
func (g *Gateway) authenticate(next okapi.HandlerFunc) okapi.HandlerFunc {
	return func(c *okapi.Context) error {
		if len(g.config.APIKeys) == 0 {
			host, _, err := net.SplitHostPort(c.Request().RemoteAddr)
			if err != nil {
				host = c.Request().RemoteAddr
			}
			c.Set("clientKey", host)
			return next(c)
		}

		authHeader := c.Header("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.AbortUnauthorized("missing or invalid Authorization header")
		}
		apiKey := strings.TrimPrefix(authHeader, "Bearer ")

		matched := ""
		for _, key := range g.config.APIKeys {
			if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
				matched = key
			}
		}
		if matched == "" {
			return c.AbortUnauthorized("invalid API key")
		}
		c.Set("clientKey", matched)
		return next(c)
	}
}

// limited reports whether the request's client is over its rate-limit quota.
func (g *Gateway) limited(c *okapi.Context) bool {
	return g.limiter != nil && g.limiter.Allow(c.GetString("clientKey")) != nil
}

// --- Helpers ---

func newCorrelationID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
