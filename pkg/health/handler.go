package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	httputil "bookingdesk/pkg/http"
	"bookingdesk/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

const DefaultCheckTimeout = 2 * time.Second

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type HealthHandler struct {
	checks  map[string]Check
	metrics http.Handler
	timeout time.Duration
	log     *logger.Logger
}

// NewHealthHandler serves /health and /ready, and /metrics when
// metricsHandler is non-nil.
func NewHealthHandler(log *logger.Logger, metricsHandler http.Handler, checks map[string]Check) *HealthHandler {
	if checks == nil {
		checks = map[string]Check{}
	}
	return &HealthHandler{
		checks:  checks,
		metrics: metricsHandler,
		timeout: DefaultCheckTimeout,
		log:     log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	resp := HealthResponse{Status: "ready", Checks: make(map[string]string, len(names))}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.log.Error("Readiness check failed",
				"check", name,
				"error", err,
				"path", r.URL.Path,
			)
			resp.Checks[name] = "error"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Metrics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.metrics.ServeHTTP(w, r)
}

// Paths lists every route RegisterRoutes installs.
func (h *HealthHandler) Paths() []string {
	paths := []string{"/health", "/ready"}
	if h.metrics != nil {
		paths = append(paths, "/metrics")
	}
	return paths
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	if h.metrics != nil {
		router.GET("/metrics", h.Metrics)
	}
}
