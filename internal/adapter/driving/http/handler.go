// Package httphandler serves the portal's operational endpoints and the
// middleware chain shared by every route.
package httphandler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/portalbonos/internal/metrics"
)

const healthPingTimeout = 2 * time.Second

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler is the HTTP driving adapter for health and metrics.
type Handler struct {
	db      Pinger
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(db Pinger, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		db:      db,
		metrics: m,
		logger:  logger,
	}
}

// RegisterRoutes registers the health and metrics endpoints on mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.Handle("GET /metrics", h.metrics.Handler())
}

// Health reports liveness together with database reachability. An unreachable
// database turns the response into a 503 so container healthchecks fail.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC().Format(time.RFC3339)

	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health check: database ping failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unavailable",
			Time:     now,
			Database: "unreachable",
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Time:     now,
		Database: "ok",
	})
}
