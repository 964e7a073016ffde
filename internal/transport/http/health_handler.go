package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"advisorcli/internal/config"
	"advisorcli/pkg/contracts"
)

// HealthHandler serves liveness, readiness, and version endpoints.
type HealthHandler struct {
	logger    *slog.Logger
	startedAt time.Time
}

func NewHealthHandler(logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		logger:    logger.With(slog.String("handler", "health")),
		startedAt: time.Now().UTC(),
	}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HealthCheck)
	r.Get("/ready", h.ReadinessCheck)
	r.Get("/live", h.LivenessCheck)
	return r
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":    "healthy",
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles GET /api/health/ready. The service holds all
// state in memory, so ready tracks alive.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{"status": "ready"})
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{"status": "alive"})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	info := contracts.GetVersionInfo()
	render.JSON(w, r, map[string]interface{}{
		"name":       config.AppName,
		"version":    info.Version,
		"api":        info.APIVersion,
		"go_version": info.GoVersion,
		"build_time": info.BuildTime,
		"git_commit": info.GitCommit,
	})
}
