package http

import (
	"net/http"
)

// MetricsHandler exposes the Prometheus scrape endpoint backed by the
// OpenTelemetry metrics provider.
type MetricsHandler struct {
	prometheus http.Handler
}

func NewMetricsHandler(prometheus http.Handler) *MetricsHandler {
	return &MetricsHandler{prometheus: prometheus}
}

// GetMetrics handles GET /metrics.
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if h.prometheus == nil {
		http.Error(w, "metrics not initialized", http.StatusServiceUnavailable)
		return
	}
	h.prometheus.ServeHTTP(w, r)
}
