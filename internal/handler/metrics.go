package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"api-gateway/internal/metrics"
)

// MetricsHandler renders the metrics snapshot in the Prometheus text
// exposition format for external scraping.
type MetricsHandler struct {
	expose echo.HandlerFunc
}

// NewMetricsHandler creates a MetricsHandler over the gateway's registry.
func NewMetricsHandler(m *metrics.Metrics) *MetricsHandler {
	h := promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
	return &MetricsHandler{expose: echo.WrapHandler(h)}
}

// Expose serves the current metrics snapshot.
func (h *MetricsHandler) Expose(c echo.Context) error {
	return h.expose(c)
}
