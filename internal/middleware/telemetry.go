package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"api-gateway/internal/metrics"
)

// Telemetry returns middleware that feeds the metrics collectors: one
// request-counter increment on entry, one response-counter increment and
// exactly one response-time observation on exit, plus the in-flight gauge.
// Metric emission is wrapped in a recover so a failing sink degrades
// silently; the request still completes.
func Telemetry(m *metrics.Metrics, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			record(logger, func() {
				m.RequestsInFlight.Inc()
				m.RequestsTotal.Inc()
			})

			start := time.Now()
			if rc, ok := FromContext(c.Request().Context()); ok {
				start = rc.StartedAt
			}

			err := next(c)

			record(logger, func() {
				m.RequestsInFlight.Dec()
				m.ResponsesTotal.Inc()
				m.ResponseTime.Observe(time.Since(start).Seconds())
			})

			return err
		}
	}
}

// record runs a metrics update, absorbing any panic so instrumentation can
// never break a request.
func record(logger *slog.Logger, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("metrics update failed", "panic", r)
		}
	}()
	fn()
}

// resolveStatus returns the status that will ultimately be written for a
// request. When a handler returns an *echo.HTTPError, the response status
// has not been written yet; Echo's central error handler does that later,
// so the error itself is inspected.
func resolveStatus(c echo.Context, err error) int {
	status := c.Response().Status
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
		}
	}
	return status
}

func millisSince(t time.Time) int64 {
	return time.Since(t).Milliseconds()
}
