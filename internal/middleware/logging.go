package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"
)

// RequestLogger returns middleware that emits one structured log line when
// a request enters the pipeline and one when its response is final. Both
// lines carry the request ID so the two phases can be correlated. Request
// and response bodies are never logged; they may carry credentials.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rc, _ := FromContext(req.Context())

			id := ""
			if rc != nil {
				id = rc.ID
			}

			logger.Info("request",
				"id", id,
				"method", req.Method,
				"path", req.URL.Path,
			)

			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = resolveStatus(c, err)
			}

			logger.Info("response",
				"id", id,
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"duration_ms", elapsedMillis(rc),
			)

			return err
		}
	}
}

func elapsedMillis(rc *RequestContext) int64 {
	if rc == nil {
		return 0
	}
	return millisSince(rc.StartedAt)
}
