package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestID returns middleware that assigns each request its identity and
// start timestamp. An inbound X-Request-ID header is preserved; otherwise a
// random v4 UUID is generated. The ID is echoed back in the response header
// so clients can correlate.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}

			rc := &RequestContext{ID: id, StartedAt: time.Now()}
			c.SetRequest(req.WithContext(WithRequestContext(req.Context(), rc)))
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			return next(c)
		}
	}
}
