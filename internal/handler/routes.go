package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
func RegisterRoutes(e *echo.Echo, users *UsersHandler, health *HealthHandler, metrics *MetricsHandler) {
	api := e.Group("/api")

	api.GET("/health", health.Check)
	api.GET("/metrics", metrics.Expose)

	api.POST("/users/login", users.Login)
	api.POST("/users/register", users.Register)
	api.POST("/users/refresh", users.Refresh)
	api.POST("/users/logout", users.Logout)
}
