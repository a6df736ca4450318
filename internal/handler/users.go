// Package handler defines the HTTP surface: user-service relay routes,
// health, and metrics exposition.
package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"api-gateway/internal/apierror"
	"api-gateway/internal/config"
	"api-gateway/internal/model"
	"api-gateway/internal/registry"
	"api-gateway/internal/service"
)

// UsersHandler relays user-facing auth endpoints to the user service.
// Each route is a thin declaration of its outbound call; the invoker does
// the rest. The gateway trusts and forwards credentials, it never
// validates them.
type UsersHandler struct {
	invoker *service.Invoker
	cfg     *config.Config
	logger  *slog.Logger
}

// NewUsersHandler creates a UsersHandler.
func NewUsersHandler(inv *service.Invoker, cfg *config.Config, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{
		invoker: inv,
		cfg:     cfg,
		logger:  logger.With("component", "users_handler"),
	}
}

// Login relays POST /api/users/login.
func (h *UsersHandler) Login(c echo.Context) error {
	return h.relay(c, "/api/users/login", true)
}

// Register relays POST /api/users/register.
func (h *UsersHandler) Register(c echo.Context) error {
	return h.relay(c, "/api/users/register", true)
}

// Refresh relays POST /api/users/refresh.
func (h *UsersHandler) Refresh(c echo.Context) error {
	return h.relay(c, "/api/users/refresh", true)
}

// Logout relays POST /api/users/logout. The route carries no body.
func (h *UsersHandler) Logout(c echo.Context) error {
	return h.relay(c, "/api/users/logout", false)
}

// relay reads the inbound body when the route has one, forwards the call,
// and writes the outcome: relays are passed through verbatim, synthesized
// failures are rendered through the apierror envelope.
func (h *UsersHandler) relay(c echo.Context, path string, hasBody bool) error {
	var body json.RawMessage
	if hasBody {
		raw, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return h.fail(c, apierror.New(apierror.BadRequest, "Unreadable request body").WithDetail(err.Error()))
		}
		if !json.Valid(raw) {
			return h.fail(c, apierror.New(apierror.BadRequest, "Request body must be valid JSON"))
		}
		body = raw
	}

	out := h.invoker.Forward(c.Request().Context(), model.UpstreamCallSpec{
		Service: registry.ServiceUser,
		Path:    path,
		Method:  http.MethodPost,
		Body:    body,
	})

	if out.Err != nil {
		return h.fail(c, out.Err)
	}

	if len(out.Body) == 0 {
		return c.NoContent(out.Status)
	}
	return c.JSONBlob(out.Status, out.Body)
}

// fail writes a gateway-synthesized error. The detail is always logged;
// it reaches the client only in development mode.
func (h *UsersHandler) fail(c echo.Context, err *apierror.Error) error {
	h.logger.Error("gateway error",
		"path", c.Request().URL.Path,
		"kind", err.Kind.String(),
		"detail", err.Detail,
	)
	return c.JSON(err.Kind.StatusCode(), err.Response(h.cfg.IsDevelopment()))
}
