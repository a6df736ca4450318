package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"api-gateway/internal/client"
	"api-gateway/internal/config"
	"api-gateway/internal/registry"
	"api-gateway/internal/service"
)

func testUsersHandler(t *testing.T, userBaseURL, environment string) *UsersHandler {
	t.Helper()
	cfg := &config.Config{
		Services: config.ServicesConfig{
			User:       userBaseURL,
			Payments:   "http://payments-service:3000",
			Sales:      "http://sales-service:3000",
			Purchasing: "http://purchasing-service:3000",
			Inventory:  "http://inventory-service:3000",
			Customer:   "http://customer-activity-service:3000",
		},
		Upstream:    config.UpstreamConfig{TimeoutSeconds: 5, IdleConnections: 10},
		Environment: environment,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg, err := registry.New(cfg)
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	inv := service.NewInvoker(client.New(cfg, logger, nil), reg, logger)
	return NewUsersHandler(inv, cfg, logger)
}

func doLogin(h *UsersHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = h.Login(c)
	return rec
}

func TestLogin_SuccessPassThrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"email":"a@b.c","password":"x"}` {
			t.Errorf("upstream received body %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"token":"abc"}`))
	}))
	defer upstream.Close()

	h := testUsersHandler(t, upstream.URL, "development")
	rec := doLogin(h, `{"email":"a@b.c","password":"x"}`)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"token":"abc"}` {
		t.Errorf("body = %s, want verbatim upstream body", got)
	}
}

func TestRegister_UpstreamConflictRelayedVerbatim(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"email taken"}`))
	}))
	defer upstream.Close()

	h := testUsersHandler(t, upstream.URL, "development")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/users/register",
		strings.NewReader(`{"name":"n","email":"a@b.c","password":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	// Pass-through, not re-wrapped in the gateway envelope.
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"email taken"}` {
		t.Errorf("body = %s, want verbatim upstream body", got)
	}
}

func TestLogin_BackendUnreachable_DevMode(t *testing.T) {
	h := testUsersHandler(t, "http://127.0.0.1:1", "development")
	rec := doLogin(h, `{"email":"a@b.c","password":"x"}`)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["message"] != "Service unavailable: User Service unavailable" {
		t.Errorf("message = %v", body["message"])
	}
	if status, _ := body["status"].(float64); int(status) != http.StatusServiceUnavailable {
		t.Errorf("envelope status = %v, want 503", body["status"])
	}
	if detail, _ := body["details"].(string); detail == "" {
		t.Error("expected transport error detail in dev mode")
	}
}

func TestLogin_BackendUnreachable_ProductionHidesDetails(t *testing.T) {
	h := testUsersHandler(t, "http://127.0.0.1:1", "production")
	rec := doLogin(h, `{"email":"a@b.c","password":"x"}`)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["message"] != "Service unavailable: User Service unavailable" {
		t.Errorf("message = %v", body["message"])
	}
	if _, present := body["details"]; present {
		t.Error("details field present in production response")
	}
}

func TestLogin_UnparsableUpstreamBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer upstream.Close()

	h := testUsersHandler(t, upstream.URL, "production")
	rec := doLogin(h, `{"email":"a@b.c","password":"x"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["message"] != "Internal server error: Error parsing response" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestLogin_MalformedInboundBody(t *testing.T) {
	h := testUsersHandler(t, "http://user-service:3000", "development")
	rec := doLogin(h, `{"email": oops`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestLogout_NoBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if len(body) != 0 {
			t.Errorf("logout forwarded a body: %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"logged out"}`))
	}))
	defer upstream.Close()

	h := testUsersHandler(t, upstream.URL, "development")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/users/logout", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRefresh_RelaysToken(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/refresh" {
			t.Errorf("path = %q, want /api/users/refresh", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"new"}`))
	}))
	defer upstream.Close()

	h := testUsersHandler(t, upstream.URL, "development")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/users/refresh",
		strings.NewReader(`{"refresh_token":"old"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Refresh(c); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"token":"new"}` {
		t.Errorf("body = %s", got)
	}
}
