package registry

import (
	"testing"

	"api-gateway/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Services: config.ServicesConfig{
			User:       "http://user-service:3000",
			Payments:   "http://payments-service:3000",
			Sales:      "http://sales-service:3000",
			Purchasing: "http://purchasing-service:3000",
			Inventory:  "http://inventory-service:3000",
			Customer:   "http://customer-activity-service:3000",
		},
	}
}

func TestNew_ResolvesAllServices(t *testing.T) {
	r, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	names := []string{
		ServiceUser, ServicePayments, ServiceSales,
		ServicePurchasing, ServiceInventory, ServiceCustomer,
	}
	for _, name := range names {
		svc, err := r.Resolve(name)
		if err != nil {
			t.Errorf("Resolve(%q) error = %v", name, err)
			continue
		}
		if svc.BaseURL == nil || svc.BaseURL.Host == "" {
			t.Errorf("Resolve(%q) has empty base URL", name)
		}
		if svc.DisplayName == "" {
			t.Errorf("Resolve(%q) has empty display name", name)
		}
	}
}

func TestResolve_UnknownService(t *testing.T) {
	r, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := r.Resolve("billing"); err == nil {
		t.Error("Resolve(unknown) error = nil, want error")
	}
}

func TestService_URL(t *testing.T) {
	r, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	svc, err := r.Resolve(ServiceUser)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	got := svc.URL("/api/users/login")
	want := "http://user-service:3000/api/users/login"
	if got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestNew_BadURL(t *testing.T) {
	cfg := testConfig()
	cfg.Services.User = "http://bad url with spaces"

	if _, err := New(cfg); err == nil {
		t.Error("New() error = nil for unparsable base URL")
	}
}
