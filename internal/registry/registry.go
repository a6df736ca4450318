// Package registry maps logical backend service names to base URLs.
// The mapping is built once at startup and read-only afterwards, so it is
// shared by all concurrent requests without synchronization.
package registry

import (
	"fmt"
	"net/url"

	"api-gateway/internal/config"
)

// Logical service names. Routes refer to backends by these constants;
// an unknown name is a programming error caught at startup or in tests,
// never a runtime condition driven by client input.
const (
	ServiceUser       = "user"
	ServicePayments   = "payments"
	ServiceSales      = "sales"
	ServicePurchasing = "purchasing"
	ServiceInventory  = "inventory"
	ServiceCustomer   = "customer"
)

// Service is one configured backend.
type Service struct {
	Name        string   // logical name, e.g. "user"
	DisplayName string   // human-readable name used in error messages, e.g. "User Service"
	BaseURL     *url.URL // base URL; request paths are appended to it
}

// Registry is the immutable name → backend mapping.
type Registry struct {
	services map[string]Service
}

// New builds the registry from configuration. Every configured base URL
// must parse; a bad URL fails startup rather than a request.
func New(cfg *config.Config) (*Registry, error) {
	entries := []struct {
		name    string
		display string
		baseURL string
	}{
		{ServiceUser, "User Service", cfg.Services.User},
		{ServicePayments, "Payments Service", cfg.Services.Payments},
		{ServiceSales, "Sales Service", cfg.Services.Sales},
		{ServicePurchasing, "Purchasing Service", cfg.Services.Purchasing},
		{ServiceInventory, "Inventory Service", cfg.Services.Inventory},
		{ServiceCustomer, "Customer Service", cfg.Services.Customer},
	}

	services := make(map[string]Service, len(entries))
	for _, e := range entries {
		u, err := url.Parse(e.baseURL)
		if err != nil {
			return nil, fmt.Errorf("registry: parse %s base URL %q: %w", e.name, e.baseURL, err)
		}
		services[e.name] = Service{Name: e.name, DisplayName: e.display, BaseURL: u}
	}

	return &Registry{services: services}, nil
}

// Resolve returns the backend for a logical service name.
func (r *Registry) Resolve(name string) (Service, error) {
	svc, ok := r.services[name]
	if !ok {
		return Service{}, fmt.Errorf("registry: unknown service %q", name)
	}
	return svc, nil
}

// URL joins the service base URL with a request path.
func (s Service) URL(path string) string {
	u := *s.BaseURL
	u.Path = path
	return u.String()
}
