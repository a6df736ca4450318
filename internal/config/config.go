// Package config handles TOML configuration loading with CLI and
// environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// configSearchPaths lists paths checked in order when no explicit config is given.
var configSearchPaths = []string{
	"/etc/api-gateway/config.toml",
	"configs/config.toml",
}

// CLI holds command-line arguments parsed by Kong. Every flag is also
// bound to an environment variable so the gateway can run fully
// env-configured without a config file.
type CLI struct {
	Config      string `kong:"short='c',help='Path to TOML config file.',env='CONFIG_PATH'"`
	Host        string `kong:"help='Listen host (overrides config).',env='HOST'"`
	Port        int    `kong:"short='p',help='Listen port (overrides config).',env='PORT'"`
	Environment string `kong:"help='Runtime environment: development|production (overrides config).',env='APP_ENV'"`
	LogLevel    string `kong:"help='Log level: debug|info|warn|error (overrides config).',env='LOG_LEVEL'"`

	UserServiceURL       string `kong:"help='User service base URL.',env='USER_SERVICE_URL'"`
	PaymentsServiceURL   string `kong:"help='Payments service base URL.',env='PAYMENTS_SERVICE_URL'"`
	SalesServiceURL      string `kong:"help='Sales service base URL.',env='SALES_SERVICE_URL'"`
	PurchasingServiceURL string `kong:"help='Purchasing service base URL.',env='PURCHASING_SERVICE_URL'"`
	InventoryServiceURL  string `kong:"help='Inventory service base URL.',env='INVENTORY_SERVICE_URL'"`
	CustomerServiceURL   string `kong:"help='Customer service base URL.',env='CUSTOMER_SERVICE_URL'"`
}

// Config is the top-level application configuration.
type Config struct {
	Server      ServerConfig   `toml:"server"`
	Services    ServicesConfig `toml:"services"`
	Upstream    UpstreamConfig `toml:"upstream"`
	Log         LogConfig      `toml:"log"`
	Environment string         `toml:"environment"`

	filePath string // resolved config file path (unexported)
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string          `toml:"host"`
	Port         int             `toml:"port"` // 0 means "use default" (3000); TOML cannot distinguish 0 from unset
	BodyMaxBytes int64           `toml:"body_max_bytes"`
	RateLimit    RateLimitConfig `toml:"rate_limit"`
}

// RateLimitConfig controls per-IP request rate limiting.
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// ServicesConfig holds one base URL per backend service.
type ServicesConfig struct {
	User       string `toml:"user"`
	Payments   string `toml:"payments"`
	Sales      string `toml:"sales"`
	Purchasing string `toml:"purchasing"`
	Inventory  string `toml:"inventory"`
	Customer   string `toml:"customer"`
}

// UpstreamConfig holds outbound connection settings shared by all backends.
type UpstreamConfig struct {
	TimeoutSeconds  int `toml:"timeout_seconds"`
	IdleConnections int `toml:"idle_connections"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Load reads the TOML config file, if any, and applies CLI/env overrides.
// When no explicit path is given (via --config or CONFIG_PATH), it searches
// /etc/api-gateway/config.toml then configs/config.toml. A missing config
// file is not an error: defaults plus environment variables are a complete
// configuration.
func Load(cli *CLI) (*Config, error) {
	path := cli.Config
	if path == "" {
		path = findConfig()
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.filePath = path
	}

	cfg.applyCLI(cli)
	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// applyCLI overrides config values with non-zero CLI flags.
func (c *Config) applyCLI(cli *CLI) {
	if cli.Host != "" {
		c.Server.Host = cli.Host
	}
	if cli.Port != 0 {
		c.Server.Port = cli.Port
	}
	if cli.Environment != "" {
		c.Environment = cli.Environment
	}
	if cli.LogLevel != "" {
		c.Log.Level = cli.LogLevel
	}
	if cli.UserServiceURL != "" {
		c.Services.User = cli.UserServiceURL
	}
	if cli.PaymentsServiceURL != "" {
		c.Services.Payments = cli.PaymentsServiceURL
	}
	if cli.SalesServiceURL != "" {
		c.Services.Sales = cli.SalesServiceURL
	}
	if cli.PurchasingServiceURL != "" {
		c.Services.Purchasing = cli.PurchasingServiceURL
	}
	if cli.InventoryServiceURL != "" {
		c.Services.Inventory = cli.InventoryServiceURL
	}
	if cli.CustomerServiceURL != "" {
		c.Services.Customer = cli.CustomerServiceURL
	}
}

// setDefaults fills zero-valued fields with sensible defaults.
// For integer fields, zero means "unset" because TOML cannot distinguish
// between an explicit 0 and an omitted key. Setting port=0 in the config
// file therefore results in the default port (3000).
func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.BodyMaxBytes == 0 {
		c.Server.BodyMaxBytes = 1 * 1024 * 1024 // 1 MB
	}
	if c.Services.User == "" {
		c.Services.User = "http://user-service:3000"
	}
	if c.Services.Payments == "" {
		c.Services.Payments = "http://payments-service:3000"
	}
	if c.Services.Sales == "" {
		c.Services.Sales = "http://sales-service:3000"
	}
	if c.Services.Purchasing == "" {
		c.Services.Purchasing = "http://purchasing-service:3000"
	}
	if c.Services.Inventory == "" {
		c.Services.Inventory = "http://inventory-service:3000"
	}
	if c.Services.Customer == "" {
		c.Services.Customer = "http://customer-activity-service:3000"
	}
	if c.Upstream.TimeoutSeconds == 0 {
		c.Upstream.TimeoutSeconds = 30
	}
	if c.Upstream.IdleConnections == 0 {
		c.Upstream.IdleConnections = 100
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1–65535; got %d", c.Server.Port)
	}
	if c.Server.BodyMaxBytes < 0 {
		return fmt.Errorf("server.body_max_bytes must be non-negative; got %d", c.Server.BodyMaxBytes)
	}
	if c.Upstream.TimeoutSeconds < 0 {
		return fmt.Errorf("upstream.timeout_seconds must be non-negative; got %d", c.Upstream.TimeoutSeconds)
	}
	if c.Upstream.IdleConnections < 0 {
		return fmt.Errorf("upstream.idle_connections must be non-negative; got %d", c.Upstream.IdleConnections)
	}
	if c.Server.RateLimit.Enabled && c.Server.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("server.rate_limit.requests_per_second must be > 0 when rate limiting is enabled; got %v", c.Server.RateLimit.RequestsPerSecond)
	}

	for name, raw := range map[string]string{
		"services.user":       c.Services.User,
		"services.payments":   c.Services.Payments,
		"services.sales":      c.Services.Sales,
		"services.purchasing": c.Services.Purchasing,
		"services.inventory":  c.Services.Inventory,
		"services.customer":   c.Services.Customer,
	} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s is not a valid URL: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s must use http or https; got %q", name, raw)
		}
		if u.Host == "" {
			return fmt.Errorf("%s has no host; got %q", name, raw)
		}
	}

	switch strings.ToLower(c.Environment) {
	case "development", "production":
		// valid
	default:
		return fmt.Errorf("environment must be one of: development, production; got %q", c.Environment)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
		// valid
	default:
		return fmt.Errorf("log.format must be one of: json, text; got %q", c.Log.Format)
	}

	return nil
}

// findConfig returns the first config path that exists, or empty string.
func findConfig() string {
	return findConfigInPaths(configSearchPaths)
}

// findConfigInPaths returns the first path that exists on disk, or empty string.
func findConfigInPaths(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Addr returns the server listen address as host:port.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDevelopment reports whether the gateway runs in development mode,
// which controls whether internal error detail is disclosed to clients.
func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.Environment) == "development"
}

// WarnPermissions logs a warning if the config file is readable by group or others.
func (c *Config) WarnPermissions(logger *slog.Logger) {
	if c.filePath == "" {
		return
	}
	info, err := os.Stat(c.filePath)
	if err != nil {
		return
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		logger.Warn("config file is readable by group/others; consider chmod 600",
			"path", c.filePath,
			"mode", fmt.Sprintf("%04o", perm),
		)
	}
}
