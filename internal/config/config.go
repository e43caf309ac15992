// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Source   SourceConfig
	Catalog  CatalogConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// SourceConfig holds spreadsheet source settings.
// Exactly one of SpreadsheetID or WorkbookPath must be set.
type SourceConfig struct {
	// BaseURL is the sheet-to-JSON gateway (default: https://opensheet.elk.sh)
	BaseURL string `env:"SOURCE_BASE_URL" default:"https://opensheet.elk.sh"`

	// SpreadsheetID is the remote spreadsheet to read
	SpreadsheetID string `env:"SOURCE_SPREADSHEET_ID" envAlt:"SPREADSHEET_ID"`

	// WorkbookPath reads a local .xlsx file instead of the remote spreadsheet
	WorkbookPath string `env:"SOURCE_WORKBOOK_PATH"`

	// Sheets lists sheet names in processing order (default: Windows,RHEL,Oracle,ESXi,FW)
	Sheets []string `env:"SOURCE_SHEETS" default:"Windows,RHEL,Oracle,ESXi,FW"`

	// FirmwareSheet names the sheet holding firmware versions (default: FW)
	FirmwareSheet string `env:"SOURCE_FIRMWARE_SHEET" default:"FW"`

	// FetchTimeout bounds each sheet request (default: 15s)
	FetchTimeout time.Duration `env:"SOURCE_FETCH_TIMEOUT" default:"15s"`
}

// CatalogConfig holds aggregation and refresh settings.
type CatalogConfig struct {
	// RefreshInterval is how often to reload all sheets (default: 15m)
	RefreshInterval time.Duration `env:"CATALOG_REFRESH_INTERVAL" default:"15m"`

	// Continuation is the blank-model row policy: skip or attach (default: skip)
	Continuation string `env:"CATALOG_CONTINUATION" default:"skip"`

	// DefaultOS is the OS list shown when no sheet supplies one (default: Windows,RHEL)
	DefaultOS []string `env:"CATALOG_DEFAULT_OS" default:"Windows,RHEL"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// RefreshLimit is requests per minute for the manual refresh endpoint (default: 2)
	RefreshLimit int `env:"RATE_LIMIT_REFRESH" default:"2"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics (default: true)
	Enabled bool `env:"METRICS_ENABLED" default:"true"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
