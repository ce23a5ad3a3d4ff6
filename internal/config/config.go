// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Source kinds accepted by ROSTER_SOURCE.
const (
	SourceSheets   = "sheets"
	SourcePostgres = "postgres"
	SourceCSVDir   = "csvdir"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Source   SourceConfig
	Database DatabaseConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// SourceConfig selects and configures the tabular collection the roster is
// aggregated from.
type SourceConfig struct {
	// Kind is the adapter: sheets, postgres or csvdir (default: sheets)
	Kind string `env:"ROSTER_SOURCE" default:"sheets"`

	// SheetsAPIKey is the credential for the sheets adapter
	SheetsAPIKey string `env:"SHEETS_API_KEY" envAlt:"GOOGLE_SHEETS_API_KEY"`

	// SpreadsheetID identifies the spreadsheet holding the team sheets
	SpreadsheetID string `env:"SHEETS_SPREADSHEET_ID" envAlt:"GOOGLE_SHEETS_SHEET_ID"`

	// SheetsBaseURL overrides the Sheets API endpoint (default: https://sheets.googleapis.com)
	SheetsBaseURL string `env:"SHEETS_BASE_URL" default:"https://sheets.googleapis.com"`

	// PGSchema is the schema whose tables form the collection (default: roster)
	PGSchema string `env:"PG_SCHEMA" default:"roster"`

	// CSVDir is the directory of .csv files for the csvdir adapter
	CSVDir string `env:"ROSTER_CSV_DIR"`

	// PassTimeout bounds one aggregation pass (default: 30s)
	PassTimeout time.Duration `env:"ROSTER_PASS_TIMEOUT" default:"30s"`

	// MaxParallel caps concurrent source fetches; 0 means one per source (default: 8)
	MaxParallel int `env:"ROSTER_MAX_PARALLEL" default:"8"`
}

// Credential returns the credential of the selected adapter. An empty
// credential means the source is unconfigured.
func (c *SourceConfig) Credential(db DatabaseConfig) string {
	switch c.Kind {
	case SourceSheets:
		return c.SheetsAPIKey
	case SourcePostgres:
		return db.URL
	case SourceCSVDir:
		return c.CSVDir
	default:
		return ""
	}
}

// DatabaseConfig holds database connection settings for the postgres source.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// RefreshLimit is requests per minute for the refresh endpoint (default: 6)
	RefreshLimit int `env:"RATE_LIMIT_REFRESH" default:"6"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey enables X-API-Key authentication on /api (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Configured reports whether the selected source has a credential.
func (c *Config) Configured() bool {
	return c.Source.Credential(c.Database) != ""
}
