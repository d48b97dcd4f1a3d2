// Package config defines the top-level configuration for the signal2store
// backend and provides validation helpers.
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by S2S_* environment variables.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Proxy      ProxyConfig      `toml:"proxy"`
	Polymarket PolymarketConfig `toml:"polymarket"`
	Agent      AgentConfig      `toml:"agent"`
	Analytics  AnalyticsConfig  `toml:"analytics"`
	Store      StoreConfig      `toml:"store"`
	Postgres   PostgresConfig   `toml:"postgres"`
	Redis      RedisConfig      `toml:"redis"`
	S3         S3Config         `toml:"s3"`
	LogLevel   string           `toml:"log_level"`
}

// ServerConfig holds the HTTP server parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	// APIKey gates mutating/admin endpoints. Empty disables authentication.
	APIKey string `toml:"api_key"`
}

// ProxyConfig holds the reverse-proxy target.
type ProxyConfig struct {
	// BackendOrigin is the origin all non-API requests are forwarded to,
	// e.g. "http://127.0.0.1:8000".
	BackendOrigin  string `toml:"backend_origin"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// PolymarketConfig holds the Gamma API parameters for market discovery.
type PolymarketConfig struct {
	GammaHost      string `toml:"gamma_host"`
	FetchLimit     int    `toml:"fetch_limit"`
	TopN           int    `toml:"top_n"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	CacheTTLSecs   int    `toml:"cache_ttl_seconds"`
}

// AgentConfig holds the LLM ad-copy generator parameters. An empty APIKey
// disables the LLM path entirely; ad copy then always comes from the
// deterministic fallback.
type AgentConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// AnalyticsConfig holds the best-effort analytics sink parameters. An empty
// APIKey means remote delivery is skipped; events still land in the local
// event log.
type AnalyticsConfig struct {
	Endpoint       string `toml:"endpoint"`
	APIKey         string `toml:"api_key"`
	UserID         string `toml:"user_id"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// StoreConfig selects the workspace persistence driver and caps.
type StoreConfig struct {
	// Driver is "memory" (demo mode, the default) or "postgres".
	Driver string `toml:"driver"`
	// RingCap bounds every persisted collection; oldest entries are evicted
	// first. Zero means the default of 1000.
	RingCap int `toml:"ring_cap"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters. An empty Addr disables the
// market cache.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters for the event
// archiver. An empty Bucket disables archiving.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// Defaults returns the built-in configuration. Every field can be reached
// from the TOML file or an S2S_* environment variable; nothing is read from
// the ambient environment at call sites.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Proxy: ProxyConfig{
			BackendOrigin:  "http://127.0.0.1:8000",
			TimeoutSeconds: 30,
		},
		Polymarket: PolymarketConfig{
			GammaHost:      "https://gamma-api.polymarket.com",
			FetchLimit:     50,
			TopN:           20,
			TimeoutSeconds: 15,
			CacheTTLSecs:   300,
		},
		Agent: AgentConfig{
			BaseURL:        "https://api.openai.com",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 20,
		},
		Analytics: AnalyticsConfig{
			Endpoint:       "https://api2.amplitude.com/2/httpapi",
			UserID:         "demo_user",
			TimeoutSeconds: 5,
		},
		Store: StoreConfig{
			Driver:  "memory",
			RingCap: 1000,
		},
		Postgres: PostgresConfig{
			SSLMode: "disable",
		},
		LogLevel: "info",
	}
}

// Validate checks the configuration for consistency. It is called by the
// entry point after Load.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}

	if _, err := url.Parse(c.Proxy.BackendOrigin); err != nil {
		return fmt.Errorf("config: invalid proxy backend origin %q: %w", c.Proxy.BackendOrigin, err)
	}
	if c.Proxy.BackendOrigin == "" {
		return fmt.Errorf("config: proxy backend origin is required")
	}

	if c.Polymarket.GammaHost == "" {
		return fmt.Errorf("config: polymarket gamma host is required")
	}
	if c.Polymarket.TopN <= 0 {
		return fmt.Errorf("config: polymarket top_n must be positive")
	}

	switch strings.ToLower(c.Store.Driver) {
	case "memory":
	case "postgres":
		if c.Postgres.DSN == "" && c.Postgres.Host == "" {
			return fmt.Errorf("config: postgres driver selected but no dsn or host configured")
		}
	default:
		return fmt.Errorf("config: unsupported store driver %q", c.Store.Driver)
	}

	if c.Store.RingCap < 0 {
		return fmt.Errorf("config: store ring_cap must not be negative")
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unsupported log level %q", c.LogLevel)
	}

	return nil
}
