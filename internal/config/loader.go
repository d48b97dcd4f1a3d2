package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies S2S_* environment variable overrides, and
// returns the final Config. A missing file is not an error; the defaults
// plus environment are enough to run in demo mode. The returned Config has
// NOT been validated; the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known S2S_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setInt(&cfg.Server.Port, "S2S_SERVER_PORT")
	setStrSlice(&cfg.Server.CORSOrigins, "S2S_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "S2S_SERVER_API_KEY")

	// ── Proxy ──
	setStr(&cfg.Proxy.BackendOrigin, "S2S_PROXY_BACKEND_ORIGIN")
	setStr(&cfg.Proxy.BackendOrigin, "BACKEND_URL") // compatibility alias
	setInt(&cfg.Proxy.TimeoutSeconds, "S2S_PROXY_TIMEOUT_SECONDS")

	// ── Polymarket ──
	setStr(&cfg.Polymarket.GammaHost, "S2S_POLYMARKET_GAMMA_HOST")
	setInt(&cfg.Polymarket.FetchLimit, "S2S_POLYMARKET_FETCH_LIMIT")
	setInt(&cfg.Polymarket.TopN, "S2S_POLYMARKET_TOP_N")
	setInt(&cfg.Polymarket.TimeoutSeconds, "S2S_POLYMARKET_TIMEOUT_SECONDS")
	setInt(&cfg.Polymarket.CacheTTLSecs, "S2S_POLYMARKET_CACHE_TTL_SECONDS")

	// ── Agent ──
	setStr(&cfg.Agent.BaseURL, "S2S_AGENT_BASE_URL")
	setStr(&cfg.Agent.APIKey, "S2S_AGENT_API_KEY")
	setStr(&cfg.Agent.APIKey, "OPENAI_API_KEY") // compatibility alias
	setStr(&cfg.Agent.Model, "S2S_AGENT_MODEL")
	setInt(&cfg.Agent.TimeoutSeconds, "S2S_AGENT_TIMEOUT_SECONDS")

	// ── Analytics ──
	setStr(&cfg.Analytics.Endpoint, "S2S_ANALYTICS_ENDPOINT")
	setStr(&cfg.Analytics.APIKey, "S2S_ANALYTICS_API_KEY")
	setStr(&cfg.Analytics.APIKey, "AMPLITUDE_API_KEY") // compatibility alias
	setStr(&cfg.Analytics.UserID, "S2S_ANALYTICS_USER_ID")
	setInt(&cfg.Analytics.TimeoutSeconds, "S2S_ANALYTICS_TIMEOUT_SECONDS")

	// ── Store ──
	setStr(&cfg.Store.Driver, "S2S_STORE_DRIVER")
	setInt(&cfg.Store.RingCap, "S2S_STORE_RING_CAP")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "S2S_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "S2S_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "S2S_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "S2S_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "S2S_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "S2S_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "S2S_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "S2S_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "S2S_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "S2S_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "S2S_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "S2S_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "S2S_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "S2S_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "S2S_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "S2S_REDIS_TLS_ENABLED")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "S2S_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "S2S_S3_REGION")
	setStr(&cfg.S3.Bucket, "S2S_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "S2S_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "S2S_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "S2S_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "S2S_S3_FORCE_PATH_STYLE")

	// ── Logging ──
	setStr(&cfg.LogLevel, "S2S_LOG_LEVEL")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStrSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			*dst = out
		}
	}
}
