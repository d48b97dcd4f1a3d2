package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	s3blob "github.com/prophetlabs/signal2store/internal/blob/s3"
	"github.com/prophetlabs/signal2store/internal/cache/redis"
	"github.com/prophetlabs/signal2store/internal/config"
	"github.com/prophetlabs/signal2store/internal/domain"
	"github.com/prophetlabs/signal2store/internal/platform/openai"
	"github.com/prophetlabs/signal2store/internal/platform/polymarket"
	"github.com/prophetlabs/signal2store/internal/store/memory"
	"github.com/prophetlabs/signal2store/internal/store/postgres"
)

// Dependencies bundles every lower-layer dependency the serve loop needs.
// It is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	// Stores
	DraftStore     domain.DraftStore
	PublishedStore domain.PublishedStore
	EventStore     domain.EventStore
	PrefsStore     domain.PrefsStore

	// Cache (nil when Redis is not configured)
	MarketCache domain.MarketCache

	// Blob storage (nil when S3 is not configured)
	Archiver domain.Archiver

	// Platform clients
	Gamma *polymarket.GammaClient
	LLM   *openai.Client
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Workspace stores ---
	switch strings.ToLower(cfg.Store.Driver) {
	case "postgres":
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		pool := pgClient.Pool()
		deps.DraftStore = postgres.NewDraftStore(pool, cfg.Store.RingCap)
		deps.PublishedStore = postgres.NewPublishedStore(pool, cfg.Store.RingCap)
		deps.EventStore = postgres.NewEventStore(pool, cfg.Store.RingCap)
		deps.PrefsStore = postgres.NewPrefsStore(pool)

	default: // memory
		deps.DraftStore = memory.NewDraftStore(cfg.Store.RingCap)
		deps.PublishedStore = memory.NewPublishedStore(cfg.Store.RingCap)
		deps.EventStore = memory.NewEventStore(cfg.Store.RingCap)
		deps.PrefsStore = memory.NewPrefsStore()
	}

	// --- Redis market cache (optional) ---
	if cfg.Redis.Addr != "" {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		ttl := time.Duration(cfg.Polymarket.CacheTTLSecs) * time.Second
		deps.MarketCache = redis.NewMarketCache(redisClient, ttl)
	}

	// --- S3 event archiver (optional) ---
	if cfg.S3.Bucket != "" {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		deps.Archiver = s3blob.NewEventArchiver(s3blob.NewWriter(s3Client), deps.EventStore)
	}

	// --- Platform clients ---
	deps.Gamma = polymarket.NewGammaClient(
		cfg.Polymarket.GammaHost,
		time.Duration(cfg.Polymarket.TimeoutSeconds)*time.Second,
	)
	deps.LLM = openai.NewClient(
		cfg.Agent.BaseURL,
		cfg.Agent.APIKey,
		cfg.Agent.Model,
		time.Duration(cfg.Agent.TimeoutSeconds)*time.Second,
	)

	logger.InfoContext(ctx, "dependencies wired",
		slog.String("store_driver", strings.ToLower(cfg.Store.Driver)),
		slog.Bool("market_cache", deps.MarketCache != nil),
		slog.Bool("event_archiver", deps.Archiver != nil),
		slog.Bool("llm_enabled", deps.LLM.Enabled()),
	)

	return deps, cleanup, nil
}
