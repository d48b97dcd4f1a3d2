package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prophetlabs/signal2store/internal/domain"
)

const rankedMarketsKey = "markets:ranked"

// MarketCache implements domain.MarketCache using a single Redis key
// holding the JSON-serialized ranked batch with a TTL. A stale-but-present
// batch is preferable to hammering the Gamma API on every dashboard
// refresh.
type MarketCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewMarketCache creates a MarketCache backed by the given Client. ttl <= 0
// defaults to five minutes.
func NewMarketCache(c *Client, ttl time.Duration) *MarketCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MarketCache{rdb: c.Underlying(), ttl: ttl}
}

// SetRanked stores the ranked live batch.
func (mc *MarketCache) SetRanked(ctx context.Context, markets []domain.Market) error {
	data, err := json.Marshal(markets)
	if err != nil {
		return fmt.Errorf("redis: marshal ranked markets: %w", err)
	}
	if err := mc.rdb.Set(ctx, rankedMarketsKey, data, mc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set ranked markets: %w", err)
	}
	return nil
}

// GetRanked retrieves the ranked live batch. It returns domain.ErrNotFound
// when the key is absent or expired.
func (mc *MarketCache) GetRanked(ctx context.Context) ([]domain.Market, error) {
	data, err := mc.rdb.Get(ctx, rankedMarketsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get ranked markets: %w", err)
	}

	var markets []domain.Market
	if err := json.Unmarshal(data, &markets); err != nil {
		return nil, fmt.Errorf("redis: unmarshal ranked markets: %w", err)
	}
	return markets, nil
}
