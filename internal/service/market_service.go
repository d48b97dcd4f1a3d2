// Package service contains the application's use-case layer: market
// snapshots, the draft workspace, and the merchandising agent. Services
// depend only on the domain interfaces and the platform clients.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/prophetlabs/signal2store/internal/domain"
	"github.com/prophetlabs/signal2store/internal/platform/polymarket"
	"github.com/prophetlabs/signal2store/internal/signal"
)

// MarketService produces ranked market batches and the demand signals
// derived from them. A live fetch that fails for any reason degrades to the
// bundled fallback dataset; callers always get a usable batch.
type MarketService struct {
	gamma      *polymarket.GammaClient
	cache      domain.MarketCache // nil when no cache is configured
	prefs      domain.PrefsStore
	fetchLimit int
	topN       int
	logger     *slog.Logger
}

func NewMarketService(gamma *polymarket.GammaClient, cache domain.MarketCache, prefs domain.PrefsStore, fetchLimit, topN int, logger *slog.Logger) *MarketService {
	if fetchLimit <= 0 {
		fetchLimit = 50
	}
	if topN <= 0 {
		topN = 20
	}
	return &MarketService{
		gamma:      gamma,
		cache:      cache,
		prefs:      prefs,
		fetchLimit: fetchLimit,
		topN:       topN,
		logger:     logger.With(slog.String("component", "market_service")),
	}
}

// Snapshot returns the current ranked batch. The order of preference is
// cache, live fetch, bundled fallback; the batch's Source and Debug fields
// record which path was taken.
func (s *MarketService) Snapshot(ctx context.Context) domain.MarketBatch {
	if s.cache != nil {
		if markets, err := s.cache.GetRanked(ctx); err == nil && len(markets) > 0 {
			return domain.MarketBatch{
				Markets: markets,
				Source:  domain.SourceLive,
				Debug: domain.BatchDebug{
					LiveCount:  len(markets),
					Status:     "cache",
					ParsedType: "cached",
				},
			}
		} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("market cache read failed", slog.String("error", err.Error()))
		}
	}

	markets, meta, err := s.gamma.ActiveMarkets(ctx, s.fetchLimit)
	if err != nil {
		s.logger.Warn("live market fetch failed, serving fallback",
			slog.String("status", meta.Status),
			slog.String("error", err.Error()))
		return s.fallbackBatch(meta)
	}

	ranked := rankMarkets(markets, s.topN)
	if len(ranked) == 0 {
		s.logger.Warn("live market fetch produced no usable markets, serving fallback",
			slog.String("status", meta.Status),
			slog.String("parsed_type", meta.ParsedType),
			slog.Int("live_count", len(markets)))
		return s.fallbackBatch(meta)
	}

	if s.cache != nil {
		if err := s.cache.SetRanked(ctx, ranked); err != nil {
			s.logger.Warn("market cache write failed", slog.String("error", err.Error()))
		}
	}

	return domain.MarketBatch{
		Markets: ranked,
		Source:  domain.SourceLive,
		Debug: domain.BatchDebug{
			LiveCount:  len(markets),
			Status:     meta.Status,
			ParsedType: meta.ParsedType,
		},
	}
}

// Signals derives demand signals from the current batch and the stored
// preferences. Signals are recomputed on every call; they are never stored.
func (s *MarketService) Signals(ctx context.Context) ([]domain.DemandSignal, domain.MarketBatch, error) {
	batch := s.Snapshot(ctx)

	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		s.logger.Warn("preferences read failed, using defaults", slog.String("error", err.Error()))
		prefs = domain.DefaultPreferences()
	}

	return signal.BuildSignals(batch.Markets, prefs), batch, nil
}

func (s *MarketService) fallbackBatch(meta polymarket.FetchMeta) domain.MarketBatch {
	markets := rankMarkets(polymarket.FallbackMarkets(), s.topN)
	return domain.MarketBatch{
		Markets: markets,
		Source:  domain.SourceFallback,
		Debug: domain.BatchDebug{
			LiveCount:  0,
			Status:     meta.Status,
			ParsedType: meta.ParsedType,
		},
	}
}

// rankMarkets scores each market by total activity, drops non-positive
// scores, and returns the top n ordered by descending score.
func rankMarkets(markets []domain.Market, n int) []domain.Market {
	ranked := make([]domain.Market, 0, len(markets))
	for _, m := range markets {
		m.Score = m.TotalActivity()
		if m.Score > 0 {
			ranked = append(ranked, m)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
