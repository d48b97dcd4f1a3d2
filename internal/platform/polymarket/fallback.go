package polymarket

import (
	"time"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// FallbackMarkets returns the bundled dataset of ten synthetic markets
// served when the upstream call fails or produces no usable records. The
// slice is freshly allocated on each call so callers may mutate it.
func FallbackMarkets() []domain.Market {
	return []domain.Market{
		{
			ID:        "fallback-1",
			Question:  "Will Bitcoin reach $100,000 by end of 2024?",
			Slug:      "will-bitcoin-reach-100k-2024",
			Volume:    2_500_000,
			Liquidity: 1_800_000,
			EndDate:   ts("2024-12-31T23:59:59Z"),
		},
		{
			ID:        "fallback-2",
			Question:  "Will the S&P 500 close above 6000 in 2024?",
			Slug:      "sp500-above-6000-2024",
			Volume:    1_800_000,
			Liquidity: 1_200_000,
			EndDate:   ts("2024-12-31T23:59:59Z"),
		},
		{
			ID:        "fallback-3",
			Question:  "Will there be a recession in the US by Q2 2025?",
			Slug:      "us-recession-q2-2025",
			Volume:    2_200_000,
			Liquidity: 1_500_000,
			EndDate:   ts("2025-06-30T23:59:59Z"),
		},
		{
			ID:        "fallback-4",
			Question:  "Will AI achieve AGI before 2026?",
			Slug:      "ai-agi-before-2026",
			Volume:    1_900_000,
			Liquidity: 1_400_000,
			EndDate:   ts("2025-12-31T23:59:59Z"),
		},
		{
			ID:        "fallback-5",
			Question:  "Will Ethereum reach $5000 by end of 2024?",
			Slug:      "ethereum-5000-2024",
			Volume:    1_600_000,
			Liquidity: 1_100_000,
			EndDate:   ts("2024-12-31T23:59:59Z"),
		},
		{
			ID:        "fallback-6",
			Question:  "Will the Fed cut rates by 0.5% or more in 2024?",
			Slug:      "fed-rate-cut-2024",
			Volume:    2_100_000,
			Liquidity: 1_600_000,
			EndDate:   ts("2024-12-31T23:59:59Z"),
		},
		{
			ID:        "fallback-7",
			Question:  "Will Tesla stock reach $300 by end of 2024?",
			Slug:      "tesla-300-2024",
			Volume:    1_400_000,
			Liquidity: 1_000_000,
			EndDate:   ts("2024-12-31T23:59:59Z"),
		},
		{
			ID:        "fallback-8",
			Question:  "Will there be a major cyber attack on US infrastructure in 2024?",
			Slug:      "cyber-attack-us-2024",
			Volume:    1_700_000,
			Liquidity: 1_300_000,
			EndDate:   ts("2024-12-31T23:59:59Z"),
		},
		{
			ID:        "fallback-9",
			Question:  "Will Apple release a foldable iPhone by 2025?",
			Slug:      "apple-foldable-iphone-2025",
			Volume:    1_500_000,
			Liquidity: 1_100_000,
			EndDate:   ts("2025-12-31T23:59:59Z"),
		},
		{
			ID:        "fallback-10",
			Question:  "Will the US have a new president in 2025?",
			Slug:      "us-new-president-2025",
			Volume:    2_300_000,
			Liquidity: 1_700_000,
			EndDate:   ts("2025-01-20T23:59:59Z"),
		},
	}
}

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic("polymarket: bad fallback timestamp: " + s)
	}
	return &t
}
