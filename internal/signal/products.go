package signal

import (
	"fmt"
	"math"
	"strings"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// Price tier thresholds on volume+liquidity. Activity at or above the top
// threshold takes the top tier; the lower boundaries are exclusive, so a
// market at exactly 1M stays in the base tier.
const (
	tier2Activity = 1_000_000
	tier3Activity = 2_000_000
	tier4Activity = 3_000_000
)

const (
	stickerMultiplier = 0.4
	premiumMultiplier = 1.5
)

// basePriceCents returns the tiered base price for a market's activity.
func basePriceCents(totalActivity float64) int {
	switch {
	case totalActivity >= tier4Activity:
		return 2999
	case totalActivity > tier3Activity:
		return 1999
	case totalActivity > tier2Activity:
		return 1499
	default:
		return 999
	}
}

// scaleCents multiplies a cent price and snaps the result down to the
// nearest .99 ending, keeping every derived price on the same psychological
// pricing grid as the base tiers.
func scaleCents(cents int, factor float64) int {
	scaled := int(math.Round(float64(cents) * factor))
	if rem := scaled % 100; rem != 99 {
		scaled = scaled - rem - 1
	}
	if scaled < 99 {
		scaled = 99
	}
	return scaled
}

func formatPrice(cents int) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// truncateQuestion shortens a question for use inside product titles.
func truncateQuestion(q string, n int) string {
	if len(q) <= n {
		return q
	}
	return q[:n]
}

// RecommendedProducts synthesizes the three fixed product listings (apparel,
// sticker, premium) for a market. Output is deterministic in the market's
// id, question, volume, and liquidity.
func RecommendedProducts(m domain.Market) []domain.RecommendedProduct {
	keywords := ExtractKeywords(m.Question)
	category := keywords[0]
	productType := ProductType(category)
	base := basePriceCents(m.TotalActivity())
	display := titleCase(category)

	return []domain.RecommendedProduct{
		{
			ID:          m.ID + "-product-1",
			Title:       fmt.Sprintf("%s Trend %s... T-Shirt", display, truncateQuestion(m.Question, 30)),
			ProductType: "Apparel",
			Tags:        append(append([]string{}, keywords...), "t-shirt", "trending"),
			Price:       formatPrice(base),
			Description: fmt.Sprintf("Stay ahead of the trend with this %s-themed t-shirt. Inspired by current market signals suggesting high interest in this topic.", category),
		},
		{
			ID:          m.ID + "-product-2",
			Title:       fmt.Sprintf("%s Signal Sticker Pack", display),
			ProductType: "Accessories",
			Tags:        append(append([]string{}, keywords...), "sticker", "collectible"),
			Price:       formatPrice(scaleCents(base, stickerMultiplier)),
			Description: "Express your interest with this limited edition sticker pack. Based on trending prediction market signals.",
		},
		{
			ID:          m.ID + "-product-3",
			Title:       fmt.Sprintf("%s Premium %s", display, productType),
			ProductType: productType,
			Tags:        append(append([]string{}, keywords...), "premium", "limited"),
			Price:       formatPrice(scaleCents(base, premiumMultiplier)),
			Description: fmt.Sprintf("Premium %s inspired by high-confidence market signals. Limited availability based on demand indicators.", strings.ToLower(productType)),
		},
	}
}
