package signal

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// rushWindow is how close to a market's end date a drop switches from a
// test run to a rush.
const rushWindow = 60 * 24 * time.Hour

var audiences = map[string]string{
	"crypto":    "Crypto enthusiasts and trend followers",
	"stocks":    "Finance-savvy consumers and investors",
	"tech":      "Early adopters and tech enthusiasts",
	"politics":  "Politically engaged consumers",
	"economics": "Economically aware shoppers",
	"general":   "Trend-conscious consumers",
}

var channels = map[string]string{
	"crypto":    "TikTok/IG",
	"stocks":    "Email",
	"tech":      "On-site banner",
	"politics":  "Search ads",
	"economics": "Email",
	"general":   "On-site banner",
}

// trademarkTerms is a shallow blocklist for the risk check.
var trademarkTerms = []string{"tesla", "apple", "bitcoin", "ethereum"}

// parsePriceCents reads a "$12.34" display price back into cents. Malformed
// prices count as zero.
func parsePriceCents(price string) int {
	var dollars, cents int
	if _, err := fmt.Sscanf(price, "$%d.%02d", &dollars, &cents); err != nil {
		return 0
	}
	return dollars*100 + cents
}

// BuildPlan derives the merchandising plan for a signal at the given time.
// now is passed in rather than read from the clock so the plan is a pure
// function of its inputs.
func BuildPlan(sig domain.DemandSignal, now time.Time) domain.AgentPlan {
	category := PrimaryCategory(sig.Question)

	audience, ok := audiences[category]
	if !ok {
		audience = audiences["general"]
	}
	channel, ok := channels[category]
	if !ok {
		channel = channels["general"]
	}

	bundleProducts := sig.RecommendedProducts
	if len(bundleProducts) > 2 {
		bundleProducts = bundleProducts[:2]
	}
	sum := 0
	for _, p := range bundleProducts {
		sum += parsePriceCents(p.Price)
	}
	bundleCents := int(math.Round(float64(sum) * 0.85))

	timing := "Test drop"
	if sig.Market.EndDate != nil && sig.Market.EndDate.Sub(now) < rushWindow {
		timing = "Rush drop"
	}

	questionLower := strings.ToLower(sig.Question)
	avoidsTrademarks := true
	for _, term := range trademarkTerms {
		if strings.Contains(questionLower, term) {
			avoidsTrademarks = false
			break
		}
	}
	generic := strings.Contains(questionLower, "trend") ||
		strings.Contains(questionLower, "signal") ||
		strings.Contains(questionLower, "market")

	return domain.AgentPlan{
		TargetAudience: audience,
		RecommendedBundle: domain.Bundle{
			Products:    bundleProducts,
			BundlePrice: fmt.Sprintf("$%d.%02d", bundleCents/100, bundleCents%100),
		},
		LaunchTiming:          timing,
		ChannelRecommendation: channel,
		CollectionName:        fmt.Sprintf("%s Trend Drops", titleCase(category)),
		AdCopy:                FallbackCopy(sig.Question, []string{category}),
		RiskCheck: domain.RiskCheck{
			AvoidsTrademarks:    avoidsTrademarks,
			UsesGenericLanguage: generic || avoidsTrademarks,
		},
	}
}
