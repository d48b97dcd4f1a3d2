package signal

import (
	"github.com/prophetlabs/signal2store/internal/domain"
)

// Confidence floor and ceiling. The floor keeps weak signals visible on the
// dashboard instead of rendering them at zero width.
const (
	confidenceFloor   = 0.3
	confidenceCeiling = 1.0
)

// Activity thresholds for the "why" bullets.
const (
	highActivity   = 3_000_000
	strongActivity = 2_000_000
)

// Confidence scales a market's activity against the maximum of the current
// batch, clamped to [0.3, 1.0]. The score is deliberately batch-relative: a
// re-fetch that changes the batch maximum changes every confidence, even for
// markets whose own numbers did not move.
func Confidence(totalActivity, maxBatchActivity float64) float64 {
	if maxBatchActivity < 1 {
		maxBatchActivity = 1
	}
	c := totalActivity / maxBatchActivity
	if c < confidenceFloor {
		return confidenceFloor
	}
	if c > confidenceCeiling {
		return confidenceCeiling
	}
	return c
}

// whyBullets builds up to three commerce-focused reasons for a signal.
func whyBullets(m domain.Market, confidence float64, boosted bool) []string {
	bullets := []string{"Demand likely to spike if this event happens"}

	switch activity := m.TotalActivity(); {
	case activity > highActivity:
		bullets = append(bullets, "High signal activity suggests trend attention")
	case activity > strongActivity:
		bullets = append(bullets, "Strong signal activity indicates growing interest")
	}

	if boosted {
		bullets = append(bullets, "Matches your past published categories")
	}
	if confidence > 0.7 {
		bullets = append(bullets, "High confidence signal for product demand")
	}

	if len(bullets) > 3 {
		bullets = bullets[:3]
	}
	return bullets
}

// BuildSignals derives demand signals from a ranked market batch. Keyword
// preference scores only affect the boosted badge and bullet text; they
// never reorder the batch.
func BuildSignals(markets []domain.Market, prefs domain.Preferences) []domain.DemandSignal {
	maxActivity := 1.0
	for _, m := range markets {
		if a := m.TotalActivity(); a > maxActivity {
			maxActivity = a
		}
	}

	signals := make([]domain.DemandSignal, 0, len(markets))
	for _, m := range markets {
		confidence := Confidence(m.TotalActivity(), maxActivity)
		keywords := ExtractKeywords(m.Question)
		boosted := prefs.Boosted(keywords)

		signals = append(signals, domain.DemandSignal{
			ID:                  m.ID,
			Question:            m.Question,
			Confidence:          confidence,
			Why:                 whyBullets(m, confidence, boosted),
			RecommendedProducts: RecommendedProducts(m),
			Market:              m,
		})
	}
	return signals
}
