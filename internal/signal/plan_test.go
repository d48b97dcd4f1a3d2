package signal

import (
	"testing"
	"time"

	"github.com/prophetlabs/signal2store/internal/domain"
)

func planSignal(question string, volume float64, end *time.Time) domain.DemandSignal {
	m := domain.Market{ID: "m1", Question: question, Volume: volume, EndDate: end}
	m.Score = m.TotalActivity()
	return domain.DemandSignal{
		ID:                  m.ID,
		Question:            m.Question,
		Confidence:          1.0,
		RecommendedProducts: RecommendedProducts(m),
		Market:              m,
	}
}

func TestBuildPlanLaunchTiming(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	soon := now.Add(30 * 24 * time.Hour)
	far := now.Add(90 * 24 * time.Hour)

	rush := BuildPlan(planSignal("Will GDP shrink?", 1_000_000, &soon), now)
	if rush.LaunchTiming != "Rush drop" {
		t.Errorf("end date inside the rush window: timing = %q, want Rush drop", rush.LaunchTiming)
	}

	test := BuildPlan(planSignal("Will GDP shrink?", 1_000_000, &far), now)
	if test.LaunchTiming != "Test drop" {
		t.Errorf("end date outside the rush window: timing = %q, want Test drop", test.LaunchTiming)
	}

	noEnd := BuildPlan(planSignal("Will GDP shrink?", 1_000_000, nil), now)
	if noEnd.LaunchTiming != "Test drop" {
		t.Errorf("missing end date: timing = %q, want Test drop", noEnd.LaunchTiming)
	}
}

func TestBuildPlanBundle(t *testing.T) {
	now := time.Now()
	plan := BuildPlan(planSignal("Will GDP shrink?", 1_000_000, nil), now)

	if len(plan.RecommendedBundle.Products) != 2 {
		t.Fatalf("bundle should pair the first two products, got %d", len(plan.RecommendedBundle.Products))
	}

	// Base tier: $9.99 + $3.99 = $13.98, 15% off = $11.88 (rounded).
	if plan.RecommendedBundle.BundlePrice != "$11.88" {
		t.Errorf("bundle price = %s, want $11.88", plan.RecommendedBundle.BundlePrice)
	}
}

func TestBuildPlanRiskCheck(t *testing.T) {
	now := time.Now()

	risky := BuildPlan(planSignal("Will Tesla stock double?", 1_000_000, nil), now)
	if risky.RiskCheck.AvoidsTrademarks {
		t.Error("question naming Tesla should fail the trademark check")
	}

	safe := BuildPlan(planSignal("Will the economy enter recession?", 1_000_000, nil), now)
	if !safe.RiskCheck.AvoidsTrademarks {
		t.Error("generic question should pass the trademark check")
	}
	if !safe.RiskCheck.UsesGenericLanguage {
		t.Error("trademark-free question should count as generic language")
	}
}

func TestBuildPlanCategoryRouting(t *testing.T) {
	now := time.Now()
	plan := BuildPlan(planSignal("Will Ethereum flip Bitcoin?", 1_000_000, nil), now)

	if plan.TargetAudience != "Crypto enthusiasts and trend followers" {
		t.Errorf("audience = %q", plan.TargetAudience)
	}
	if plan.ChannelRecommendation != "TikTok/IG" {
		t.Errorf("channel = %q", plan.ChannelRecommendation)
	}
	if plan.CollectionName != "Crypto Trend Drops" {
		t.Errorf("collection = %q", plan.CollectionName)
	}
	if plan.AdCopy.Headline == "" || plan.AdCopy.Description == "" || plan.AdCopy.WhyBundle == "" {
		t.Error("templated ad copy must populate every field")
	}
}

func TestFallbackCopy(t *testing.T) {
	withKeywords := FallbackCopy("Will Bitcoin reach $200k?", []string{"crypto", "tech"})
	if withKeywords.Headline != "Crypto trend merch drop" {
		t.Errorf("headline = %q", withKeywords.Headline)
	}

	bare := FallbackCopy("Will it rain?", nil)
	if bare.Headline != "Trending trend merch drop" {
		t.Errorf("headline without keywords = %q", bare.Headline)
	}
	if bare.Description == "" || bare.WhyBundle == "" {
		t.Error("fallback copy must populate every field")
	}
}
