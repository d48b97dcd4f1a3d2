package signal

import (
	"math"
	"testing"
	"time"

	"github.com/prophetlabs/signal2store/internal/domain"
)

func TestConfidenceBounds(t *testing.T) {
	tests := []struct {
		name     string
		activity float64
		maxBatch float64
		want     float64
	}{
		{"zero activity hits the floor", 0, 3_000_000, 0.3},
		{"tiny activity hits the floor", 1000, 3_000_000, 0.3},
		{"max market hits the ceiling", 3_000_000, 3_000_000, 1.0},
		{"one third of the batch max", 1_000_000, 3_000_000, 1.0 / 3.0},
		{"zero batch max hits the floor", 500_000, 0, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(tt.activity, tt.maxBatch)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Confidence(%v, %v) = %v, want %v", tt.activity, tt.maxBatch, got, tt.want)
			}
		})
	}
}

func TestConfidenceIsBatchRelative(t *testing.T) {
	// The same market scores differently depending on the strongest market
	// in its batch.
	inBigBatch := Confidence(1_000_000, 10_000_000)
	inSmallBatch := Confidence(1_000_000, 1_000_000)

	if inBigBatch >= inSmallBatch {
		t.Errorf("expected batch-relative confidence: big batch %v, small batch %v", inBigBatch, inSmallBatch)
	}
	if inSmallBatch != 1.0 {
		t.Errorf("market equal to batch max should score 1.0, got %v", inSmallBatch)
	}
}

func testMarket(id, question string, volume, liquidity float64) domain.Market {
	m := domain.Market{
		ID:        id,
		Question:  question,
		Volume:    volume,
		Liquidity: liquidity,
	}
	m.Score = m.TotalActivity()
	return m
}

func TestBuildSignals(t *testing.T) {
	markets := []domain.Market{
		testMarket("m1", "Will Bitcoin reach $200k?", 2_000_000, 1_000_000),
		testMarket("m2", "Will the AI model ship this quarter?", 600_000, 400_000),
	}

	signals := BuildSignals(markets, domain.DefaultPreferences())
	if len(signals) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(signals))
	}

	first := signals[0]
	if first.ID != "m1" {
		t.Errorf("signal ID should be the market ID, got %q", first.ID)
	}
	if first.Confidence != 1.0 {
		t.Errorf("strongest market should have confidence 1.0, got %v", first.Confidence)
	}
	if len(first.Why) == 0 || len(first.Why) > 3 {
		t.Errorf("why bullets must be 1..3, got %d", len(first.Why))
	}
	if len(first.RecommendedProducts) != 3 {
		t.Errorf("expected 3 recommended products, got %d", len(first.RecommendedProducts))
	}

	second := signals[1]
	if second.Confidence >= first.Confidence {
		t.Errorf("weaker market must not outscore the batch max: %v >= %v", second.Confidence, first.Confidence)
	}
	if second.Confidence < 0.3 || second.Confidence > 1.0 {
		t.Errorf("confidence out of bounds: %v", second.Confidence)
	}
}

func TestBuildSignalsEmptyBatch(t *testing.T) {
	signals := BuildSignals(nil, domain.DefaultPreferences())
	if len(signals) != 0 {
		t.Fatalf("expected no signals for empty batch, got %d", len(signals))
	}
}

func TestBuildSignalsBoostedKeywords(t *testing.T) {
	prefs := domain.DefaultPreferences()
	prefs.Keywords["crypto"] = 2

	markets := []domain.Market{
		testMarket("m1", "Will Bitcoin reach $200k?", 1_000_000, 500_000),
	}

	signals := BuildSignals(markets, prefs)
	if len(signals) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(signals))
	}

	boosted := false
	for _, why := range signals[0].Why {
		if why == "Matches your past published categories" {
			boosted = true
		}
	}
	if !boosted {
		t.Errorf("positive keyword score should surface an interest bullet, got %v", signals[0].Why)
	}
}

func TestSignalsAreDerivedFresh(t *testing.T) {
	// Same inputs, two invocations: identical output. Derived state carries
	// nothing over between calls.
	end := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	m := testMarket("m1", "Will tech stocks rally?", 900_000, 100_000)
	m.EndDate = &end
	markets := []domain.Market{m}

	a := BuildSignals(markets, domain.DefaultPreferences())
	b := BuildSignals(markets, domain.DefaultPreferences())

	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("expected 1 signal from each call, got %d and %d", len(a), len(b))
	}
	if a[0].ID != b[0].ID || a[0].Confidence != b[0].Confidence {
		t.Errorf("repeated derivation diverged: %+v vs %+v", a[0], b[0])
	}
	for i := range a[0].RecommendedProducts {
		if a[0].RecommendedProducts[i].ID != b[0].RecommendedProducts[i].ID {
			t.Errorf("product IDs diverged between derivations")
		}
	}
}
