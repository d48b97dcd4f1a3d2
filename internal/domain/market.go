package domain

import "time"

// MarketSource identifies where a batch of markets came from.
type MarketSource string

const (
	// SourceLive means the batch was fetched from the upstream Gamma API.
	SourceLive MarketSource = "live"
	// SourceFallback means the bundled dataset was served because the
	// upstream call failed or produced no usable markets.
	SourceFallback MarketSource = "fallback"
)

// Market is the canonical prediction-market record. Upstream responses are
// normalized into this shape before any derived-state computation; fields
// outside it are dropped.
type Market struct {
	ID        string     `json:"id"`
	Question  string     `json:"question"`
	Slug      string     `json:"slug,omitempty"`
	Volume    float64    `json:"volume"`
	Liquidity float64    `json:"liquidity"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	// Score is volume+liquidity, populated when the batch is ranked.
	Score float64 `json:"score"`
}

// TotalActivity returns the demand proxy used for ranking, confidence
// scoring, and price tiering.
func (m Market) TotalActivity() float64 {
	return m.Volume + m.Liquidity
}

// MarketBatch is a ranked set of markets together with its provenance.
type MarketBatch struct {
	Markets []Market     `json:"markets"`
	Source  MarketSource `json:"source"`
	Debug   BatchDebug   `json:"debug"`
}

// BatchDebug carries diagnostic metadata about the upstream fetch. It is
// returned to the dashboard verbatim and never interpreted by the server.
type BatchDebug struct {
	LiveCount  int    `json:"liveCount"`
	Status     string `json:"status"`
	ParsedType string `json:"parsedType"`
}
