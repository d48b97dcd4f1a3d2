package domain

// DemandSignal is the derived merchandising view of a market. Signals are
// recomputed from the current batch on every request and never persisted.
type DemandSignal struct {
	ID                  string               `json:"id"`
	Question            string               `json:"question"`
	Confidence          float64              `json:"confidence"` // [0.3, 1.0]
	Why                 []string             `json:"why"`        // max 3 bullets
	RecommendedProducts []RecommendedProduct `json:"recommendedProducts"`
	Market              Market               `json:"market"`
}

// RecommendedProduct is a synthesized product listing derived from a market.
type RecommendedProduct struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	ProductType string   `json:"productType"`
	Tags        []string `json:"tags"`
	Price       string   `json:"price"` // display string, e.g. "$14.99"
	Description string   `json:"description"`
}

// AdCopy is templated marketing copy for a signal's product drop. It is
// produced deterministically and may be overridden field-by-field by the LLM.
type AdCopy struct {
	Headline    string `json:"headline"`
	Description string `json:"description"`
	WhyBundle   string `json:"whyBundle"`
}

// Bundle pairs the first products of a signal at a discounted combined price.
type Bundle struct {
	Products    []RecommendedProduct `json:"products"`
	BundlePrice string               `json:"bundlePrice"`
}

// RiskCheck records a shallow trademark / generic-language scan over the
// market question.
type RiskCheck struct {
	AvoidsTrademarks    bool `json:"avoidsTrademarks"`
	UsesGenericLanguage bool `json:"usesGenericLanguage"`
}

// AgentPlan is the full merchandising plan derived from a signal.
type AgentPlan struct {
	TargetAudience        string    `json:"targetAudience"`
	RecommendedBundle     Bundle    `json:"recommendedBundle"`
	LaunchTiming          string    `json:"launchTiming"` // "Rush drop" or "Test drop"
	ChannelRecommendation string    `json:"channelRecommendation"`
	CollectionName        string    `json:"collectionName"`
	AdCopy                AdCopy    `json:"adCopy"`
	RiskCheck             RiskCheck `json:"riskCheck"`
}
