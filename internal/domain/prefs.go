package domain

import "sort"

// DefaultConfidenceThreshold is the initial preference for the minimum
// confidence (percent) a signal needs before it is surfaced prominently.
const DefaultConfidenceThreshold = 75

// Preferences tracks operator taste. Keyword scores are signed counters:
// +1 for every keyword of a published draft, -1 for every keyword of a
// rejected one. Scores bias which signals are badged as boosted; they never
// change signal ranking order.
type Preferences struct {
	Confidence int            `json:"confidence"`
	Keywords   map[string]int `json:"keywords"`
}

// DefaultPreferences returns the preferences used before the operator has
// published or rejected anything.
func DefaultPreferences() Preferences {
	return Preferences{
		Confidence: DefaultConfidenceThreshold,
		Keywords:   make(map[string]int),
	}
}

// Boosted reports whether any of the given keywords has a positive score.
func (p Preferences) Boosted(keywords []string) bool {
	for _, k := range keywords {
		if p.Keywords[k] > 0 {
			return true
		}
	}
	return false
}

// TopKeywords returns up to n keywords ordered by descending score, ties
// broken alphabetically for determinism. Non-positive scores are excluded.
func (p Preferences) TopKeywords(n int) []string {
	type kv struct {
		key   string
		score int
	}
	ranked := make([]kv, 0, len(p.Keywords))
	for k, v := range p.Keywords {
		if v > 0 {
			ranked = append(ranked, kv{k, v})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].key < ranked[j].key
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]string, 0, n)
	for _, r := range ranked[:n] {
		out = append(out, r.key)
	}
	return out
}
