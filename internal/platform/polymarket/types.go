package polymarket

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// Recognized upstream payload shapes. Anything outside this union yields an
// empty record list and is reported in the batch debug metadata instead of
// crashing the request.
const (
	ParsedArray         = "array"
	ParsedObjectData    = "object.data"
	ParsedObjectMarkets = "object.markets"
	ParsedObjectResults = "object.results"
	ParsedObjectUnknown = "object.unknown"
	ParsedInvalid       = "invalid"
)

// flexFloat decodes a JSON number or a numeric string. The Gamma API is
// inconsistent about which one it returns for volume and liquidity.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// rawMarket is the superset of field spellings observed across upstream
// response variants. Normalization collapses it to domain.Market.
type rawMarket struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Question     string    `json:"question"`
	Title        string    `json:"title"`
	Name         string    `json:"name"`
	Volume       flexFloat `json:"volume"`
	Volume24h    flexFloat `json:"volume24h"`
	Liquidity    flexFloat `json:"liquidity"`
	Liquidity24h flexFloat `json:"liquidity24h"`
	EndDate      string    `json:"endDate"`
	EndDateSnake string    `json:"end_date"`
	EndDateISO   string    `json:"endDateISO"`
}

// ParsePayload classifies the upstream response body against the recognized
// shape union and returns the raw records it holds. The returned tag is one
// of the Parsed* constants.
func ParsePayload(body []byte) ([]json.RawMessage, string) {
	var arr []json.RawMessage
	if err := json.Unmarshal(body, &arr); err == nil {
		return arr, ParsedArray
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, ParsedInvalid
	}

	for _, candidate := range []struct {
		field string
		tag   string
	}{
		{"data", ParsedObjectData},
		{"markets", ParsedObjectMarkets},
		{"results", ParsedObjectResults},
	} {
		raw, ok := obj[candidate.field]
		if !ok {
			continue
		}
		var inner []json.RawMessage
		if err := json.Unmarshal(raw, &inner); err == nil {
			return inner, candidate.tag
		}
	}

	return nil, ParsedObjectUnknown
}

// NormalizeRecord converts one raw upstream record to the canonical Market.
// Records without an id or slug are rejected; the boolean reports whether
// the record was usable.
func NormalizeRecord(raw json.RawMessage) (domain.Market, bool) {
	var r rawMarket
	if err := json.Unmarshal(raw, &r); err != nil {
		return domain.Market{}, false
	}
	if r.ID == "" && r.Slug == "" {
		return domain.Market{}, false
	}

	id := r.ID
	if id == "" {
		id = r.Slug
	}

	question := r.Question
	if question == "" {
		question = r.Title
	}
	if question == "" {
		question = r.Name
	}
	if question == "" {
		question = "Unknown market"
	}

	slug := r.Slug
	if slug == "" {
		slug = r.ID
	}

	volume := float64(r.Volume)
	if volume == 0 {
		volume = float64(r.Volume24h)
	}
	liquidity := float64(r.Liquidity)
	if liquidity == 0 {
		liquidity = float64(r.Liquidity24h)
	}

	return domain.Market{
		ID:        id,
		Question:  question,
		Slug:      slug,
		Volume:    volume,
		Liquidity: liquidity,
		EndDate:   parseEndDate(r.EndDate, r.EndDateSnake, r.EndDateISO),
	}, true
}

// parseEndDate tries each spelling in order and returns the first that
// parses as RFC 3339.
func parseEndDate(candidates ...string) *time.Time {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, c); err == nil {
			return &t
		}
	}
	return nil
}
