package polymarket

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// maxBodyBytes caps how much of an upstream response is read. Gamma market
// listings are well under this.
const maxBodyBytes = 8 << 20

// FetchMeta carries diagnostic metadata about one upstream fetch for the
// /api/polymarket debug block.
type FetchMeta struct {
	// Status is "ok" or "error_<code>"; "unreachable" when the request never
	// got a response.
	Status string
	// ParsedType is the Parsed* tag of the response shape.
	ParsedType string
}

// GammaClient is the REST client for the Polymarket Gamma API, which
// provides market discovery and metadata.
type GammaClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGammaClient creates a new Gamma API client.
//
// baseURL is the Gamma API root, e.g. "https://gamma-api.polymarket.com".
func NewGammaClient(baseURL string, timeout time.Duration) *GammaClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GammaClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ActiveMarkets fetches up to limit active, unresolved markets and
// normalizes them to canonical records. Unusable records are dropped, not
// fatal. The FetchMeta is populated even on error so callers can report
// what went wrong alongside fallback data.
func (g *GammaClient) ActiveMarkets(ctx context.Context, limit int) ([]domain.Market, FetchMeta, error) {
	meta := FetchMeta{Status: "unreachable", ParsedType: "unknown"}

	params := url.Values{}
	params.Set("active", "true")
	params.Set("closed", "false")
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/markets?"+params.Encode(), nil)
	if err != nil {
		return nil, meta, fmt.Errorf("polymarket/gamma: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, meta, fmt.Errorf("polymarket/gamma: fetch markets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		meta.Status = fmt.Sprintf("error_%d", resp.StatusCode)
		return nil, meta, fmt.Errorf("polymarket/gamma: unexpected status %d", resp.StatusCode)
	}
	meta.Status = "ok"

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, meta, fmt.Errorf("polymarket/gamma: read body: %w", err)
	}

	records, parsedType := ParsePayload(body)
	meta.ParsedType = parsedType

	markets := make([]domain.Market, 0, len(records))
	for _, raw := range records {
		if m, ok := NormalizeRecord(raw); ok {
			markets = append(markets, m)
		}
	}

	return markets, meta, nil
}
