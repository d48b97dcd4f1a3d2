package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prophetlabs/signal2store/internal/domain"
	"github.com/prophetlabs/signal2store/internal/platform/openai"
	"github.com/prophetlabs/signal2store/internal/store/memory"
)

func agentFixture(t *testing.T, llm *openai.Client) (*AgentService, *memory.PrefsStore) {
	t.Helper()
	prefs := memory.NewPrefsStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAgentService(nil, prefs, llm, logger), prefs
}

func seedPrefs(t *testing.T, prefs *memory.PrefsStore, keywords map[string]int) {
	t.Helper()
	p, err := prefs.Get(context.Background())
	if err != nil {
		t.Fatalf("get prefs: %v", err)
	}
	p.Keywords = keywords
	if err := prefs.Put(context.Background(), p); err != nil {
		t.Fatalf("put prefs: %v", err)
	}
}

func TestCopyUsesStoredPreferenceKeywords(t *testing.T) {
	svc, prefs := agentFixture(t, nil)
	seedPrefs(t, prefs, map[string]int{"crypto": 3, "tech": 1})

	result := svc.Copy(context.Background(), CopyInput{
		Market: domain.Market{ID: "m1", Question: "Will Bitcoin reach $200k?"},
	})

	if !result.OK || result.Source != CopySourceFallback {
		t.Fatalf("result = ok=%v source=%s", result.OK, result.Source)
	}
	// The highest-scoring stored keyword leads the fallback headline.
	if result.Headline != "Crypto trend merch drop" {
		t.Errorf("headline = %q", result.Headline)
	}
	if result.Plan != nil {
		t.Error("copy-only request must not carry a plan")
	}
}

func TestCopyExplicitKeywordsWin(t *testing.T) {
	svc, prefs := agentFixture(t, nil)
	seedPrefs(t, prefs, map[string]int{"crypto": 3})

	result := svc.Copy(context.Background(), CopyInput{
		Market:      domain.Market{Question: "Will Tesla stock double?"},
		TopKeywords: []string{"stocks"},
	})
	if result.Headline != "Stocks trend merch drop" {
		t.Errorf("headline = %q", result.Headline)
	}
}

func TestCopyWithoutAnyKeywords(t *testing.T) {
	svc, _ := agentFixture(t, nil)

	result := svc.Copy(context.Background(), CopyInput{
		Market: domain.Market{Question: "Will it snow tomorrow?"},
	})
	if result.Headline != "Trending trend merch drop" {
		t.Errorf("headline = %q", result.Headline)
	}
}

func TestCopyLLMOverride(t *testing.T) {
	var prompt string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && len(req.Messages) == 2 {
			prompt = req.Messages[1].Content
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"headline\":\"Moon Merch Is Here\",\"description\":\"Ride the wave.\",\"whyBundle\":\"Save big.\"}"}}]}`))
	}))
	defer upstream.Close()

	llm := openai.NewClient(upstream.URL, "test-key", "gpt-4o-mini", 2*time.Second)
	svc, prefs := agentFixture(t, llm)
	seedPrefs(t, prefs, map[string]int{"crypto": 2})

	result := svc.Copy(context.Background(), CopyInput{
		Market:              domain.Market{Question: "Will Bitcoin reach $200k?"},
		RecommendedProducts: []domain.RecommendedProduct{{Title: "Crypto Trend Tee"}},
	})

	if result.Source != CopySourceLLM {
		t.Fatalf("source = %s, want llm", result.Source)
	}
	if result.Headline != "Moon Merch Is Here" {
		t.Errorf("headline = %q", result.Headline)
	}
	// The stored preference keywords reach the model prompt.
	if !strings.Contains(prompt, "crypto") {
		t.Errorf("prompt lacks stored keywords: %q", prompt)
	}
}

func TestCopyLLMFailureKeepsFallback(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	llm := openai.NewClient(upstream.URL, "test-key", "gpt-4o-mini", 2*time.Second)
	svc, prefs := agentFixture(t, llm)
	seedPrefs(t, prefs, map[string]int{"crypto": 2})

	result := svc.Copy(context.Background(), CopyInput{
		Market: domain.Market{Question: "Will Bitcoin reach $200k?"},
	})
	if result.Source != CopySourceFallback {
		t.Fatalf("source = %s, want fallback", result.Source)
	}
	if result.Headline != "Crypto trend merch drop" {
		t.Errorf("headline = %q", result.Headline)
	}
}

func TestPlanForSignalCarriesPlanAndCopy(t *testing.T) {
	svc, prefs := agentFixture(t, nil)
	seedPrefs(t, prefs, map[string]int{"crypto": 1})

	end := time.Now().Add(30 * 24 * time.Hour)
	sig := domain.DemandSignal{
		ID:       "m1",
		Question: "Will Bitcoin reach $200k?",
		RecommendedProducts: []domain.RecommendedProduct{
			{Title: "Crypto Trend Tee", Price: "$14.99"},
			{Title: "Crypto Sticker", Price: "$3.99"},
		},
		Market: domain.Market{ID: "m1", Question: "Will Bitcoin reach $200k?", EndDate: &end},
	}

	result := svc.PlanForSignal(context.Background(), sig)
	if !result.OK || result.SignalID != "m1" || result.Plan == nil {
		t.Fatalf("result = %+v", result)
	}
	if result.Plan.LaunchTiming != "Rush drop" {
		t.Errorf("launch timing = %q", result.Plan.LaunchTiming)
	}
	if result.Plan.AdCopy.Headline != result.Headline {
		t.Errorf("plan copy %q diverges from top-level copy %q",
			result.Plan.AdCopy.Headline, result.Headline)
	}
}
