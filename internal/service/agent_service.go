package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prophetlabs/signal2store/internal/domain"
	"github.com/prophetlabs/signal2store/internal/platform/openai"
	"github.com/prophetlabs/signal2store/internal/signal"
)

// CopySource tells the dashboard where the ad copy came from.
const (
	CopySourceLLM      = "llm"
	CopySourceFallback = "fallback"
)

// topKeywordCount caps how many stored preference keywords feed the copy
// generator.
const topKeywordCount = 5

// CopyInput carries the market context the copy generator works from. The
// caller supplies TopKeywords explicitly or leaves it empty to use the
// operator's stored preferences.
type CopyInput struct {
	Market              domain.Market
	RecommendedProducts []domain.RecommendedProduct
	TopKeywords         []string
}

// AgentResult is the agent endpoint's response: the generated ad copy with
// its provenance, plus the full merchandising plan when the request was
// resolved from a live signal.
type AgentResult struct {
	OK          bool              `json:"ok"`
	Source      string            `json:"source"`
	Headline    string            `json:"headline"`
	Description string            `json:"description"`
	WhyBundle   string            `json:"whyBundle"`
	SignalID    string            `json:"signalId,omitempty"`
	Plan        *domain.AgentPlan `json:"plan,omitempty"`
}

// AgentService generates merchandising ad copy and plans. The deterministic
// fallback copy is always computed first; the LLM, when configured, upgrades
// it field by field, and any LLM failure silently keeps the fallback.
type AgentService struct {
	markets *MarketService
	prefs   domain.PrefsStore
	llm     *openai.Client
	logger  *slog.Logger
	now     func() time.Time
}

func NewAgentService(markets *MarketService, prefs domain.PrefsStore, llm *openai.Client, logger *slog.Logger) *AgentService {
	return &AgentService{
		markets: markets,
		prefs:   prefs,
		llm:     llm,
		logger:  logger.With(slog.String("component", "agent_service")),
		now:     time.Now,
	}
}

// Copy generates ad copy for the given market context. Empty TopKeywords
// fall back to the operator's stored preference keywords.
func (s *AgentService) Copy(ctx context.Context, in CopyInput) AgentResult {
	keywords := in.TopKeywords
	if len(keywords) == 0 {
		keywords = s.prefKeywords(ctx)
	}

	adCopy, source := s.generateCopy(ctx, in.Market, in.RecommendedProducts, keywords)
	return AgentResult{
		OK:          true,
		Source:      source,
		Headline:    adCopy.Headline,
		Description: adCopy.Description,
		WhyBundle:   adCopy.WhyBundle,
	}
}

// Plan builds the full merchandising plan for the signal with the given ID.
// Signals are derived state, so the current batch is recomputed and the
// signal looked up within it; a stale ID returns domain.ErrNotFound.
func (s *AgentService) Plan(ctx context.Context, signalID string) (AgentResult, error) {
	signals, _, err := s.markets.Signals(ctx)
	if err != nil {
		return AgentResult{}, fmt.Errorf("service: derive signals: %w", err)
	}

	for _, sig := range signals {
		if sig.ID == signalID {
			return s.PlanForSignal(ctx, sig), nil
		}
	}
	return AgentResult{}, fmt.Errorf("service: signal %s: %w", signalID, domain.ErrNotFound)
}

// PlanForSignal builds the plan for an already-resolved signal. The plan's
// ad copy goes through the same generator as Copy, keyed on the stored
// preference keywords.
func (s *AgentService) PlanForSignal(ctx context.Context, sig domain.DemandSignal) AgentResult {
	plan := signal.BuildPlan(sig, s.now())

	adCopy, source := s.generateCopy(ctx, sig.Market, sig.RecommendedProducts, s.prefKeywords(ctx))
	plan.AdCopy = adCopy

	return AgentResult{
		OK:          true,
		Source:      source,
		Headline:    adCopy.Headline,
		Description: adCopy.Description,
		WhyBundle:   adCopy.WhyBundle,
		SignalID:    sig.ID,
		Plan:        &plan,
	}
}

// generateCopy computes the deterministic fallback copy and, when the LLM
// is configured, upgrades it field by field. A partial LLM response keeps
// the fallback value for any empty field.
func (s *AgentService) generateCopy(ctx context.Context, market domain.Market, products []domain.RecommendedProduct, keywords []string) (domain.AdCopy, string) {
	adCopy := signal.FallbackCopy(market.Question, keywords)
	source := CopySourceFallback

	if s.llm == nil || !s.llm.Enabled() {
		return adCopy, source
	}

	titles := make([]string, 0, len(products))
	for _, p := range products {
		titles = append(titles, p.Title)
	}

	result, err := s.llm.GenerateAdCopy(ctx, openai.CopyRequest{
		Question:      market.Question,
		ProductTitles: titles,
		TopKeywords:   keywords,
	})
	if err != nil {
		s.logger.Warn("llm copy generation failed, keeping fallback copy",
			slog.String("market_id", market.ID),
			slog.String("error", err.Error()))
		return adCopy, source
	}

	if result.Headline != "" {
		adCopy.Headline = result.Headline
		source = CopySourceLLM
	}
	if result.Description != "" {
		adCopy.Description = result.Description
		source = CopySourceLLM
	}
	if result.WhyBundle != "" {
		adCopy.WhyBundle = result.WhyBundle
		source = CopySourceLLM
	}
	return adCopy, source
}

// prefKeywords loads the operator's top preference keywords. Read failures
// are logged, not surfaced; copy generation must always proceed.
func (s *AgentService) prefKeywords(ctx context.Context) []string {
	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		s.logger.Warn("preferences read failed, generating copy without keywords",
			slog.String("error", err.Error()))
		return nil
	}
	return prefs.TopKeywords(topKeywordCount)
}
