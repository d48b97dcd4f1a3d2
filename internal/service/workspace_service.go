package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prophetlabs/signal2store/internal/analytics"
	"github.com/prophetlabs/signal2store/internal/domain"
	"github.com/prophetlabs/signal2store/internal/signal"
)

// eventListLimit bounds the event slice returned in workspace state
// responses. The stores retain more; the dashboard only renders a page.
const eventListLimit = 100

// WorkspaceState is the full dashboard view of the draft workspace.
type WorkspaceState struct {
	Drafts    []domain.Draft            `json:"drafts"`
	Published []domain.PublishedProduct `json:"published"`
	Events    []domain.Event            `json:"events"`
	Prefs     domain.Preferences        `json:"prefs"`
}

// WorkspaceService owns the draft lifecycle: create with duplicate
// suppression, publish, reject, and reset. Every state change lands in the
// event log and adjusts keyword preferences.
type WorkspaceService struct {
	drafts    domain.DraftStore
	published domain.PublishedStore
	events    domain.EventStore
	prefs     domain.PrefsStore
	tracker   *analytics.Tracker
	logger    *slog.Logger
}

func NewWorkspaceService(
	drafts domain.DraftStore,
	published domain.PublishedStore,
	events domain.EventStore,
	prefs domain.PrefsStore,
	tracker *analytics.Tracker,
	logger *slog.Logger,
) *WorkspaceService {
	return &WorkspaceService{
		drafts:    drafts,
		published: published,
		events:    events,
		prefs:     prefs,
		tracker:   tracker,
		logger:    logger.With(slog.String("component", "workspace_service")),
	}
}

// State returns the current workspace view.
func (s *WorkspaceService) State(ctx context.Context) (WorkspaceState, error) {
	drafts, err := s.drafts.List(ctx)
	if err != nil {
		return WorkspaceState{}, fmt.Errorf("service: list drafts: %w", err)
	}
	published, err := s.published.List(ctx)
	if err != nil {
		return WorkspaceState{}, fmt.Errorf("service: list published: %w", err)
	}
	events, err := s.events.List(ctx, eventListLimit)
	if err != nil {
		return WorkspaceState{}, fmt.Errorf("service: list events: %w", err)
	}
	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		return WorkspaceState{}, fmt.Errorf("service: get prefs: %w", err)
	}
	return WorkspaceState{
		Drafts:    drafts,
		Published: published,
		Events:    events,
		Prefs:     prefs,
	}, nil
}

// Drafts lists all retained drafts.
func (s *WorkspaceService) Drafts(ctx context.Context) ([]domain.Draft, error) {
	drafts, err := s.drafts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: list drafts: %w", err)
	}
	return drafts, nil
}

// Published lists all retained published products.
func (s *WorkspaceService) Published(ctx context.Context) ([]domain.PublishedProduct, error) {
	published, err := s.published.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: list published: %w", err)
	}
	return published, nil
}

// Events lists up to limit events, newest first. limit <= 0 applies the
// default page size.
func (s *WorkspaceService) Events(ctx context.Context, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = eventListLimit
	}
	events, err := s.events.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: list events: %w", err)
	}
	return events, nil
}

// Prefs returns the stored operator preferences.
func (s *WorkspaceService) Prefs(ctx context.Context) (domain.Preferences, error) {
	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("service: get prefs: %w", err)
	}
	return prefs, nil
}

// UpdatePrefs replaces the stored preferences wholesale. The keyword map is
// taken as-is so an operator can seed or correct scores directly.
func (s *WorkspaceService) UpdatePrefs(ctx context.Context, prefs domain.Preferences) (domain.Preferences, error) {
	if prefs.Keywords == nil {
		prefs.Keywords = make(map[string]int)
	}
	if err := s.prefs.Put(ctx, prefs); err != nil {
		return domain.Preferences{}, fmt.Errorf("service: put prefs: %w", err)
	}
	return prefs, nil
}

// CreateDraft materializes a recommended product from a signal as a draft.
// A product key already held by a non-rejected draft or a published product
// makes the call a no-op: no draft is created, a single "skipped duplicate"
// event is logged, and created is false.
func (s *WorkspaceService) CreateDraft(ctx context.Context, sig domain.DemandSignal, product domain.RecommendedProduct) (domain.Draft, bool, error) {
	key := signal.ProductKey(sig.Market.ID, product.ProductType, product.Title)

	activeDraft, err := s.drafts.HasActiveProductKey(ctx, key)
	if err != nil {
		return domain.Draft{}, false, fmt.Errorf("service: check draft key: %w", err)
	}
	alreadyPublished := false
	if !activeDraft {
		alreadyPublished, err = s.published.HasProductKey(ctx, key)
		if err != nil {
			return domain.Draft{}, false, fmt.Errorf("service: check published key: %w", err)
		}
	}
	if activeDraft || alreadyPublished {
		s.tracker.Track(ctx, domain.EventDraftGenerated,
			fmt.Sprintf("Skipped duplicate draft: %s", product.Title),
			map[string]any{"productKey": key, "duplicate": true})
		return domain.Draft{}, false, nil
	}

	draft := domain.Draft{
		ID:          uuid.NewString(),
		Title:       product.Title,
		ProductType: product.ProductType,
		Tags:        product.Tags,
		Price:       product.Price,
		Description: product.Description,
		Confidence:  int(sig.Confidence*100 + 0.5),
		CreatedAt:   time.Now().UTC(),
		SignalID:    sig.ID,
		ProductKey:  key,
		Status:      domain.DraftStatusDraft,
	}
	if err := s.drafts.Create(ctx, draft); err != nil {
		return domain.Draft{}, false, fmt.Errorf("service: create draft: %w", err)
	}

	s.tracker.Track(ctx, domain.EventDraftGenerated,
		fmt.Sprintf("Draft generated: %s", draft.Title),
		map[string]any{"draftId": draft.ID, "productKey": key, "confidence": draft.Confidence})

	return draft, true, nil
}

// Publish moves a draft to the storefront. Only drafts in status "draft"
// can be published; anything else returns ErrInvalidDraftState. Publishing
// bumps the score of every keyword associated with the draft by +1.
func (s *WorkspaceService) Publish(ctx context.Context, draftID string) (domain.PublishedProduct, error) {
	draft, err := s.drafts.GetByID(ctx, draftID)
	if err != nil {
		return domain.PublishedProduct{}, fmt.Errorf("service: load draft %s: %w", draftID, err)
	}
	if draft.Status != domain.DraftStatusDraft {
		return domain.PublishedProduct{}, fmt.Errorf("service: publish draft %s in status %s: %w",
			draftID, draft.Status, domain.ErrInvalidDraftState)
	}

	product := domain.PublishedProduct{
		ID:          draft.ID,
		Title:       draft.Title,
		ProductType: draft.ProductType,
		Tags:        draft.Tags,
		Price:       draft.Price,
		Description: draft.Description,
		PublishedAt: time.Now().UTC(),
		ProductKey:  draft.ProductKey,
	}
	if err := s.published.Create(ctx, product); err != nil {
		return domain.PublishedProduct{}, fmt.Errorf("service: create published product: %w", err)
	}
	if err := s.drafts.UpdateStatus(ctx, draftID, domain.DraftStatusPublished); err != nil {
		return domain.PublishedProduct{}, fmt.Errorf("service: mark draft published: %w", err)
	}

	s.adjustKeywords(ctx, draft, +1)

	s.tracker.Track(ctx, domain.EventPublished,
		fmt.Sprintf("Published: %s", draft.Title),
		map[string]any{"draftId": draft.ID, "productKey": draft.ProductKey})

	return product, nil
}

// Reject discards a draft, releasing its product key so the same product
// can be drafted again later. Only drafts in status "draft" can be
// rejected. Rejection bumps the score of every associated keyword by -1.
func (s *WorkspaceService) Reject(ctx context.Context, draftID string) (domain.Draft, error) {
	draft, err := s.drafts.GetByID(ctx, draftID)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("service: load draft %s: %w", draftID, err)
	}
	if draft.Status != domain.DraftStatusDraft {
		return domain.Draft{}, fmt.Errorf("service: reject draft %s in status %s: %w",
			draftID, draft.Status, domain.ErrInvalidDraftState)
	}

	if err := s.drafts.UpdateStatus(ctx, draftID, domain.DraftStatusRejected); err != nil {
		return domain.Draft{}, fmt.Errorf("service: mark draft rejected: %w", err)
	}
	draft.Status = domain.DraftStatusRejected

	s.adjustKeywords(ctx, draft, -1)

	s.tracker.Track(ctx, domain.EventRejected,
		fmt.Sprintf("Rejected: %s", draft.Title),
		map[string]any{"draftId": draft.ID, "productKey": draft.ProductKey})

	return draft, nil
}

// Reset clears all workspace state: drafts, published products, events,
// and preferences.
func (s *WorkspaceService) Reset(ctx context.Context) error {
	if err := s.drafts.Clear(ctx); err != nil {
		return fmt.Errorf("service: clear drafts: %w", err)
	}
	if err := s.published.Clear(ctx); err != nil {
		return fmt.Errorf("service: clear published: %w", err)
	}
	if err := s.events.Clear(ctx); err != nil {
		return fmt.Errorf("service: clear events: %w", err)
	}
	if err := s.prefs.Clear(ctx); err != nil {
		return fmt.Errorf("service: clear prefs: %w", err)
	}
	s.logger.Info("workspace reset")
	return nil
}

// adjustKeywords applies the signed delta to every keyword associated with
// the draft: extracted keywords from its title and description plus its
// tags, deduplicated. Preference write failures are logged, not surfaced;
// taste tracking must never block a publish or reject.
func (s *WorkspaceService) adjustKeywords(ctx context.Context, draft domain.Draft, delta int) {
	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		s.logger.Warn("preferences read failed, skipping keyword update",
			slog.String("error", err.Error()))
		return
	}
	if prefs.Keywords == nil {
		prefs.Keywords = make(map[string]int)
	}

	for _, k := range draftKeywords(draft) {
		prefs.Keywords[k] += delta
	}

	if err := s.prefs.Put(ctx, prefs); err != nil {
		s.logger.Warn("preferences write failed",
			slog.String("error", err.Error()))
	}
}

// draftKeywords returns the deduplicated keyword set for a draft.
func draftKeywords(draft domain.Draft) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(k string) {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}

	for _, k := range signal.ExtractKeywords(draft.Title + " " + draft.Description) {
		add(k)
	}
	for _, t := range draft.Tags {
		add(t)
	}
	return out
}
