package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prophetlabs/signal2store/internal/analytics"
	"github.com/prophetlabs/signal2store/internal/domain"
	"github.com/prophetlabs/signal2store/internal/store/memory"
)

// disabledSender keeps tracker dispatch out of service tests.
type disabledSender struct{}

func (disabledSender) Enabled() bool { return false }
func (disabledSender) Send(context.Context, string, map[string]any) error {
	return nil
}

type workspaceFixture struct {
	svc    *WorkspaceService
	drafts *memory.DraftStore
	events *memory.EventStore
	prefs  *memory.PrefsStore
}

func newWorkspaceFixture(t *testing.T) *workspaceFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	drafts := memory.NewDraftStore(0)
	published := memory.NewPublishedStore(0)
	events := memory.NewEventStore(0)
	prefs := memory.NewPrefsStore()
	tracker := analytics.NewTracker(events, disabledSender{}, nil, logger)

	return &workspaceFixture{
		svc:    NewWorkspaceService(drafts, published, events, prefs, tracker, logger),
		drafts: drafts,
		events: events,
		prefs:  prefs,
	}
}

func testSignal() domain.DemandSignal {
	m := domain.Market{
		ID:       "m1",
		Question: "Will Bitcoin reach $200k?",
		Volume:   2_000_000,
	}
	m.Score = m.TotalActivity()
	return domain.DemandSignal{
		ID:         m.ID,
		Question:   m.Question,
		Confidence: 0.8,
		Market:     m,
	}
}

func testProduct() domain.RecommendedProduct {
	return domain.RecommendedProduct{
		ID:          "m1-product-1",
		Title:       "Crypto Trend Tee",
		ProductType: "Apparel",
		Tags:        []string{"crypto", "t-shirt"},
		Price:       "$19.99",
		Description: "Signal-inspired crypto apparel.",
	}
}

func TestCreateDraft(t *testing.T) {
	ctx := context.Background()
	f := newWorkspaceFixture(t)

	draft, created, err := f.svc.CreateDraft(ctx, testSignal(), testProduct())
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	if !created {
		t.Fatal("expected draft to be created")
	}
	if draft.Status != domain.DraftStatusDraft {
		t.Errorf("status = %s, want draft", draft.Status)
	}
	if draft.ProductKey != "m1::Apparel::crypto trend tee" {
		t.Errorf("product key = %q", draft.ProductKey)
	}
	if draft.Confidence != 80 {
		t.Errorf("confidence = %d, want 80", draft.Confidence)
	}

	events, _ := f.events.List(ctx, 0)
	if len(events) != 1 || events[0].Type != domain.EventDraftGenerated {
		t.Errorf("expected one draft_generated event, got %v", events)
	}
}

func TestCreateDraftDuplicateIsNoOp(t *testing.T) {
	ctx := context.Background()
	f := newWorkspaceFixture(t)

	if _, created, err := f.svc.CreateDraft(ctx, testSignal(), testProduct()); err != nil || !created {
		t.Fatalf("first create: created=%v err=%v", created, err)
	}

	// Identical product key: no second draft, one skip event.
	_, created, err := f.svc.CreateDraft(ctx, testSignal(), testProduct())
	if err != nil {
		t.Fatalf("duplicate create: %v", err)
	}
	if created {
		t.Fatal("duplicate must not create a draft")
	}

	drafts, _ := f.drafts.List(ctx)
	if len(drafts) != 1 {
		t.Errorf("expected 1 draft, got %d", len(drafts))
	}
	events, _ := f.events.List(ctx, 0)
	if len(events) != 2 {
		t.Errorf("expected create + skip events, got %d", len(events))
	}
}

func TestCreateDraftTitleVariantIsStillDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newWorkspaceFixture(t)

	if _, _, err := f.svc.CreateDraft(ctx, testSignal(), testProduct()); err != nil {
		t.Fatalf("first create: %v", err)
	}

	variant := testProduct()
	variant.ID = "m1-product-1b"
	variant.Title = "  CRYPTO  trend tee!! "

	_, created, err := f.svc.CreateDraft(ctx, testSignal(), variant)
	if err != nil {
		t.Fatalf("variant create: %v", err)
	}
	if created {
		t.Error("normalized title variant must be suppressed as duplicate")
	}
}

func TestPublishDraft(t *testing.T) {
	ctx := context.Background()
	f := newWorkspaceFixture(t)

	draft, _, err := f.svc.CreateDraft(ctx, testSignal(), testProduct())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	product, err := f.svc.Publish(ctx, draft.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if product.ProductKey != draft.ProductKey {
		t.Errorf("published key = %q, want %q", product.ProductKey, draft.ProductKey)
	}

	// Keyword preferences get +1 for the draft's keywords and tags.
	prefs, _ := f.prefs.Get(ctx)
	if prefs.Keywords["crypto"] != 1 {
		t.Errorf("crypto score = %d, want 1", prefs.Keywords["crypto"])
	}
	if prefs.Keywords["t-shirt"] != 1 {
		t.Errorf("t-shirt score = %d, want 1", prefs.Keywords["t-shirt"])
	}

	// Published draft cannot be published or rejected again.
	if _, err := f.svc.Publish(ctx, draft.ID); !errors.Is(err, domain.ErrInvalidDraftState) {
		t.Errorf("second publish: got %v, want ErrInvalidDraftState", err)
	}
	if _, err := f.svc.Reject(ctx, draft.ID); !errors.Is(err, domain.ErrInvalidDraftState) {
		t.Errorf("reject after publish: got %v, want ErrInvalidDraftState", err)
	}

	// Its key stays held: the same product cannot be drafted again.
	_, created, _ := f.svc.CreateDraft(ctx, testSignal(), testProduct())
	if created {
		t.Error("published product key must suppress new drafts")
	}
}

func TestRejectReleasesKeyAndDownvotes(t *testing.T) {
	ctx := context.Background()
	f := newWorkspaceFixture(t)

	draft, _, err := f.svc.CreateDraft(ctx, testSignal(), testProduct())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rejected, err := f.svc.Reject(ctx, draft.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != domain.DraftStatusRejected {
		t.Errorf("status = %s, want rejected", rejected.Status)
	}

	prefs, _ := f.prefs.Get(ctx)
	if prefs.Keywords["crypto"] != -1 {
		t.Errorf("crypto score = %d, want -1", prefs.Keywords["crypto"])
	}

	// The key is released: the same product can be drafted again.
	_, created, err := f.svc.CreateDraft(ctx, testSignal(), testProduct())
	if err != nil {
		t.Fatalf("redraft: %v", err)
	}
	if !created {
		t.Error("rejected draft must release its product key")
	}
}

func TestPublishUnknownDraft(t *testing.T) {
	f := newWorkspaceFixture(t)
	if _, err := f.svc.Publish(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	f := newWorkspaceFixture(t)

	draft, _, _ := f.svc.CreateDraft(ctx, testSignal(), testProduct())
	if _, err := f.svc.Publish(ctx, draft.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if err := f.svc.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	state, err := f.svc.State(ctx)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if len(state.Drafts) != 0 || len(state.Published) != 0 || len(state.Events) != 0 {
		t.Errorf("reset left state behind: %+v", state)
	}
	if state.Prefs.Confidence != domain.DefaultConfidenceThreshold || len(state.Prefs.Keywords) != 0 {
		t.Errorf("reset should restore default prefs, got %+v", state.Prefs)
	}
}
