package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prophetlabs/signal2store/internal/domain"
)

func TestDraftStoreRingCap(t *testing.T) {
	ctx := context.Background()
	s := NewDraftStore(3)

	for i := 0; i < 5; i++ {
		err := s.Create(ctx, domain.Draft{ID: fmt.Sprintf("d%d", i), Status: domain.DraftStatusDraft})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	drafts, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(drafts) != 3 {
		t.Fatalf("expected 3 retained drafts, got %d", len(drafts))
	}
	if drafts[0].ID != "d2" || drafts[2].ID != "d4" {
		t.Errorf("oldest drafts should be evicted first, got %q..%q", drafts[0].ID, drafts[2].ID)
	}

	if _, err := s.GetByID(ctx, "d0"); err != domain.ErrNotFound {
		t.Errorf("evicted draft lookup: got %v, want ErrNotFound", err)
	}
}

func TestDraftStoreProductKeyLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewDraftStore(0)

	draft := domain.Draft{ID: "d1", ProductKey: "m1::Apparel::tee", Status: domain.DraftStatusDraft}
	if err := s.Create(ctx, draft); err != nil {
		t.Fatalf("create: %v", err)
	}

	held, err := s.HasActiveProductKey(ctx, draft.ProductKey)
	if err != nil || !held {
		t.Fatalf("active draft should hold its key, held=%v err=%v", held, err)
	}

	// Publishing keeps the key held.
	if err := s.UpdateStatus(ctx, "d1", domain.DraftStatusPublished); err != nil {
		t.Fatalf("update status: %v", err)
	}
	held, _ = s.HasActiveProductKey(ctx, draft.ProductKey)
	if !held {
		t.Error("published draft should still hold its key")
	}

	// Rejection releases it.
	if err := s.UpdateStatus(ctx, "d1", domain.DraftStatusRejected); err != nil {
		t.Fatalf("update status: %v", err)
	}
	held, _ = s.HasActiveProductKey(ctx, draft.ProductKey)
	if held {
		t.Error("rejected draft must release its key")
	}
}

func TestDraftStoreUpdateStatusNotFound(t *testing.T) {
	s := NewDraftStore(0)
	if err := s.UpdateStatus(context.Background(), "missing", domain.DraftStatusRejected); err != domain.ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestPublishedStoreRingCapAndKeys(t *testing.T) {
	ctx := context.Background()
	s := NewPublishedStore(2)

	for i := 0; i < 3; i++ {
		p := domain.PublishedProduct{
			ID:         fmt.Sprintf("p%d", i),
			ProductKey: fmt.Sprintf("key%d", i),
		}
		if err := s.Create(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	products, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 retained products, got %d", len(products))
	}

	// The evicted product's key is no longer held.
	if held, _ := s.HasProductKey(ctx, "key0"); held {
		t.Error("evicted product should release its key")
	}
	if held, _ := s.HasProductKey(ctx, "key2"); !held {
		t.Error("retained product should hold its key")
	}
}

func TestEventStoreOrderingAndCap(t *testing.T) {
	ctx := context.Background()
	s := NewEventStore(4)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		ev := domain.Event{
			ID:        fmt.Sprintf("e%d", i),
			Type:      domain.EventTrack,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.Append(ctx, ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 retained events, got %d", len(all))
	}
	if all[0].ID != "e5" || all[3].ID != "e2" {
		t.Errorf("List must return newest first, got %q..%q", all[0].ID, all[3].ID)
	}

	limited, _ := s.List(ctx, 2)
	if len(limited) != 2 || limited[0].ID != "e5" {
		t.Errorf("limited list wrong: %v", limited)
	}
}

func TestEventStoreListBefore(t *testing.T) {
	ctx := context.Background()
	s := NewEventStore(0)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		s.Append(ctx, domain.Event{
			ID:        fmt.Sprintf("e%d", i),
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		})
	}

	cutoff := base.Add(2 * time.Hour)
	old, err := s.ListBefore(ctx, cutoff)
	if err != nil {
		t.Fatalf("list before: %v", err)
	}
	if len(old) != 2 {
		t.Fatalf("expected 2 events before cutoff, got %d", len(old))
	}
	// Oldest first, and the event at exactly the cutoff is excluded.
	if old[0].ID != "e0" || old[1].ID != "e1" {
		t.Errorf("ListBefore order wrong: %q, %q", old[0].ID, old[1].ID)
	}
}

func TestPrefsStoreDefaultsAndIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewPrefsStore()

	prefs, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prefs.Confidence != domain.DefaultConfidenceThreshold {
		t.Errorf("default confidence = %d, want %d", prefs.Confidence, domain.DefaultConfidenceThreshold)
	}
	if len(prefs.Keywords) != 0 {
		t.Errorf("default keywords should be empty, got %v", prefs.Keywords)
	}

	prefs.Keywords["crypto"] = 1
	if err := s.Put(ctx, prefs); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Mutating the caller's map after Put must not leak into the store.
	prefs.Keywords["crypto"] = 99

	stored, _ := s.Get(ctx)
	if stored.Keywords["crypto"] != 1 {
		t.Errorf("stored keyword score = %d, want 1 (caller mutation leaked)", stored.Keywords["crypto"])
	}

	// Mutating a Get result must not affect subsequent reads.
	stored.Keywords["crypto"] = -5
	again, _ := s.Get(ctx)
	if again.Keywords["crypto"] != 1 {
		t.Errorf("reread keyword score = %d, want 1 (read copy leaked)", again.Keywords["crypto"])
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cleared, _ := s.Get(ctx)
	if cleared.Confidence != domain.DefaultConfidenceThreshold || len(cleared.Keywords) != 0 {
		t.Errorf("clear should restore defaults, got %+v", cleared)
	}
}
