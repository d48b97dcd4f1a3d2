package analytics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prophetlabs/signal2store/internal/domain"
	"github.com/prophetlabs/signal2store/internal/store/memory"
)

type stubSender struct {
	enabled bool
	err     error

	mu    sync.Mutex
	sends []string
}

func (s *stubSender) Enabled() bool { return s.enabled }

func (s *stubSender) Send(_ context.Context, eventType string, _ map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends = append(s.sends, eventType)
	return s.err
}

type stubBroadcaster struct {
	mu     sync.Mutex
	events []domain.Event
}

func (b *stubBroadcaster) Broadcast(ev domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTrackSyncOutcomes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		sender *stubSender
		want   Outcome
	}{
		{"no key configured", &stubSender{enabled: false}, OutcomeSkippedNoKey},
		{"dispatch succeeds", &stubSender{enabled: true}, OutcomeSent},
		{"dispatch fails", &stubSender{enabled: true, err: errors.New("boom")}, OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := memory.NewEventStore(0)
			tracker := NewTracker(events, tt.sender, nil, testLogger())

			got := tracker.TrackSync(ctx, domain.EventTrack, "clicked publish", nil)
			if got != tt.want {
				t.Errorf("outcome = %s, want %s", got, tt.want)
			}

			// The local log always gets the event, whatever the dispatch did.
			logged, _ := events.List(ctx, 0)
			if len(logged) != 1 {
				t.Fatalf("expected 1 local event, got %d", len(logged))
			}
			if logged[0].Type != domain.EventTrack || logged[0].Message != "clicked publish" {
				t.Errorf("logged event = %+v", logged[0])
			}
			if logged[0].ID == "" {
				t.Error("event must be assigned an ID")
			}
		})
	}
}

func TestTrackBroadcastsToFeed(t *testing.T) {
	events := memory.NewEventStore(0)
	feed := &stubBroadcaster{}
	tracker := NewTracker(events, &stubSender{enabled: false}, feed, testLogger())

	tracker.Track(context.Background(), domain.EventPublished, "Published: Crypto Tee", nil)

	feed.mu.Lock()
	defer feed.mu.Unlock()
	if len(feed.events) != 1 {
		t.Fatalf("expected 1 broadcast event, got %d", len(feed.events))
	}
	if feed.events[0].Type != domain.EventPublished {
		t.Errorf("broadcast type = %s", feed.events[0].Type)
	}
}

func TestAmplitudeSenderPayload(t *testing.T) {
	var gotBody []byte
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	sender := NewAmplitudeSender(upstream.URL, "test-key", "demo_user", 2*time.Second)
	if !sender.Enabled() {
		t.Fatal("sender with key should be enabled")
	}

	err := sender.Send(context.Background(), "published", map[string]any{"draftId": "d1"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	body := string(gotBody)
	for _, fragment := range []string{
		`"api_key":"test-key"`,
		`"event_type":"published"`,
		`"user_id":"demo_user"`,
		`"draftId":"d1"`,
	} {
		if !strings.Contains(body, fragment) {
			t.Errorf("payload missing %s: %s", fragment, body)
		}
	}
}

func TestAmplitudeSenderNonOK(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer upstream.Close()

	sender := NewAmplitudeSender(upstream.URL, "test-key", "demo_user", 2*time.Second)
	if err := sender.Send(context.Background(), "published", nil); err == nil {
		t.Error("non-2xx response should surface an error")
	}
}

func TestAmplitudeSenderDisabled(t *testing.T) {
	sender := NewAmplitudeSender("http://example.invalid", "", "demo_user", time.Second)
	if sender.Enabled() {
		t.Error("sender without key must be disabled")
	}
}
