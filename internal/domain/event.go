package domain

import "time"

// EventType classifies workspace event-log entries.
type EventType string

const (
	EventDraftGenerated EventType = "draft_generated"
	EventPublished      EventType = "published"
	EventRejected       EventType = "rejected"
	// EventTrack is an analytics event mirrored into the local log.
	EventTrack EventType = "track"
)

// Event is an append-only workspace log entry. The event log is bounded by
// a ring cap at the store layer; the oldest entries are dropped first.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
