package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// EventArchiveStore provides the read access the archiver needs. The event
// stores satisfy it implicitly through their ListBefore methods.
type EventArchiveStore interface {
	// ListBefore returns all events with a timestamp strictly before the
	// given cutoff time, oldest first.
	ListBefore(ctx context.Context, before time.Time) ([]domain.Event, error)
}

// EventArchiver implements domain.Archiver by querying the event store for
// old records, serializing them to JSONL, and uploading the result to S3 at
// archive/events/YYYY-MM.jsonl.
//
// Deletion of the archived events from the primary store is intentionally
// NOT performed here; trimming stays with the ring-capped stores.
type EventArchiver struct {
	writer domain.BlobWriter
	events EventArchiveStore
}

// NewEventArchiver creates a new EventArchiver.
func NewEventArchiver(writer domain.BlobWriter, events EventArchiveStore) *EventArchiver {
	return &EventArchiver{
		writer: writer,
		events: events,
	}
}

// ArchiveEvents queries all events before the cutoff, serializes them to
// JSONL, and uploads the file. The count of archived records is returned;
// an empty result uploads nothing and returns zero.
func (a *EventArchiver) ArchiveEvents(ctx context.Context, before time.Time) (int64, error) {
	events, err := a.events.ListBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive events query: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	buf, err := marshalJSONL(events)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive events marshal: %w", err)
	}

	path := archivePath("events", before)
	if err := a.writer.Put(ctx, path, buf, "application/x-ndjson"); err != nil {
		return 0, fmt.Errorf("s3blob: archive events upload: %w", err)
	}

	return int64(len(events)), nil
}

// archivePath builds the S3 key for an archive file, partitioned by the
// year-month of the cutoff time.
//
//	archive/events/2026-08.jsonl
func archivePath(kind string, before time.Time) string {
	return fmt.Sprintf("archive/%s/%s.jsonl", kind, before.Format("2006-01"))
}

// marshalJSONL serialises a slice of values as newline-delimited JSON.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}
