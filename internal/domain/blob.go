package domain

import (
	"context"
	"time"
)

// BlobWriter uploads one object to blob storage. Implementations choose the
// transfer strategy from the payload size.
type BlobWriter interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Archiver exports old workspace records to blob storage. Archived records
// are not deleted from the primary store; pruning is a separate explicit
// step.
type Archiver interface {
	// ArchiveEvents uploads all events older than the cutoff and returns the
	// number of records archived.
	ArchiveEvents(ctx context.Context, before time.Time) (int64, error)
}
