package domain

import "time"

// DraftStatus represents the lifecycle state of a product draft.
type DraftStatus string

const (
	DraftStatusDraft     DraftStatus = "draft"
	DraftStatusPublished DraftStatus = "published"
	DraftStatusRejected  DraftStatus = "rejected"
)

// Draft is a product draft created from a demand signal. Its ProductKey is
// the composite identity `marketID::productType::normalizedTitle`; no two
// non-rejected drafts may share a ProductKey and no draft may duplicate an
// already-published ProductKey.
type Draft struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	ProductType string      `json:"productType"`
	Tags        []string    `json:"tags"`
	Price       string      `json:"price"`
	Description string      `json:"description"`
	Confidence  int         `json:"confidence"` // percent, 0-100
	CreatedAt   time.Time   `json:"createdAt"`
	SignalID    string      `json:"signalId"`
	ProductKey  string      `json:"productKey"`
	Status      DraftStatus `json:"status"`
}

// Active reports whether the draft still holds its ProductKey for duplicate
// suppression. Rejected drafts release their key.
func (d Draft) Active() bool {
	return d.Status != DraftStatusRejected
}

// PublishedProduct is the immutable storefront record created when a draft
// is published.
type PublishedProduct struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ProductType string    `json:"productType"`
	Tags        []string  `json:"tags"`
	Price       string    `json:"price"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"publishedAt"`
	ProductKey  string    `json:"productKey"`
}
