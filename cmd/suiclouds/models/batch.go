package models

import "time"

// ItemStatus tracks one file through the batch pipeline
type ItemStatus string

const (
	ItemReady      ItemStatus = "ready"
	ItemEstimating ItemStatus = "estimating"
	ItemConfirming ItemStatus = "confirming"
	ItemUploading  ItemStatus = "uploading"
	ItemUploaded   ItemStatus = "uploaded"

	// Cancelled is a normal terminal outcome, not an error
	ItemCancelled ItemStatus = "cancelled"
	ItemError     ItemStatus = "error"
)

// Terminal reports whether the status is final for the item
func (s ItemStatus) Terminal() bool {
	return s == ItemUploaded || s == ItemCancelled || s == ItemError
}

// UploadItem is the per-file state inside a batch
type UploadItem struct {
	Name        string     `json:"name"`
	SizeBytes   int64      `json:"sizeBytes"`
	ContentType string     `json:"contentType"`
	Status      ItemStatus `json:"status"`

	// Set once the item produced a durable record
	FileID string `json:"fileId,omitempty"`
	BlobID string `json:"blobId,omitempty"`

	Error string `json:"error,omitempty"`
}

// UploadBatch is a snapshot of one batch's progress. Items keep submission
// order; Progress is round(completed/total*100) and only ever grows.
type UploadBatch struct {
	ID        string       `json:"id"`
	Items     []UploadItem `json:"items"`
	Progress  int          `json:"progress"`
	Done      bool         `json:"done"`
	CreatedAt time.Time    `json:"createdAt"`

	// Quote awaiting a human decision, when the batch is suspended
	PendingQuote *PriceQuote `json:"pendingQuote,omitempty"`
}
