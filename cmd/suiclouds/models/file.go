package models

import (
	"strings"
	"time"
)

// MediaKind buckets a file by its content type for the dashboard views
type MediaKind string

const (
	MediaImage    MediaKind = "image"
	MediaVideo    MediaKind = "video"
	MediaDocument MediaKind = "document"
	MediaOther    MediaKind = "other"
)

// InferMediaKind derives the media kind from an HTTP content type
func InferMediaKind(contentType string) MediaKind {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return MediaImage
	case strings.HasPrefix(contentType, "video/"):
		return MediaVideo
	case strings.Contains(contentType, "pdf"):
		return MediaDocument
	default:
		return MediaOther
	}
}

// FileRecord is the durable entity representing one uploaded item.
// Maps to: files table
type FileRecord struct {
	// Caller-assigned unique identifier, stable for the record's lifetime
	ID string `db:"id" json:"id"`

	// Identifier returned by the remote blob store. Assigned exactly once;
	// may carry the synthetic prefix when every remote tier failed.
	BlobID string `db:"blob_id" json:"blobId"`

	Name      string    `db:"name" json:"name"`
	SizeBytes int64     `db:"size_bytes" json:"sizeBytes"`
	MediaKind MediaKind `db:"media_kind" json:"mediaKind"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// Ephemeral local preview; never derived from the blob store
	PreviewURL *string `db:"preview_url" json:"previewUrl,omitempty"`

	// Derived from BlobID at upload time
	RemoteURL   *string `db:"remote_url" json:"remoteUrl,omitempty"`
	ExplorerURL *string `db:"explorer_url" json:"explorerUrl,omitempty"`

	Starred bool `db:"starred" json:"starred"`

	// Soft-delete flag; a trashed record stays in the store and is excluded
	// from the active view until restored or permanently deleted
	Trashed bool `db:"trashed" json:"trashed"`
}

// Clone returns a copy safe to hand across the cache-view boundary
func (f *FileRecord) Clone() *FileRecord {
	clone := *f
	if f.PreviewURL != nil {
		v := *f.PreviewURL
		clone.PreviewURL = &v
	}
	if f.RemoteURL != nil {
		v := *f.RemoteURL
		clone.RemoteURL = &v
	}
	if f.ExplorerURL != nil {
		v := *f.ExplorerURL
		clone.ExplorerURL = &v
	}
	return &clone
}

// FilePatch is a partial field overwrite applied by the store's update.
// Nil fields are left untouched.
type FilePatch struct {
	Name        *string    `json:"name,omitempty"`
	PreviewURL  *string    `json:"previewUrl,omitempty"`
	RemoteURL   *string    `json:"remoteUrl,omitempty"`
	ExplorerURL *string    `json:"explorerUrl,omitempty"`
	Starred     *bool      `json:"starred,omitempty"`
	Trashed     *bool      `json:"trashed,omitempty"`
	MediaKind   *MediaKind `json:"mediaKind,omitempty"`
}
