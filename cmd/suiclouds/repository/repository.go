package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/models"
)

// ErrNotFound is returned by Update when the id is absent from the store.
// Match with errors.Is.
var ErrNotFound = errors.New("file record not found")

// FileRepository is durable key-value persistence for file records, keyed by
// FileRecord.ID. All operations are durable before returning success and no
// operation mutates more than one record.
type FileRepository interface {
	// ListAll returns every record currently known, in unspecified order
	ListAll(ctx context.Context) ([]*models.FileRecord, error)

	// Put is an idempotent upsert keyed by id
	Put(ctx context.Context, record *models.FileRecord) error

	// Update applies a partial field overwrite to the stored record.
	// Read-modify-write: not atomic across concurrent callers on the same
	// id; the last writer wins on the overall record. Returns ErrNotFound
	// when the id is absent.
	Update(ctx context.Context, id string, patch *models.FilePatch) error

	// Delete removes the record entirely. Absence is not an error.
	Delete(ctx context.Context, id string) error

	// Clear removes all records. Full resets only.
	Clear(ctx context.Context) error
}

// applyPatch overlays patch onto record via a JSON merge patch, so only the
// fields the caller supplied are overwritten.
func applyPatch(record *models.FileRecord, patch *models.FilePatch) (*models.FileRecord, error) {
	current, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	overlay, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("marshal patch: %w", err)
	}

	merged, err := jsonpatch.MergePatch(current, overlay)
	if err != nil {
		return nil, fmt.Errorf("merge patch: %w", err)
	}

	updated := &models.FileRecord{}
	if err := json.Unmarshal(merged, updated); err != nil {
		return nil, fmt.Errorf("unmarshal merged record: %w", err)
	}

	return updated, nil
}
