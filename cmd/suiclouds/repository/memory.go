package repository

import (
	"context"
	"sync"

	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/models"
)

// MemoryFileRepository is an in-memory FileRepository used for tests and
// DB-less runs. Same merge-patch update semantics as the postgres backend.
type MemoryFileRepository struct {
	mu   sync.RWMutex
	data map[string]*models.FileRecord
}

// NewMemoryFileRepository creates an empty in-memory file repository
func NewMemoryFileRepository() *MemoryFileRepository {
	return &MemoryFileRepository{
		data: make(map[string]*models.FileRecord),
	}
}

// ListAll retrieves every file record
func (r *MemoryFileRepository) ListAll(ctx context.Context) ([]*models.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*models.FileRecord, 0, len(r.data))
	for _, record := range r.data {
		records = append(records, record.Clone())
	}

	return records, nil
}

// Put upserts a file record keyed by id
func (r *MemoryFileRepository) Put(ctx context.Context, record *models.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[record.ID] = record.Clone()
	return nil
}

// Update overlays the patch on the stored record.
// Read-modify-write, same caveat as the postgres backend.
func (r *MemoryFileRepository) Update(ctx context.Context, id string, patch *models.FilePatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}

	updated, err := applyPatch(record, patch)
	if err != nil {
		return err
	}

	r.data[id] = updated
	return nil
}

// Delete removes the record. Deleting an absent id succeeds.
func (r *MemoryFileRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data, id)
	return nil
}

// Clear removes all records
func (r *MemoryFileRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = make(map[string]*models.FileRecord)
	return nil
}
