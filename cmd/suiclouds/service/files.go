package service

import (
	"context"
	"sort"
	"sync"

	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/models"
	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/repository"
	"github.com/anhkhoavan24-art/SuiClouds/common/logger"
)

// View names for listing
const (
	ViewRecent  = "recent"
	ViewStarred = "starred"
	ViewTrash   = "trash"
)

// FileService owns the file lifecycle: listing views, soft operations
// (star, trash, restore) and permanent deletion. It keeps a cached in-memory
// view beside the durable store; the store is the source of truth and the
// cache is only trusted when the store cannot be read.
type FileService struct {
	repo repository.FileRepository
	blob BlobStore
	log  *logger.Logger

	mu   sync.RWMutex
	view []*models.FileRecord
}

// NewFileService creates a new file service
func NewFileService(repo repository.FileRepository, blob BlobStore, log *logger.Logger) *FileService {
	return &FileService{
		repo: repo,
		blob: blob,
		log:  log,
	}
}

// List returns the records for the named view, newest first
func (s *FileService) List(ctx context.Context, view string) []*models.FileRecord {
	records := s.load(ctx)

	filtered := make([]*models.FileRecord, 0, len(records))
	for _, r := range records {
		switch view {
		case ViewStarred:
			if r.Starred && !r.Trashed {
				filtered = append(filtered, r)
			}
		case ViewTrash:
			if r.Trashed {
				filtered = append(filtered, r)
			}
		default: // recent / my drive
			if !r.Trashed {
				filtered = append(filtered, r)
			}
		}
	}

	return filtered
}

// Get returns a single record by id
func (s *FileService) Get(ctx context.Context, id string) (*models.FileRecord, error) {
	if record := s.cached(id); record != nil {
		return record, nil
	}
	s.load(ctx)
	if record := s.cached(id); record != nil {
		return record, nil
	}
	return nil, repository.ErrNotFound
}

// ToggleStar flips the starred flag: optimistic cache update first, then
// persistence. A persistence failure keeps the optimistic state and is
// reported, not masked.
func (s *FileService) ToggleStar(ctx context.Context, id string) error {
	record := s.cached(id)
	if record == nil {
		s.load(ctx)
		if record = s.cached(id); record == nil {
			return repository.ErrNotFound
		}
	}

	starred := !record.Starred
	s.mutateCached(id, func(r *models.FileRecord) { r.Starred = starred })

	if err := s.repo.Update(ctx, id, &models.FilePatch{Starred: &starred}); err != nil {
		s.log.Warn("failed to persist star state", "file_id", id, "error", err)
		return err
	}
	return nil
}

// Trash soft-deletes the record; it stays in the store, hidden from the
// active view.
func (s *FileService) Trash(ctx context.Context, id string) error {
	return s.setTrashed(ctx, id, true)
}

// Restore clears the soft-delete flag
func (s *FileService) Restore(ctx context.Context, id string) error {
	return s.setTrashed(ctx, id, false)
}

func (s *FileService) setTrashed(ctx context.Context, id string, trashed bool) error {
	if s.cached(id) == nil {
		s.load(ctx)
		if s.cached(id) == nil {
			return repository.ErrNotFound
		}
	}

	s.mutateCached(id, func(r *models.FileRecord) { r.Trashed = trashed })

	if err := s.repo.Update(ctx, id, &models.FilePatch{Trashed: &trashed}); err != nil {
		s.log.Warn("failed to persist trash state", "file_id", id, "trashed", trashed, "error", err)
		return err
	}
	return nil
}

// PermanentDelete removes the record for good: best-effort remote delete,
// durable removal, then a reconciling reload of the cached view.
func (s *FileService) PermanentDelete(ctx context.Context, id string) error {
	// 1. Best-effort remote delete; local removal proceeds regardless.
	// The blob id may only exist in the durable store on a cold cache.
	record := s.cached(id)
	if record == nil {
		s.load(ctx)
		record = s.cached(id)
	}
	if record != nil && record.BlobID != "" {
		if err := s.blob.Delete(ctx, record.BlobID); err != nil {
			s.log.Warn("remote delete failed", "file_id", id, "blob_id", record.BlobID, "error", err)
		}
	}

	// 2. Durable removal (idempotent)
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Warn("failed to remove record from store", "file_id", id, "error", err)
	}

	// 3. Reconcile: re-read the durable set rather than trusting the
	// optimistic in-memory filter
	s.reconcile(ctx, id)

	return nil
}

// Clear wipes the store and the cached view. Full resets only.
func (s *FileService) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.view = nil
	s.mu.Unlock()
	return nil
}

// load reads the full set from the store into the cached view, newest
// first. On a read failure the previous cached view is returned instead.
// Returned records are clones; soft operations mutate the live view in
// place and must never reach a caller's snapshot.
func (s *FileService) load(ctx context.Context) []*models.FileRecord {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		s.log.Warn("failed to load files from store, serving cached view", "error", err)
		s.mu.RLock()
		defer s.mu.RUnlock()
		return cloneRecords(s.view)
	}

	sortNewestFirst(records)

	s.mu.Lock()
	s.view = records
	s.mu.Unlock()

	return cloneRecords(records)
}

// reconcile refreshes the cached view from the store after a destructive
// operation; if the reload fails it falls back to filtering the previous
// view by id.
func (s *FileService) reconcile(ctx context.Context, deletedID string) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		s.log.Warn("failed to reload files after delete, filtering cached view", "error", err)
		s.mu.Lock()
		kept := s.view[:0]
		for _, r := range s.view {
			if r.ID != deletedID {
				kept = append(kept, r)
			}
		}
		s.view = kept
		s.mu.Unlock()
		return
	}

	sortNewestFirst(records)

	s.mu.Lock()
	s.view = records
	s.mu.Unlock()
}

func (s *FileService) cached(id string) *models.FileRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.view {
		if r.ID == id {
			return r.Clone()
		}
	}
	return nil
}

func (s *FileService) mutateCached(id string, fn func(*models.FileRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.view {
		if r.ID == id {
			fn(r)
			return
		}
	}
}

func cloneRecords(records []*models.FileRecord) []*models.FileRecord {
	out := make([]*models.FileRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

func sortNewestFirst(records []*models.FileRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}
