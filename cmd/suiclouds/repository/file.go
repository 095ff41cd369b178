package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/models"
	"github.com/anhkhoavan24-art/SuiClouds/common/db"
)

// PostgresFileRepository handles database operations for file records
type PostgresFileRepository struct {
	db *db.DB
}

// NewPostgresFileRepository creates a new postgres-backed file repository
func NewPostgresFileRepository(database *db.DB) *PostgresFileRepository {
	return &PostgresFileRepository{db: database}
}

// ListAll retrieves every file record
func (r *PostgresFileRepository) ListAll(ctx context.Context) ([]*models.FileRecord, error) {
	query := `
		SELECT id, blob_id, name, size_bytes, media_kind, created_at,
		       preview_url, remote_url, explorer_url, starred, trashed
		FROM files
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var records []*models.FileRecord
	for rows.Next() {
		record, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating files: %w", err)
	}

	return records, nil
}

// Put upserts a file record keyed by id
func (r *PostgresFileRepository) Put(ctx context.Context, record *models.FileRecord) error {
	query := `
		INSERT INTO files (id, blob_id, name, size_bytes, media_kind, created_at,
		                   preview_url, remote_url, explorer_url, starred, trashed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			blob_id = EXCLUDED.blob_id,
			name = EXCLUDED.name,
			size_bytes = EXCLUDED.size_bytes,
			media_kind = EXCLUDED.media_kind,
			created_at = EXCLUDED.created_at,
			preview_url = EXCLUDED.preview_url,
			remote_url = EXCLUDED.remote_url,
			explorer_url = EXCLUDED.explorer_url,
			starred = EXCLUDED.starred,
			trashed = EXCLUDED.trashed
	`

	_, err := r.db.Exec(ctx, query,
		record.ID,
		record.BlobID,
		record.Name,
		record.SizeBytes,
		record.MediaKind,
		record.CreatedAt,
		record.PreviewURL,
		record.RemoteURL,
		record.ExplorerURL,
		record.Starred,
		record.Trashed,
	)

	if err != nil {
		return fmt.Errorf("failed to put file: %w", err)
	}

	return nil
}

// Update fetches the current record, overlays the patch, and writes it back.
// Read-modify-write: concurrent updates to the same id can lose one writer's
// change (last-write-wins on the whole record).
func (r *PostgresFileRepository) Update(ctx context.Context, id string, patch *models.FilePatch) error {
	record, err := r.getByID(ctx, id)
	if err != nil {
		return err
	}

	updated, err := applyPatch(record, patch)
	if err != nil {
		return fmt.Errorf("failed to apply patch: %w", err)
	}

	return r.Put(ctx, updated)
}

// Delete removes the record entirely. Deleting an absent id succeeds.
func (r *PostgresFileRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// Clear removes all records
func (r *PostgresFileRepository) Clear(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM files`)
	if err != nil {
		return fmt.Errorf("failed to clear files: %w", err)
	}

	return nil
}

func (r *PostgresFileRepository) getByID(ctx context.Context, id string) (*models.FileRecord, error) {
	query := `
		SELECT id, blob_id, name, size_bytes, media_kind, created_at,
		       preview_url, remote_url, explorer_url, starred, trashed
		FROM files
		WHERE id = $1
	`

	row := r.db.QueryRow(ctx, query, id)
	record, err := scanFile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	return record, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*models.FileRecord, error) {
	record := &models.FileRecord{}
	err := row.Scan(
		&record.ID,
		&record.BlobID,
		&record.Name,
		&record.SizeBytes,
		&record.MediaKind,
		&record.CreatedAt,
		&record.PreviewURL,
		&record.RemoteURL,
		&record.ExplorerURL,
		&record.Starred,
		&record.Trashed,
	)
	if err != nil {
		return nil, err
	}

	return record, nil
}
