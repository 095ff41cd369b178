package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/models"
)

func newRecord(id string) *models.FileRecord {
	return &models.FileRecord{
		ID:        id,
		BlobID:    "blob-" + id,
		Name:      id + ".png",
		SizeBytes: 1024,
		MediaKind: models.MediaImage,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestMemoryRepo_PutAndListAll(t *testing.T) {
	repo := NewMemoryFileRepository()
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, newRecord("a")))
	require.NoError(t, repo.Put(ctx, newRecord("b")))

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestMemoryRepo_PutIsUpsert(t *testing.T) {
	repo := NewMemoryFileRepository()
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, newRecord("a")))

	renamed := newRecord("a")
	renamed.Name = "renamed.png"
	require.NoError(t, repo.Put(ctx, renamed))

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "renamed.png", records[0].Name)
}

func TestMemoryRepo_UpdateTouchesOnlySuppliedFields(t *testing.T) {
	repo := NewMemoryFileRepository()
	ctx := context.Background()

	original := newRecord("a")
	original.Starred = false
	require.NoError(t, repo.Put(ctx, original))

	starred := true
	require.NoError(t, repo.Update(ctx, "a", &models.FilePatch{Starred: &starred}))

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.True(t, got.Starred)
	assert.Equal(t, original.Name, got.Name)
	assert.Equal(t, original.BlobID, got.BlobID)
	assert.Equal(t, original.SizeBytes, got.SizeBytes)
	assert.False(t, got.Trashed)
}

func TestMemoryRepo_UpdateUnknownIDReturnsNotFound(t *testing.T) {
	repo := NewMemoryFileRepository()

	starred := true
	err := repo.Update(context.Background(), "nope", &models.FilePatch{Starred: &starred})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_DeleteIsIdempotent(t *testing.T) {
	repo := NewMemoryFileRepository()
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, newRecord("a")))
	require.NoError(t, repo.Delete(ctx, "a"))
	require.NoError(t, repo.Delete(ctx, "a"))
	require.NoError(t, repo.Delete(ctx, "never-existed"))

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMemoryRepo_Clear(t *testing.T) {
	repo := NewMemoryFileRepository()
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, newRecord("a")))
	require.NoError(t, repo.Put(ctx, newRecord("b")))
	require.NoError(t, repo.Clear(ctx))

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMemoryRepo_ListReturnsClones(t *testing.T) {
	repo := NewMemoryFileRepository()
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, newRecord("a")))

	records, err := repo.ListAll(ctx)
	require.NoError(t, err)
	records[0].Name = "mutated"

	fresh, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a.png", fresh[0].Name)
}
