package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/container"
	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/repository"
	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/service"
	"github.com/anhkhoavan24-art/SuiClouds/common/bootstrap"
	"github.com/anhkhoavan24-art/SuiClouds/common/walrus"
)

// FileHandler handles file listing and lifecycle requests
type FileHandler struct {
	components  *bootstrap.Components
	fileService *service.FileService
	walrus      *walrus.Client
}

// NewFileHandler creates a new file handler
func NewFileHandler(c *container.Container) *FileHandler {
	return &FileHandler{
		components:  c.Components,
		fileService: c.FileService,
		walrus:      c.Walrus,
	}
}

// ListFiles lists files for a view
// GET /api/v1/files?view=recent|starred|trash
func (h *FileHandler) ListFiles(c echo.Context) error {
	ctx := c.Request().Context()

	view := c.QueryParam("view")
	switch view {
	case "", service.ViewRecent, service.ViewStarred, service.ViewTrash:
	default:
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "unknown view",
			"view":  view,
		})
	}

	files := h.fileService.List(ctx, view)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"files": files,
		"view":  viewOrDefault(view),
		"count": len(files),
	})
}

// GetFile returns a single file record
// GET /api/v1/files/:id
func (h *FileHandler) GetFile(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	record, err := h.fileService.Get(ctx, id)
	if err != nil {
		return fileNotFound(c, id)
	}

	return c.JSON(http.StatusOK, record)
}

// ToggleStar flips the starred flag on a file
// POST /api/v1/files/:id/star
func (h *FileHandler) ToggleStar(c echo.Context) error {
	return h.mutate(c, h.fileService.ToggleStar, "star")
}

// TrashFile soft-deletes a file
// POST /api/v1/files/:id/trash
func (h *FileHandler) TrashFile(c echo.Context) error {
	return h.mutate(c, h.fileService.Trash, "trash")
}

// RestoreFile brings a file back from the trash
// POST /api/v1/files/:id/restore
func (h *FileHandler) RestoreFile(c echo.Context) error {
	return h.mutate(c, h.fileService.Restore, "restore")
}

// DeleteFile permanently removes a file
// DELETE /api/v1/files/:id
func (h *FileHandler) DeleteFile(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if err := h.fileService.PermanentDelete(ctx, id); err != nil {
		h.components.Logger.Error("permanent delete failed", "file_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to delete file",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"file_id": id,
		"deleted": true,
	})
}

// GetContent streams the file's bytes from the aggregator
// GET /api/v1/files/:id/content
func (h *FileHandler) GetContent(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	record, err := h.fileService.Get(ctx, id)
	if err != nil {
		return fileNotFound(c, id)
	}

	if walrus.IsSynthetic(record.BlobID) {
		return c.JSON(http.StatusGone, map[string]interface{}{
			"error": "content was never stored remotely",
		})
	}

	body, contentType, err := h.walrus.Fetch(ctx, record.BlobID)
	if err != nil {
		h.components.Logger.Warn("content fetch failed", "file_id", id, "blob_id", record.BlobID, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]interface{}{
			"error": "failed to fetch content from aggregator",
		})
	}
	defer body.Close()

	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}

	return c.Stream(http.StatusOK, contentType, body)
}

// ClearFiles wipes the metadata store
// DELETE /api/v1/files
func (h *FileHandler) ClearFiles(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.fileService.Clear(ctx); err != nil {
		h.components.Logger.Error("failed to clear files", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to clear files",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"cleared": true,
	})
}

// mutate runs one soft operation and maps its errors. Soft operations apply
// optimistically; a persistence failure is reported but the in-memory state
// has already advanced.
func (h *FileHandler) mutate(c echo.Context, op func(ctx context.Context, id string) error, name string) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	err := op(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fileNotFound(c, id)
	case err != nil:
		h.components.Logger.Error("file operation failed", "op", name, "file_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "operation applied locally but failed to persist",
			"op":      name,
			"file_id": id,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"file_id": id,
		"op":      name,
	})
}

func fileNotFound(c echo.Context, id string) error {
	return c.JSON(http.StatusNotFound, map[string]interface{}{
		"error":   "file not found",
		"file_id": id,
	})
}

func viewOrDefault(view string) string {
	if view == "" {
		return service.ViewRecent
	}
	return view
}
