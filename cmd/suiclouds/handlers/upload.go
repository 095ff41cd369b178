package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/container"
	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/middleware"
	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/repository"
	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/service"
	"github.com/anhkhoavan24-art/SuiClouds/common/bootstrap"
)

// maxUploadBytes caps one multipart request body
const maxUploadBytes = 256 << 20

// UploadHandler handles upload batch requests
type UploadHandler struct {
	components    *bootstrap.Components
	uploadService *service.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(c *container.Container) *UploadHandler {
	return &UploadHandler{
		components:    c.Components,
		uploadService: c.UploadService,
	}
}

// StartUpload accepts a multipart batch of files and begins processing it
// POST /api/v1/uploads
func (h *UploadHandler) StartUpload(c echo.Context) error {
	ctx := c.Request().Context()
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "multipart form with a 'files' field is required",
		})
	}

	parts := form.File["files"]
	if len(parts) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "at least one file is required",
		})
	}

	files := make([]service.BatchFile, 0, len(parts))
	for _, part := range parts {
		src, err := part.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error": "failed to read uploaded file",
				"file":  part.Filename,
			})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error": "failed to read uploaded file",
				"file":  part.Filename,
			})
		}

		files = append(files, service.BatchFile{
			Name:        part.Filename,
			ContentType: part.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	batchID, err := h.uploadService.StartBatch(ctx, files)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
	}

	h.components.Logger.Info("upload batch accepted",
		"batch_id", batchID,
		"files", len(files),
		"username", middleware.GetUsername(c),
		"signer", middleware.GetSignerAddress(c) != "")

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"batch_id": batchID,
		"files":    len(files),
	})
}

// GetBatch returns a progress snapshot, including any quote awaiting
// confirmation
// GET /api/v1/uploads/:id
func (h *UploadHandler) GetBatch(c echo.Context) error {
	id := c.Param("id")

	batch, ok := h.uploadService.Batch(id)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"error": "batch not found",
		})
	}

	return c.JSON(http.StatusOK, batch)
}

// Confirm answers the batch's pending confirmation request
// POST /api/v1/uploads/:id/confirm
func (h *UploadHandler) Confirm(c echo.Context) error {
	id := c.Param("id")

	var decision service.Decision
	if err := c.Bind(&decision); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	err := h.uploadService.Confirm(id, decision)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"error": "batch not found",
		})
	case errors.Is(err, service.ErrNoPendingConfirmation):
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"error": "no confirmation is pending for this batch",
		})
	case err != nil:
		h.components.Logger.Error("failed to deliver confirmation", "batch_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to deliver confirmation",
		})
	}

	h.components.Logger.Info("confirmation delivered", "batch_id", id, "proceed", decision.Proceed, "tier", decision.ChosenTierKey)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"batch_id": id,
		"proceed":  decision.Proceed,
	})
}
