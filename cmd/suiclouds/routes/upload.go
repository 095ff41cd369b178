package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/container"
	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/handlers"
)

// RegisterUploadRoutes registers upload batch routes
func RegisterUploadRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewUploadHandler(c)

	uploads := e.Group("/api/v1/uploads")
	{
		uploads.POST("", h.StartUpload)          // POST /api/v1/uploads
		uploads.GET("/:id", h.GetBatch)          // GET /api/v1/uploads/{batch_id}
		uploads.POST("/:id/confirm", h.Confirm)  // POST /api/v1/uploads/{batch_id}/confirm
	}
}
