package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/container"
	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/handlers"
)

// RegisterFileRoutes registers file listing and lifecycle routes
func RegisterFileRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewFileHandler(c)

	files := e.Group("/api/v1/files")
	{
		files.GET("", h.ListFiles)                  // GET /api/v1/files?view=starred
		files.DELETE("", h.ClearFiles)              // DELETE /api/v1/files
		files.GET("/:id", h.GetFile)                // GET /api/v1/files/{file_id}
		files.GET("/:id/content", h.GetContent)     // GET /api/v1/files/{file_id}/content
		files.POST("/:id/star", h.ToggleStar)       // POST /api/v1/files/{file_id}/star
		files.POST("/:id/trash", h.TrashFile)       // POST /api/v1/files/{file_id}/trash
		files.POST("/:id/restore", h.RestoreFile)   // POST /api/v1/files/{file_id}/restore
		files.DELETE("/:id", h.DeleteFile)          // DELETE /api/v1/files/{file_id}
	}
}
