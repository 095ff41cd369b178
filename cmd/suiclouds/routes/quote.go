package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/container"
	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/handlers"
)

// RegisterQuoteRoutes registers price preview routes
func RegisterQuoteRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewQuoteHandler(c)

	quotes := e.Group("/api/v1/quotes")
	{
		quotes.POST("/preview", h.PreviewQuote)  // POST /api/v1/quotes/preview
	}
}
