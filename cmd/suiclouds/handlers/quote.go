package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/container"
	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/service"
	"github.com/anhkhoavan24-art/SuiClouds/common/bootstrap"
)

// QuoteHandler serves standalone price previews, outside any upload batch
type QuoteHandler struct {
	components     *bootstrap.Components
	pricingService *service.PricingService
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(c *container.Container) *QuoteHandler {
	return &QuoteHandler{
		components:     c.Components,
		pricingService: c.PricingService,
	}
}

// PreviewQuote estimates the cost of storing a blob of the given size
// POST /api/v1/quotes/preview
func (h *QuoteHandler) PreviewQuote(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		SizeBytes int64 `json:"sizeBytes"`
		Epochs    int   `json:"epochs"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}

	if req.SizeBytes < 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "sizeBytes must be non-negative",
		})
	}

	if req.Epochs < 1 {
		req.Epochs = h.components.Config.Walrus.DefaultEpochs
	}

	quote, err := h.pricingService.Estimate(ctx, req.SizeBytes, req.Epochs)
	if err != nil {
		h.components.Logger.Error("quote estimation failed", "size_bytes", req.SizeBytes, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to estimate price",
		})
	}

	return c.JSON(http.StatusOK, quote)
}
