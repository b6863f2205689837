package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bracelet-energy/internal/service"
)

// AdviceHandler exposes the read-only trend and advice views.
type AdviceHandler struct {
	Analyzer *service.AnalyzerService
}

// NewAdviceHandler constructs an AdviceHandler.
func NewAdviceHandler(analyzer *service.AnalyzerService) *AdviceHandler {
	return &AdviceHandler{Analyzer: analyzer}
}

// Trend handles GET /v1/bracelets/:id/trend?days=N.
func (h *AdviceHandler) Trend(c echo.Context) error {
	braceletID := c.Param("id")
	days := queryInt(c, "days", 0)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	report, err := h.Analyzer.Trend(ctx, braceletID, days)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "analyze trend failed"})
	}
	return c.JSON(http.StatusOK, report)
}

// Advice handles GET /v1/bracelets/:id/advice: ordered advisory
// strings ready for display.
func (h *AdviceHandler) Advice(c echo.Context) error {
	braceletID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	advice, err := h.Analyzer.PersonalizedAdvice(ctx, braceletID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "compose advice failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bracelet_id": braceletID,
		"advice":      advice,
	})
}
