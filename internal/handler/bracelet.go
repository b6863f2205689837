package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bracelet-energy/internal/client"
)

// BraceletHandler proxies metadata lookups against the external
// bracelet-info API.
type BraceletHandler struct {
	Client *client.BraceletClient
}

// NewBraceletHandler constructs a BraceletHandler.
func NewBraceletHandler(c *client.BraceletClient) *BraceletHandler {
	return &BraceletHandler{Client: c}
}

// Info handles GET /v1/bracelets/:id/info.
func (h *BraceletHandler) Info(c echo.Context) error {
	braceletID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	info, err := h.Client.Info(ctx, braceletID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "bracelet not found"})
	}
	return c.JSON(http.StatusOK, info)
}

// Status handles GET /v1/bracelets/:id/status: the connectivity probe.
func (h *BraceletHandler) Status(c echo.Context) error {
	braceletID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	return c.JSON(http.StatusOK, echo.Map{
		"bracelet_id": braceletID,
		"status":      h.Client.Status(ctx, braceletID),
	})
}
