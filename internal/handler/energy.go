package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bracelet-energy/internal/model"
	"github.com/iliyamo/bracelet-energy/internal/service"
)

// EnergyHandler exposes the energy ledger over HTTP.
type EnergyHandler struct {
	Energy *service.EnergyService
}

// NewEnergyHandler constructs an EnergyHandler.
func NewEnergyHandler(energy *service.EnergyService) *EnergyHandler {
	return &EnergyHandler{Energy: energy}
}

type energyChangeReq struct {
	Activity string  `json:"activity"`
	Level    float64 `json:"level"`
	Duration *int    `json:"duration,omitempty"`
	Location *string `json:"location,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// Current handles GET /v1/bracelets/:id/energy. Reading the level
// first settles any decay accrued since the last observation, so the
// response is always up to date without a background scheduler.
func (h *EnergyHandler) Current(c echo.Context) error {
	braceletID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	level, err := h.Energy.SimulateDecay(ctx, braceletID)
	if err != nil {
		if err == service.ErrEmptyBraceletID {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bracelet id required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read energy failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bracelet_id":  braceletID,
		"energy_level": level,
	})
}

// History handles GET /v1/bracelets/:id/energy/history?days=N and
// returns ledger entries within the window, newest first.
func (h *EnergyHandler) History(c echo.Context) error {
	braceletID := c.Param("id")
	days := queryInt(c, "days", 0)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	records, err := h.Energy.History(ctx, braceletID, days)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read history failed"})
	}
	if records == nil {
		records = []model.EnergyRecord{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bracelet_id": braceletID,
		"records":     records,
	})
}

// Record handles POST /v1/bracelets/:id/energy. Consecration-tagged
// changes are reserved for the consecration endpoint, which owns the
// full-recharge semantics.
func (h *EnergyHandler) Record(c echo.Context) error {
	braceletID := c.Param("id")

	var req energyChangeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Activity == string(model.ActivityConsecration) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "use the consecration endpoint to record ceremonies"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rec, err := h.Energy.RecordChange(ctx, braceletID, model.Activity(req.Activity), req.Level,
		service.EnergyChangeOptions{Duration: req.Duration, Location: req.Location, Notes: req.Notes})
	if err != nil {
		switch err {
		case service.ErrEmptyBraceletID:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bracelet id required"})
		case service.ErrUnknownActivity:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown activity"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record energy failed"})
	}
	return c.JSON(http.StatusCreated, rec)
}
