package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bracelet-energy/internal/model"
	"github.com/iliyamo/bracelet-energy/internal/service"
)

// MeritHandler exposes the merit counters and the leveling table. The
// practice endpoint composes merit with an energy ledger entry so a
// completed practice shows up in both views.
type MeritHandler struct {
	Merit  *service.MeritService
	Energy *service.EnergyService
}

// NewMeritHandler constructs a MeritHandler.
func NewMeritHandler(merit *service.MeritService, energy *service.EnergyService) *MeritHandler {
	return &MeritHandler{Merit: merit, Energy: energy}
}

type meritAddReq struct {
	Amount int `json:"amount"`
}

// Record handles GET /v1/bracelets/:id/merit: the counters plus the
// derived level for display.
func (h *MeritHandler) Record(c echo.Context) error {
	braceletID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rec, err := h.Merit.Record(ctx, braceletID)
	if err != nil {
		if err == service.ErrEmptyBraceletID {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bracelet id required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read merit failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"record": rec,
		"level":  service.MeritLevelFor(rec.Count),
	})
}

// Add handles POST /v1/bracelets/:id/merit. A missing amount defaults
// to one, matching a single tap on the merit counter.
func (h *MeritHandler) Add(c echo.Context) error {
	braceletID := c.Param("id")

	var req meritAddReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Amount == 0 {
		req.Amount = 1
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	update, err := h.Merit.Add(ctx, braceletID, req.Amount)
	if err != nil {
		switch err {
		case service.ErrEmptyBraceletID:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bracelet id required"})
		case service.ErrInvalidAmount:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add merit failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"record":     update.MeritRecord,
		"is_new_day": update.IsNewDay,
		"level":      service.MeritLevelFor(update.Count),
	})
}

// Levels handles GET /v1/merit/levels: the full leveling table.
func (h *MeritHandler) Levels(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"levels": service.MeritTiers()})
}

// Practice handles POST /v1/bracelets/:id/practice: one completed
// practice earns one merit and leaves a practice-tagged entry in the
// energy ledger at the current level, so the practice is visible in the
// energy history without inventing an energy gain.
func (h *MeritHandler) Practice(c echo.Context) error {
	braceletID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	update, err := h.Merit.Add(ctx, braceletID, 1)
	if err != nil {
		if err == service.ErrEmptyBraceletID {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bracelet id required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record practice failed"})
	}

	level, err := h.Energy.CurrentLevel(ctx, braceletID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read energy failed"})
	}
	notes := "完成修行，功德+1"
	if _, err := h.Energy.RecordChange(ctx, braceletID, model.ActivityPractice, level,
		service.EnergyChangeOptions{Notes: &notes}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record practice failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"record":     update.MeritRecord,
		"is_new_day": update.IsNewDay,
		"level":      service.MeritLevelFor(update.Count),
	})
}
