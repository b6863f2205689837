package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bracelet-energy/internal/model"
	"github.com/iliyamo/bracelet-energy/internal/service"
)

// ConsecrationHandler exposes the ceremony registry over HTTP.
type ConsecrationHandler struct {
	Consecrations *service.ConsecrationService
}

// NewConsecrationHandler constructs a ConsecrationHandler.
func NewConsecrationHandler(consecrations *service.ConsecrationService) *ConsecrationHandler {
	return &ConsecrationHandler{Consecrations: consecrations}
}

type consecrationReq struct {
	Date        time.Time `json:"date"`
	Temple      string    `json:"temple"`
	Master      string    `json:"master"`
	Ceremony    string    `json:"ceremony"`
	Witnesses   []string  `json:"witnesses,omitempty"`
	VideoURL    string    `json:"video_url,omitempty"`
	ImageURLs   []string  `json:"image_urls,omitempty"`
	Blessing    string    `json:"blessing,omitempty"`
	EnergyBoost float64   `json:"energy_boost"`
}

// Create handles POST /v1/bracelets/:id/consecrations: append the
// ceremony and recharge the bracelet to full energy.
func (h *ConsecrationHandler) Create(c echo.Context) error {
	braceletID := c.Param("id")

	var req consecrationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	rec, err := h.Consecrations.Record(ctx, service.ConsecrationInput{
		BraceletID:  braceletID,
		Date:        req.Date,
		Temple:      req.Temple,
		Master:      req.Master,
		Ceremony:    req.Ceremony,
		Witnesses:   req.Witnesses,
		VideoURL:    req.VideoURL,
		ImageURLs:   req.ImageURLs,
		Blessing:    req.Blessing,
		EnergyBoost: req.EnergyBoost,
	})
	if err != nil {
		if err == service.ErrEmptyBraceletID {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bracelet id required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record consecration failed"})
	}
	return c.JSON(http.StatusCreated, rec)
}

// List handles GET /v1/bracelets/:id/consecrations, newest first.
func (h *ConsecrationHandler) List(c echo.Context) error {
	braceletID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	records, err := h.Consecrations.Records(ctx, braceletID)
	if err != nil {
		if err == service.ErrEmptyBraceletID {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bracelet id required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read consecrations failed"})
	}
	if records == nil {
		records = []model.ConsecrationRecord{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bracelet_id": braceletID,
		"records":     records,
	})
}

// Validate handles GET /v1/bracelets/:id/consecrations/validate.
func (h *ConsecrationHandler) Validate(c echo.Context) error {
	braceletID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status, err := h.Consecrations.Validate(ctx, braceletID)
	if err != nil {
		if err == service.ErrEmptyBraceletID {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bracelet id required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "validate consecration failed"})
	}
	return c.JSON(http.StatusOK, status)
}
