package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bracelet-energy/internal/model"
	"github.com/iliyamo/bracelet-energy/internal/repository"
	"github.com/iliyamo/bracelet-energy/internal/service"
)

// SessionHandler exposes the wearing-session state machine over HTTP.
type SessionHandler struct {
	Sessions *service.SessionService
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{Sessions: sessions}
}

type sessionStartReq struct {
	Activity string  `json:"activity"`
	Location *string `json:"location,omitempty"`
}

// Start handles POST /v1/bracelets/:id/sessions. Starting while a
// session is already open answers 409 so the client can end the old
// session explicitly instead of losing it.
func (h *SessionHandler) Start(c echo.Context) error {
	braceletID := c.Param("id")

	var req sessionStartReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Activity == "" {
		req.Activity = string(model.SessionDaily)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Sessions.Start(ctx, braceletID, model.SessionActivity(req.Activity), req.Location)
	if err != nil {
		switch err {
		case service.ErrEmptyBraceletID:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bracelet id required"})
		case service.ErrUnknownActivity:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown activity"})
		case repository.ErrSessionAlreadyOpen:
			return c.JSON(http.StatusConflict, echo.Map{"error": "a session is already open for this bracelet"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "start session failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"session_id": id})
}

// End handles DELETE /v1/bracelets/:id/sessions/current: close the
// open session and return the completed record with its energy gain.
func (h *SessionHandler) End(c echo.Context) error {
	braceletID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	completed, err := h.Sessions.End(ctx, braceletID)
	if err != nil {
		if err == service.ErrEmptyBraceletID {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "bracelet id required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "end session failed"})
	}
	if completed == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no open session"})
	}
	return c.JSON(http.StatusOK, completed)
}

// Current handles GET /v1/bracelets/:id/sessions/current.
func (h *SessionHandler) Current(c echo.Context) error {
	braceletID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	open, err := h.Sessions.Current(ctx, braceletID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read session failed"})
	}
	if open == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no open session"})
	}
	return c.JSON(http.StatusOK, open)
}

// History handles GET /v1/bracelets/:id/sessions?limit=N, newest
// first.
func (h *SessionHandler) History(c echo.Context) error {
	braceletID := c.Param("id")
	limit := queryInt(c, "limit", 0)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.Sessions.History(ctx, braceletID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read sessions failed"})
	}
	if sessions == nil {
		sessions = []model.WearingSession{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bracelet_id": braceletID,
		"sessions":    sessions,
	})
}
