package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/xiaot623/roastbattle/battle"
)

// CreateSession starts a new battle session.
// POST /v1/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	session, err := h.svc.CreateSession(ctx)
	if err != nil {
		log.Printf("ERROR: failed to create session: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
	}

	return c.JSON(http.StatusOK, session)
}

// GetRounds returns the session's battle history.
// GET /v1/sessions/:session_id/rounds?limit=N
func (h *Handler) GetRounds(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 0 {
		limit = 0
	}

	rounds, err := h.svc.History(ctx, sessionID, limit)
	if err != nil {
		if errors.Is(err, battle.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		log.Printf("ERROR: failed to get rounds: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get rounds"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"rounds": rounds,
	})
}

// GetStats returns win/loss counters and the win rate for a session.
// GET /v1/sessions/:session_id/stats
func (h *Handler) GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	stats, err := h.svc.Stats(ctx, sessionID)
	if err != nil {
		if errors.Is(err, battle.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		log.Printf("ERROR: failed to get stats: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get stats"})
	}

	return c.JSON(http.StatusOK, stats)
}

// ResetSession clears the session's history.
// POST /v1/sessions/:session_id/reset
func (h *Handler) ResetSession(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	if err := h.svc.Reset(ctx, sessionID); err != nil {
		if errors.Is(err, battle.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		log.Printf("ERROR: failed to reset session: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to reset session"})
	}

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
