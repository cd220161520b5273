package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xiaot623/roastbattle/battle"
	"github.com/xiaot623/roastbattle/roast"
)

// PlayRound runs one battle round.
// POST /v1/sessions/:session_id/rounds
func (h *Handler) PlayRound(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	var input battle.RoundInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	record, err := h.svc.PlayRound(ctx, sessionID, input)
	if err != nil {
		var rejected *battle.RejectedError
		switch {
		case errors.Is(err, battle.ErrSessionNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		case errors.As(err, &rejected):
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{
				"error":  "roast rejected",
				"reason": rejected.Reason,
			})
		case errors.Is(err, roast.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "user_roast is required"})
		case errors.Is(err, roast.ErrAuthentication):
			// Bad credential is fatal for the whole session; tell the caller
			// immediately instead of faking a result.
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "LLM API authentication failed, check the API key"})
		default:
			log.Printf("ERROR: failed to play round: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to play round"})
		}
	}

	return c.JSON(http.StatusOK, record)
}
