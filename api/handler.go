// Package api provides HTTP handlers for the roast battle service.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xiaot623/roastbattle/battle"
	"github.com/xiaot623/roastbattle/roast"
)

// Handler handles HTTP requests.
type Handler struct {
	svc *battle.Service
}

// NewHandler creates a new handler.
func NewHandler(svc *battle.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/sessions", h.CreateSession)
	e.POST("/v1/sessions/:session_id/rounds", h.PlayRound)
	e.GET("/v1/sessions/:session_id/rounds", h.GetRounds)
	e.GET("/v1/sessions/:session_id/stats", h.GetStats)
	e.POST("/v1/sessions/:session_id/reset", h.ResetSession)

	e.GET("/v1/styles", h.ListStyles)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// ListStyles returns the available roast styles with descriptions.
// GET /v1/styles
func (h *Handler) ListStyles(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"styles": roast.Styles(),
	})
}
