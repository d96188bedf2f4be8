package api

import (
	"errors"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/wayfarer-ai/wayfarer/pkg/session"
)

// sessionNotFound is the 404 body for session routes. The shape matches
// what the web client already expects: {"detail": "..."}.
func sessionNotFound(c *echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]any{"detail": session.ErrSessionNotFound.Error()})
}

// modelNotFound is the 404 body for model routes.
func modelNotFound(c *echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]any{"success": false, "error": "Model not found"})
}

// unprocessable is the 422 body for chat input validation.
func unprocessable(c *echo.Context, detail string) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]any{"detail": detail})
}

// mapStoreError converts store errors on session CRUD routes.
func mapStoreError(c *echo.Context, err error) error {
	if errors.Is(err, session.ErrSessionNotFound) {
		return sessionNotFound(c)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
