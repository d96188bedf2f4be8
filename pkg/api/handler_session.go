package api

import (
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"
)

// UpdateNameRequest is the body for PUT /api/session/:id/name.
type UpdateNameRequest struct {
	Name string `json:"name"`
}

// SetModelRequest is the body for PUT /api/session/:id/model.
type SetModelRequest struct {
	ModelID string `json:"model_id"`
}

// newSessionHandler handles POST /api/session/new. The optional name
// comes as a query parameter.
func (s *Server) newSessionHandler(c *echo.Context) error {
	sess := s.store.Create(c.QueryParam("name"))
	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"session_id": sess.ID,
		"name":       sess.Name,
	})
}

// listSessionsHandler handles GET /api/sessions. Empty sessions are
// hidden unless include_empty=true.
func (s *Server) listSessionsHandler(c *echo.Context) error {
	includeEmpty := c.QueryParam("include_empty") == "true"

	sessions := s.store.List(includeEmpty)
	out := make([]map[string]any, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, map[string]any{
			"session_id":    sess.ID,
			"name":          sess.Name,
			"model_id":      sess.ModelID,
			"message_count": sess.MessageCount,
			"last_active":   sess.LastActive.Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"sessions": out,
		"total":    len(out),
	})
}

// deleteSessionHandler handles DELETE /api/session/:id.
func (s *Server) deleteSessionHandler(c *echo.Context) error {
	if err := s.store.Delete(c.Param("id")); err != nil {
		return mapStoreError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// renameSessionHandler handles PUT /api/session/:id/name.
func (s *Server) renameSessionHandler(c *echo.Context) error {
	var req UpdateNameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	if err := s.store.Rename(c.Param("id"), req.Name); err != nil {
		return mapStoreError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "name": req.Name})
}

// setSessionModelHandler handles PUT /api/session/:id/model. The new
// model takes effect on the next chat turn, which rebuilds the
// downstream orchestrator.
func (s *Server) setSessionModelHandler(c *echo.Context) error {
	var req SetModelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ModelID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "model_id is required")
	}
	if !s.cfg.HasModel(req.ModelID) {
		return modelNotFound(c)
	}

	if err := s.store.SetModel(c.Param("id"), req.ModelID); err != nil {
		return mapStoreError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "model_id": req.ModelID})
}

// getSessionModelHandler handles GET /api/session/:id/model.
func (s *Server) getSessionModelHandler(c *echo.Context) error {
	modelID, err := s.store.Model(c.Param("id"))
	if err != nil {
		return mapStoreError(c, err)
	}
	if modelID == "" {
		modelID = s.cfg.DefaultModel
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "model_id": modelID})
}

// clearSessionHandler handles POST /api/clear/:id.
func (s *Server) clearSessionHandler(c *echo.Context) error {
	if err := s.store.Clear(c.Param("id")); err != nil {
		return mapStoreError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
