package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"
)

// listModelsHandler handles GET /api/models. Profiles with placeholder
// or unresolved API keys are hidden so the picker only offers models
// that can actually serve.
func (s *Server) listModelsHandler(c *echo.Context) error {
	models := s.cfg.ModelRegistry.ActiveModels()
	out := make([]map[string]any, 0, len(models))
	for _, m := range models {
		out = append(out, map[string]any{
			"model_id": m.ID,
			"name":     m.DisplayName(),
			"provider": m.Provider,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"models":  out,
		"default": s.cfg.DefaultModel,
	})
}

// getModelHandler handles GET /api/models/:id. Hidden profiles 404 like
// unknown ones.
func (s *Server) getModelHandler(c *echo.Context) error {
	m, err := s.cfg.GetModel(c.Param("id"))
	if err != nil || !m.Active() {
		return modelNotFound(c)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"model_id": m.ID,
		"name":     m.DisplayName(),
		"provider": m.Provider,
		"model":    m.ModelName(),
	})
}
