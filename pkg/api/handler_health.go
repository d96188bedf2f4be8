package api

import (
	"context"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	agentpb "github.com/wayfarer-ai/wayfarer/proto"
)

const agentProbeTimeout = 5 * time.Second

// healthHandler handles GET /health: gateway liveness plus the
// downstream agent's HealthCheck RPC.
func (s *Server) healthHandler(c *echo.Context) error {
	reqCtx, cancel := context.WithTimeout(c.Request().Context(), agentProbeTimeout)
	defer cancel()

	resp, err := s.agent.HealthCheck(reqCtx, &agentpb.HealthRequest{})
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"status":  "degraded",
			"gateway": "healthy",
			"agent":   map[string]any{"healthy": false, "error": err.Error()},
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":  "healthy",
		"gateway": "healthy",
		"agent": map[string]any{
			"healthy": resp.GetHealthy(),
			"version": resp.GetVersion(),
			"status":  resp.GetStatus(),
		},
	})
}

// readyHandler handles GET /ready: ready only when the agent answers.
func (s *Server) readyHandler(c *echo.Context) error {
	reqCtx, cancel := context.WithTimeout(c.Request().Context(), agentProbeTimeout)
	defer cancel()

	if _, err := s.agent.HealthCheck(reqCtx, &agentpb.HealthRequest{}); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{"status": "not ready", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "ready"})
}

// liveHandler handles GET /live.
func (s *Server) liveHandler(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"status": "alive"})
}
