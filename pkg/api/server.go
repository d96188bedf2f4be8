package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/wayfarer-ai/wayfarer/pkg/config"
	"github.com/wayfarer-ai/wayfarer/pkg/session"
	agentpb "github.com/wayfarer-ai/wayfarer/proto"
)

// Server is the HTTP gateway: it owns the session store, the downstream
// agent client, and the echo router.
type Server struct {
	echo  *echo.Echo
	cfg   *config.Config
	store *session.Store
	agent agentpb.AgentServiceClient
	log   *slog.Logger

	httpServer *http.Server
}

// NewServer wires the routes over the given collaborators.
func NewServer(cfg *config.Config, store *session.Store, agent agentpb.AgentServiceClient) *Server {
	e := echo.New()

	s := &Server{
		echo:  e,
		cfg:   cfg,
		store: store,
		agent: agent,
		log:   slog.With("component", "gateway"),
	}

	e.Use(requestLogger())
	e.Use(securityHeaders())

	e.POST("/api/chat/stream", s.chatStreamHandler)

	e.POST("/api/session/new", s.newSessionHandler)
	e.GET("/api/sessions", s.listSessionsHandler)
	e.DELETE("/api/session/:id", s.deleteSessionHandler)
	e.PUT("/api/session/:id/name", s.renameSessionHandler)
	e.PUT("/api/session/:id/model", s.setSessionModelHandler)
	e.GET("/api/session/:id/model", s.getSessionModelHandler)
	e.POST("/api/clear/:id", s.clearSessionHandler)

	e.GET("/api/models", s.listModelsHandler)
	e.GET("/api/models/:id", s.getModelHandler)

	e.GET("/health", s.healthHandler)
	e.GET("/ready", s.readyHandler)
	e.GET("/live", s.liveHandler)

	return s
}

// ServeHTTP makes the server mountable and testable as a plain handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start blocks serving HTTP on addr until Shutdown or a listener error.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("Gateway listening", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
