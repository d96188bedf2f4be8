// Wayfarer gateway - serves the browser-facing HTTP API and bridges
// chat turns to the agent over gRPC.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wayfarer-ai/wayfarer/pkg/agentrpc"
	"github.com/wayfarer-ai/wayfarer/pkg/api"
	"github.com/wayfarer-ai/wayfarer/pkg/config"
	"github.com/wayfarer-ai/wayfarer/pkg/session"
	"github.com/wayfarer-ai/wayfarer/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configPath := flag.String("config",
		getEnv("WAYFARER_CONFIG", "config.yaml"),
		"Path to configuration file (.yaml or .json)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment", "error", err)
	}

	ctx := context.Background()

	// 1. Initialize configuration
	cfg, err := config.Initialize(ctx, *configPath)
	if err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	// 2. Dial the agent
	// Note: grpc.NewClient uses lazy dialing; actual connection happens on first RPC call
	agentAddr := cfg.GRPC.DialAddr()
	agentClient, err := agentrpc.Dial(agentAddr)
	if err != nil {
		slog.Error("Failed to create agent client", "addr", agentAddr, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := agentClient.Close(); err != nil {
			slog.Error("Error closing agent client", "error", err)
		}
	}()
	slog.Info("Agent client initialized", "addr", agentAddr)

	// 3. Session store with idle eviction
	store := session.NewStore(cfg.Session.TTL.Std(), cfg.Session.ReaperInterval.Std())
	store.Start()

	// 4. HTTP server (non-blocking)
	server := api.NewServer(cfg, store, agentClient)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.Web.Addr()); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			errCh <- err
		}
	}()

	slog.Info("Gateway started", "addr", cfg.Web.Addr(), "agent_addr", agentAddr, "build", version.Full())

	// 5. Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	// 6. Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	store.Stop()
	slog.Info("Shutdown complete")
}
