// Wayfarer agent server - runs the travel reasoning engine behind the
// AgentService gRPC API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"

	"github.com/wayfarer-ai/wayfarer/pkg/agentrpc"
	"github.com/wayfarer-ai/wayfarer/pkg/config"
	"github.com/wayfarer-ai/wayfarer/pkg/version"
	agentpb "github.com/wayfarer-ai/wayfarer/proto"
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

	slog.Info("Starting agent",
		"name", cfg.Agent.Name,
		"version", cfg.Agent.Version,
		"build", version.Full(),
		"mode", cfg.Agent.Mode)

	// 2. Session registry over the orchestrator factory
	sessions := agentrpc.NewSessions(
		agentrpc.NewRunnerFactory(cfg),
		cfg.Session.TTL.Std(),
		cfg.Session.ReaperInterval.Std(),
	)
	sessions.Start()

	// 3. gRPC server
	addr := cfg.GRPC.Addr()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		slog.Error("Failed to listen", "addr", addr, "error", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer()
	agentpb.RegisterAgentServiceServer(grpcServer, agentrpc.NewService(sessions, cfg.Agent.Version))

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Agent gRPC server listening", "addr", addr)
		if err := grpcServer.Serve(listener); err != nil {
			errCh <- err
		}
	}()

	// 4. Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	// 5. Graceful shutdown: let in-flight streams finish
	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("gRPC server stopped gracefully")
	case <-time.After(10 * time.Second):
		slog.Warn("Graceful stop timeout exceeded, forcing stop")
		grpcServer.Stop()
	}

	sessions.Stop()
	slog.Info("Shutdown complete")
}
