package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/srivatsj/interview-agent-sub000/internal/catalog"
	"github.com/srivatsj/interview-agent-sub000/internal/config"
	"github.com/srivatsj/interview-agent-sub000/internal/server"
	"github.com/srivatsj/interview-agent-sub000/internal/skill"
	"github.com/srivatsj/interview-agent-sub000/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	shutdown, err := telemetry.InitTracer("agentd", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Agent.Company == "" {
		log.Fatalf("agent.company is required for agentd")
	}

	catalogs, err := catalog.NewSet(cfg.Catalogs)
	if err != nil {
		log.Fatalf("Failed to build catalogs: %v", err)
	}
	if len(catalogs.SupportedTypes(cfg.Agent.Company)) == 0 {
		log.Fatalf("no catalogs configured for company %q", cfg.Agent.Company)
	}

	handler := skill.NewHandler(cfg.Agent.Company, catalogs, logger)

	srv := server.New("agentd", cfg.Agent.Port, logger)
	srv.Router.Method(http.MethodPost, "/skills", handler)

	logger.Info("agent ready",
		slog.String("company", cfg.Agent.Company),
	)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
