package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/srivatsj/interview-agent-sub000/internal/catalog"
	"github.com/srivatsj/interview-agent-sub000/internal/config"
	"github.com/srivatsj/interview-agent-sub000/internal/llm"
	"github.com/srivatsj/interview-agent-sub000/internal/orchestrator"
	"github.com/srivatsj/interview-agent-sub000/internal/payment"
	"github.com/srivatsj/interview-agent-sub000/internal/provider"
	"github.com/srivatsj/interview-agent-sub000/internal/provider/local"
	"github.com/srivatsj/interview-agent-sub000/internal/provider/remote"
	"github.com/srivatsj/interview-agent-sub000/internal/server"
	"github.com/srivatsj/interview-agent-sub000/internal/session"
	"github.com/srivatsj/interview-agent-sub000/internal/storage"
	memstore "github.com/srivatsj/interview-agent-sub000/internal/storage/memory"
	sqlitestore "github.com/srivatsj/interview-agent-sub000/internal/storage/sqlite"
	"github.com/srivatsj/interview-agent-sub000/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	shutdown, err := telemetry.InitTracer("interviewd", logger)
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

	catalogs, err := catalog.NewSet(cfg.Catalogs)
	if err != nil {
		log.Fatalf("Failed to build catalogs: %v", err)
	}

	// Register provider backends, then build the per-track registry.
	local.Register()
	remote.Register()
	httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	providers := provider.NewRegistry(catalogs, cfg.Agents, httpClient)

	var store storage.SessionStore
	switch cfg.Storage.Type {
	case "sqlite":
		store, err = sqlitestore.New(cfg.Storage.SQLite.Path)
		if err != nil {
			log.Fatalf("Failed to open session store: %v", err)
		}
		defer store.Close()
	case "memory":
		store = memstore.New()
	case "none", "":
		// Sessions stay purely in memory and are dropped on exit.
	default:
		log.Fatalf("Unknown storage type %q", cfg.Storage.Type)
	}

	var collab llm.Collaborator
	if cfg.LLM.APIKey != "" {
		opts := []llm.ClientOption{
			llm.WithHTTPClient(httpClient),
			llm.WithMaxContextTokens(cfg.LLM.MaxContextTokens),
		}
		if cfg.LLM.BaseURL != "" {
			opts = append(opts, llm.WithBaseURL(cfg.LLM.BaseURL))
		}
		collab = llm.NewClient(cfg.LLM.APIKey, cfg.LLM.Model, opts...)
	} else {
		logger.Warn("no LLM api key configured, using the scripted collaborator")
		collab = llm.NewScripted()
	}

	var payments payment.Service
	if cfg.Payment.BaseURL != "" {
		payments = payment.NewClient(cfg.Payment.BaseURL, payment.WithHTTPClient(httpClient))
	} else {
		payments = payment.NewStub()
	}

	sessions := session.NewManager()
	orch := orchestrator.New(catalogs, providers, collab, store, logger)

	srv := server.New("interviewd", cfg.Server.Port, logger)
	srv.Router.Method(http.MethodPost, "/v1/turns", server.NewTurnHandler(sessions, orch, logger))
	srv.Router.Method(http.MethodPost, "/v1/checkout", server.NewCheckoutHandler(payments, logger))

	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
