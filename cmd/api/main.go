// Package main is the entry point for the event pipeline API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/planline-ai/event-pipeline/internal/agent"
	"github.com/planline-ai/event-pipeline/internal/config"
	"github.com/planline-ai/event-pipeline/internal/handler"
	"github.com/planline-ai/event-pipeline/internal/llm"
	"github.com/planline-ai/event-pipeline/internal/middleware"
	natsclient "github.com/planline-ai/event-pipeline/internal/nats"
	"github.com/planline-ai/event-pipeline/internal/pipeline"
	"github.com/planline-ai/event-pipeline/internal/reminder"
	"github.com/planline-ai/event-pipeline/internal/session"
	"github.com/planline-ai/event-pipeline/internal/store"
	"github.com/planline-ai/event-pipeline/pkg/logger"
	"github.com/planline-ai/event-pipeline/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting event pipeline API server")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "event-pipeline", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Persistence gateway
	gateway, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database", zap.Error(err))
		os.Exit(1)
	}
	defer gateway.Close()

	// NATS is optional; without it saved-event and reminder notifications
	// are dropped.
	var (
		natsClient *natsclient.Client
		publisher  *natsclient.Publisher
	)
	if cfg.NATSEnabled {
		natsClient, err = natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		defer natsClient.Close()

		publisher = natsclient.NewPublisher(natsClient)
		if err := publisher.EnsureStream(ctx); err != nil {
			log.Error("failed to ensure stream", zap.Error(err))
			os.Exit(1)
		}
	}

	// Delegated extractor backend
	runner, err := buildRunner(cfg, log)
	if err != nil {
		log.Error("failed to create extractor backend", zap.Error(err))
		os.Exit(1)
	}
	delegate := agent.NewExtractor(runner, cfg.AgentSession, log)

	// Pipeline
	sessions := session.NewStore()
	var eventPublisher pipeline.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}
	pipe := pipeline.New(sessions, gateway, delegate, eventPublisher, log, cfg.ClarifyMaxTry)

	// Reminder scheduler
	if publisher != nil {
		sched := reminder.New(gateway, publisher, log)
		if err := sched.Start(); err != nil {
			log.Error("failed to start reminder scheduler", zap.Error(err))
			os.Exit(1)
		}
		defer func() { <-sched.Stop().Done() }()
	}

	// Handlers
	healthHandler := handler.NewHealthHandler(natsClient)
	chatHandler := handler.NewChatHandler(pipe, gateway, log)

	// Router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Route("/chats/{chatID}", func(r chi.Router) {
			r.Use(middleware.ChatAccess(func(req *http.Request) string {
				return chi.URLParam(req, "chatID")
			}))

			r.Post("/messages", chatHandler.PostMessage)
			r.Post("/transcripts", chatHandler.PostTranscript)
			r.Post("/actions", chatHandler.PostAction)
			r.Get("/events", chatHandler.ListEvents)
			r.Get("/calendar.ics", chatHandler.ExportCalendar)
			r.Put("/profile", chatHandler.PutProfile)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

// buildRunner selects the delegated extractor backend: a local agent binary
// or a direct LLM completion client.
func buildRunner(cfg *config.Config, log *logger.Logger) (agent.Runner, error) {
	switch cfg.AgentBackend {
	case "exec":
		return agent.NewExecRunner(cfg.AgentBin, cfg.AgentTimeout, log), nil
	case "openai":
		client, err := llm.NewClient(llm.ProviderOpenAI, cfg.OpenAIKey)
		if err != nil {
			return nil, err
		}
		return agent.NewLLMRunner(client, cfg.AgentTimeout), nil
	case "anthropic":
		client, err := llm.NewClient(llm.ProviderAnthropic, cfg.AnthropicKey)
		if err != nil {
			return nil, err
		}
		return agent.NewLLMRunner(client, cfg.AgentTimeout), nil
	default:
		return nil, fmt.Errorf("unknown agent backend %q", cfg.AgentBackend)
	}
}
