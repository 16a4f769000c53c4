package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/statement-analyzer/internal/api/handlers"
	"github.com/dvloznov/statement-analyzer/internal/api/middleware"
	"github.com/dvloznov/statement-analyzer/internal/config"
	"github.com/dvloznov/statement-analyzer/internal/extraction"
	"github.com/dvloznov/statement-analyzer/internal/logger"
	"github.com/dvloznov/statement-analyzer/internal/session"
	"github.com/dvloznov/statement-analyzer/web"
)

func main() {
	cfg := config.Load()

	// Parse command-line flags
	port := flag.String("port", cfg.Port, "HTTP server port (or set PORT env)")
	flag.Parse()
	cfg.Port = *port

	// Initialize logger
	log, err := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		log = logger.New()
		log.Fatal().Err(err).Msg("Invalid logging configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	// Initialize the model client
	client, err := extraction.NewGeminiClient(ctx, extraction.GeminiConfig{
		APIKey:      cfg.GeminiAPIKey,
		UseVertexAI: cfg.UseVertexAI,
		Project:     cfg.GCPProject,
		Location:    cfg.GCPLocation,
		APIVersion:  cfg.GeminiAPIVersion,
		Timeout:     cfg.ExtractionTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	extractor := extraction.NewExtractor(client.Models, cfg.GeminiModel)
	store := session.NewStore(extractor)
	limiter := middleware.NewRateLimiter(cfg.UploadRatePerMinute)

	// Initialize handlers
	sessionsHandler := handlers.NewSessionsHandler(store, log)
	pageHandler, err := handlers.NewPageHandler(store, web.TemplatesFS, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load page templates")
	}

	handler := handlers.NewRouter(sessionsHandler, pageHandler, handlers.RouteOptions{
		MaxUploadBytes: cfg.MaxUploadBytes,
		Limiter:        limiter,
	}, log)

	// Uploads block until the model answers, so the write timeout has to
	// outlast the extraction timeout.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  time.Minute,
		WriteTimeout: cfg.ExtractionTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Str("port", cfg.Port).
			Str("model", extractor.Model()).
			Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		log.Info().
			Dur("ttl", cfg.SessionTTL).
			Dur("interval", cfg.SessionSweepInterval).
			Msg("Starting session janitor")
		return store.RunJanitor(gctx, cfg.SessionSweepInterval, cfg.SessionTTL)
	})

	g.Go(func() error {
		return limiter.RunCleanup(gctx, 5*time.Minute)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}

	log.Info().Msg("Server exited")
}
