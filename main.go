package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JocaCola1972/LevelUP-Connect/internal/advisor"
	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
	"github.com/JocaCola1972/LevelUP-Connect/internal/config"
	server "github.com/JocaCola1972/LevelUP-Connect/internal/http"
	"github.com/JocaCola1972/LevelUP-Connect/internal/kv"
	"github.com/JocaCola1972/LevelUP-Connect/internal/metrics"
	"github.com/JocaCola1972/LevelUP-Connect/internal/notifier/slack"
	"github.com/JocaCola1972/LevelUP-Connect/internal/pubsub"
	"github.com/JocaCola1972/LevelUP-Connect/internal/session"
	"github.com/charmbracelet/log"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	ctx := context.Background()

	store, storeTeardown, err := kv.Open(kv.Options{
		Backend:    cfg.KVBackend,
		DBName:     cfg.DBName,
		TursoURL:   cfg.Turso.PrimaryURL,
		TursoToken: cfg.Turso.AuthToken,
		RedisURL:   cfg.RedisURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize storage: %s", err)
	}
	defer func() {
		log.Info("Closing storage")
		storeTeardown()
	}()
	log.Info("Storage initialization time recorded", "backend", cfg.KVBackend, "duration_ms", time.Since(startTime).Milliseconds())

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var publisher pubsub.PubSubClient
	if cfg.ProjectID != "" {
		publisher = pubsub.New(cfg.ProjectID)
	} else {
		log.Info("GCP_PROJECT not set, club events are only logged")
		publisher = pubsub.NewLog()
	}
	defer publisher.Close()
	if cfg.PushToken == "" {
		log.Warn("PUBSUB_PUSH_TOKEN not set, /pubsub/club-events accepts any caller")
	}

	state, err := club.Load(ctx, store)
	if err != nil {
		log.Fatalf("Failed to load club state: %s", err)
	}
	clubStore := club.New(store, state, metricsSvc, publisher)
	if _, err := clubStore.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Phone); err != nil {
		log.Fatalf("Failed to seed admin: %s", err)
	}

	sessions, err := session.New(ctx, clubStore, store, metricsSvc)
	if err != nil {
		log.Fatalf("Failed to restore session: %s", err)
	}

	var generator advisor.Generator
	if cfg.Advisor.APIKey != "" {
		generator, err = advisor.NewGeminiGenerator(ctx, cfg.Advisor.APIKey, cfg.Advisor.Model)
		if err != nil {
			log.Fatalf("Failed to initialize advisor: %s", err)
		}
	} else {
		log.Warn("GEMINI_API_KEY not set, match suggestions will fail")
		generator = unavailableGenerator{}
	}
	matchAdvisor := advisor.NewService(generator, metricsSvc, cfg.Advisor.Timeout)

	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)

	s := server.NewServer(
		clubStore,
		sessions,
		matchAdvisor,
		notifier,
		metricsSvc,
		metricsHandler,
		cfg,
		publisher,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server error", "error", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	if err := clubStore.Close(context.Background()); err != nil {
		log.Error("Failed to flush club state", "error", err)
	}
	log.Info("Server process shutting down")
}

// unavailableGenerator fails every call; used when no API key is configured.
type unavailableGenerator struct{}

func (unavailableGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("no advisor configured")
}
