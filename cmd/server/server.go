package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/janhq/task-api/internal/config"
	"github.com/janhq/task-api/internal/infrastructure/logger"
	"github.com/janhq/task-api/internal/infrastructure/observability"
	"github.com/janhq/task-api/internal/interfaces/httpserver"
)

type Application struct {
	httpServer *httpserver.HttpServer
	storage    *Storage
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, storage *Storage, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		storage:    storage,
		log:        log,
	}
}

// Start serves until ctx is cancelled, then releases storage.
func (a *Application) Start(ctx context.Context) error {
	defer func() {
		if err := a.storage.Close(); err != nil {
			a.log.Error().Err(err).Msg("close storage")
		}
	}()
	return a.httpServer.Run(ctx)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "task-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	loadDotEnv(".env", "../.env")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize observability: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	storage, err := newStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize %s storage: %w", cfg.StorageBackend, err)
	}

	catalog := newCatalog()
	ref := newRouterRef()
	chatbot := newOrchestrator(cfg,
		newDescriptorSource(cfg, catalog),
		newCompletionProvider(cfg, log),
		newDispatcher(newToolTransport(cfg, ref), log),
		log,
	)
	log.Info().
		Str("dispatch_mode", cfg.DispatchMode).
		Str("storage", cfg.StorageBackend).
		Str("model", cfg.LLMModel).
		Msg("chatbot bridge configured")

	users := newUserService(storage, newPasswordHasher(), log)
	tasks := newTaskService(storage, log)
	app := NewApplication(newHTTPServer(cfg, log, users, tasks, chatbot, catalog, ref), storage, log)

	if err := app.Start(ctx); err != nil {
		return err
	}
	log.Info().Msg("task-api stopped")
	return nil
}

// loadDotEnv applies the first .env file found. Variables already present in
// the process environment are left untouched.
func loadDotEnv(candidates ...string) {
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
		}
		return
	}
}
