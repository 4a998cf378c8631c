package main

import (
	"context"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	gormlogger "gorm.io/gorm/logger"

	"github.com/janhq/task-api/internal/config"
	"github.com/janhq/task-api/internal/domain/apispec"
	"github.com/janhq/task-api/internal/domain/llm"
	taskdomain "github.com/janhq/task-api/internal/domain/task"
	"github.com/janhq/task-api/internal/domain/tool"
	userdomain "github.com/janhq/task-api/internal/domain/user"
	"github.com/janhq/task-api/internal/infrastructure/database"
	"github.com/janhq/task-api/internal/infrastructure/llmprovider"
	"github.com/janhq/task-api/internal/infrastructure/loopback"
	"github.com/janhq/task-api/internal/infrastructure/metrics"
	"github.com/janhq/task-api/internal/infrastructure/openapispec"
	taskrepo "github.com/janhq/task-api/internal/infrastructure/repository/task"
	userrepo "github.com/janhq/task-api/internal/infrastructure/repository/user"
	"github.com/janhq/task-api/internal/infrastructure/security"
	"github.com/janhq/task-api/internal/interfaces/httpserver"
)

const (
	apiTitle   = "User & Task Management API"
	apiVersion = "1.0.0"
)

// Storage bundles the repositories of the selected backend.
type Storage struct {
	Users userdomain.Repository
	Tasks taskdomain.Repository
	Close func() error
}

func newStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Storage, error) {
	if cfg.StorageBackend == config.StorageBackendMemory {
		log.Warn().Msg("Using in-memory storage; data is lost on restart")
		users := userrepo.NewInMemoryRepository()
		tasks := taskrepo.NewInMemoryRepository(users)
		users.OnDelete(tasks.DeleteByUser)
		return &Storage{Users: users, Tasks: tasks, Close: func() error { return nil }}, nil
	}

	db, err := database.Open(ctx, newDatabaseConfig(cfg))
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &Storage{
		Users: userrepo.NewPostgresRepository(db),
		Tasks: taskrepo.NewPostgresRepository(db),
		Close: sqlDB.Close,
	}, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newPasswordHasher() userdomain.PasswordHasher {
	return security.NewBcryptHasher(bcrypt.DefaultCost)
}

func newUserService(storage *Storage, hasher userdomain.PasswordHasher, log zerolog.Logger) userdomain.Service {
	return userdomain.NewService(storage.Users, hasher, log)
}

func newTaskService(storage *Storage, log zerolog.Logger) taskdomain.Service {
	return taskdomain.NewService(storage.Tasks, storage.Users, log)
}

func newCatalog() *openapispec.Builder {
	return openapispec.NewBuilder(apiTitle, apiVersion)
}

// RouterRef hands the tool transport the engine that is built after it.
type RouterRef struct {
	server atomic.Pointer[httpserver.HttpServer]
}

func newRouterRef() *RouterRef {
	return &RouterRef{}
}

func (r *RouterRef) Handler() http.Handler {
	srv := r.server.Load()
	if srv == nil {
		return nil
	}
	return srv.Handler()
}

func newToolTransport(cfg *config.Config, ref *RouterRef) tool.Transport {
	if cfg.DispatchMode == config.DispatchModeLoopback {
		return loopback.NewHTTPTransport(cfg.DispatchBaseURL, cfg.DispatchTimeout)
	}
	return loopback.NewHandlerTransport(ref.Handler)
}

func newDescriptorSource(cfg *config.Config, catalog *openapispec.Builder) apispec.Source {
	if cfg.DispatchMode == config.DispatchModeLoopback {
		return openapispec.NewRemoteSource(cfg.DispatchBaseURL, cfg.DispatchTimeout)
	}
	return openapispec.NewLocalSource(catalog)
}

func newDispatcher(transport tool.Transport, log zerolog.Logger) *tool.Dispatcher {
	return tool.NewDispatcher(transport, log).WithObserver(func(operationID string, status int, elapsed time.Duration) {
		metrics.DispatchTotal.WithLabelValues(operationID, strconv.Itoa(status)).Inc()
		metrics.DispatchDuration.WithLabelValues(operationID).Observe(elapsed.Seconds())
	})
}

func newCompletionProvider(cfg *config.Config, log zerolog.Logger) llm.Provider {
	if cfg.LLMAPIKey == "" {
		log.Warn().Msg("LLM_API_KEY is empty; completion calls will likely be rejected")
	}
	return llmprovider.NewClient(llmprovider.Config{
		CompletionsURL: cfg.LLMCompletionsURL,
		APIKey:         cfg.LLMAPIKey,
		AuthHeader:     cfg.LLMAuthHeader,
		Model:          cfg.LLMModel,
	}, log)
}

func newOrchestrator(cfg *config.Config, source apispec.Source, provider llm.Provider, dispatcher *tool.Dispatcher, log zerolog.Logger) *tool.Orchestrator {
	return tool.NewOrchestrator(source, provider, dispatcher, tool.Timeouts{
		Completion: cfg.CompletionTimeout,
		Followup:   cfg.FollowupTimeout,
		Dispatch:   cfg.DispatchTimeout,
	}, log)
}

func newHTTPServer(cfg *config.Config, log zerolog.Logger, userService userdomain.Service, taskService taskdomain.Service, orchestrator *tool.Orchestrator, catalog *openapispec.Builder, ref *RouterRef) *httpserver.HttpServer {
	srv := httpserver.New(cfg, log, userService, taskService, orchestrator, catalog)
	ref.server.Store(srv)
	return srv
}
