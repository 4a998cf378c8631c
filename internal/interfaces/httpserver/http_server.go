package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gopkg.in/yaml.v3"

	"github.com/janhq/task-api/internal/config"
	taskdomain "github.com/janhq/task-api/internal/domain/task"
	userdomain "github.com/janhq/task-api/internal/domain/user"
	"github.com/janhq/task-api/internal/infrastructure/openapispec"
	"github.com/janhq/task-api/internal/interfaces/httpserver/handlers"
	"github.com/janhq/task-api/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/task-api/internal/interfaces/httpserver/responses"
	"github.com/janhq/task-api/internal/interfaces/httpserver/routes"
)

// HttpServer owns the gin engine serving the user, task and chatbot APIs.
type HttpServer struct {
	cfg    *config.Config
	engine *gin.Engine
	log    zerolog.Logger
}

// New builds the engine with its middleware chain and routes. Every API route
// is also recorded in catalog, which backs /openapi.json and the tool manifest.
func New(cfg *config.Config, log zerolog.Logger, userService userdomain.Service, taskService taskdomain.Service, chatbot handlers.Chatbot, catalog *openapispec.Builder) *HttpServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middlewares.RequestID(),
		middlewares.TracingMiddleware(cfg.ServiceName),
		middlewares.LoggingMiddleware(log.With().Str("component", "http").Logger()),
		middlewares.MetricsMiddleware(),
		middlewares.CORSMiddleware(cfg.CORSAllowedOrigins),
	)

	mountServiceRoutes(engine, cfg.ServiceName, catalog)
	routes.NewProvider(handlers.NewProvider(userService, taskService, chatbot, log), catalog).Register(engine)

	return &HttpServer{cfg: cfg, engine: engine, log: log}
}

// Handler exposes the engine for in-process dispatch and tests.
func (s *HttpServer) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured port until ctx is cancelled, then drains
// in-flight requests within the shutdown timeout.
func (s *HttpServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Dur("timeout", s.cfg.ShutdownTimeout).Msg("draining HTTP server")
	drainCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(drainCtx)
}

// mountServiceRoutes adds the status, probe, metrics and API document routes.
// Only "/" is part of the catalog; the rest are operational endpoints.
func mountServiceRoutes(engine *gin.Engine, serviceName string, catalog *openapispec.Builder) {
	routes.NewRegistrar(engine, catalog).Handle(openapispec.Route{
		Method:  http.MethodGet,
		Path:    "/",
		Summary: "Service status",
	}, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": serviceName, "status": "ok"})
	})

	probe := func(state string) gin.HandlerFunc {
		return func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": state}) }
	}
	engine.GET("/healthz", probe("healthy"))
	engine.GET("/readyz", probe("ready"))
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	engine.GET("/openapi.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog.Document())
	})
	engine.GET("/openapi.yaml", func(c *gin.Context) {
		doc, err := yaml.Marshal(catalog.Document())
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", doc)
	})
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/openapi.json")))
}
