package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"advisorcli/internal/config"
	"advisorcli/internal/errors"
	"advisorcli/internal/infrastructure"
	customMiddleware "advisorcli/internal/middleware"
	"advisorcli/internal/services"
	handlers "advisorcli/internal/transport/http"
)

// Application is the assembled service: configuration, router, server,
// and the services behind them.
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	Metrics       *infrastructure.MetricsProvider
	UploadService *services.UploadService

	errorHandler *errors.ErrorHandler
}

// New builds the application from configuration. Every dependency is
// constructed here so main stays a thin entry point.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig builds the application around an explicit configuration.
func NewWithConfig(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.Int("port", cfg.Server.Port))

	metrics, err := infrastructure.InitializeMetrics(logger)
	if err != nil {
		return nil, fmt.Errorf("initialize metrics: %w", err)
	}

	var ingestMetrics *infrastructure.IngestMetrics
	if metrics != nil {
		ingestMetrics = metrics.Ingest
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		Metrics:       metrics,
		UploadService: services.NewUploadService(cfg, ingestMetrics, logger),
		errorHandler:  errors.NewErrorHandler(logger, cfg.Logging.Development),
	}
	app.setupRouter()

	app.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.Router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return app, nil
}

// setupRouter configures the middleware chain and mounts all routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.Compress(5))

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}
	if a.Config.Security.RateLimit.Enabled {
		limiter := customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		)
		r.Use(limiter.Handler)
	}

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	healthHandler := handlers.NewHealthHandler(a.Logger)
	uploadHandler := handlers.NewUploadHandler(
		a.UploadService,
		a.Config.Ingest.MaxUploadSize,
		a.Logger,
		a.errorHandler,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout, a.Logger))

		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
		r.Mount("/uploads", uploadHandler.Routes())
	})

	var prometheusHandler http.Handler
	if a.Metrics != nil {
		prometheusHandler = a.Metrics.PrometheusHTTP
	}
	r.Get("/metrics", handlers.NewMetricsHandler(prometheusHandler).GetMetrics)

	a.Router = r
}

// Run starts the HTTP server and blocks until the context is cancelled
// or a termination signal arrives, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		a.Logger.Info("shutdown signal received")
	}

	return a.Stop(context.Background())
}

// Stop shuts the server down gracefully within the configured timeout.
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("server shutdown failed", slog.String("error", err.Error()))
		return err
	}

	if a.Metrics != nil {
		if err := a.Metrics.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("metrics shutdown failed", slog.String("error", err.Error()))
		}
	}

	infrastructure.CloseLogFile()
	a.Logger.Info("application stopped")
	return nil
}
