package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"tabsum/internal/config"
	"tabsum/internal/infrastructure"
	customMiddleware "tabsum/internal/middleware"
	"tabsum/internal/services"
	handlers "tabsum/internal/transport/http"
)

// Application wires configuration, services, and the HTTP server
type Application struct {
	Config          *config.Config
	Paths           *config.Paths
	Router          *chi.Mux
	Server          *http.Server
	HealthService   *services.HealthService
	ArtifactService *services.ArtifactService
	Logger          *slog.Logger
	OTelProviders   *infrastructure.OTelProviders
}

// New creates a fully wired application from the on-disk configuration
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return NewWithConfig(cfg, logger)
}

// NewWithConfig creates an application from an existing configuration and
// logger
func NewWithConfig(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.Int("port", cfg.Server.Port))

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	paths.LogPathResolution()

	app := &Application{
		Config: cfg,
		Paths:  paths,
		Logger: logger,
	}

	if cfg.Telemetry.Enabled {
		providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
		}
		app.OTelProviders = providers
	}

	app.HealthService = services.NewHealthService(config.AppVersion, paths, logger)
	app.ArtifactService = services.NewArtifactService(paths, logger)

	if err := app.setupRouter(); err != nil {
		return nil, err
	}
	app.createServer()

	return app, nil
}

// setupRouter builds the chi router with the middleware chain, the API
// routes, and the static site
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	if a.OTelProviders != nil {
		otelMW, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
		if err != nil {
			return fmt.Errorf("failed to create otel middleware: %w", err)
		}
		r.Use(otelMW.Handler)
	}

	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Server.RateLimit.Enabled {
		limiter := customMiddleware.NewRateLimiter(
			a.Config.Server.RateLimit.RPS,
			a.Config.Server.RateLimit.Burst,
			a.Logger,
		)
		r.Use(limiter.Handler)
	}

	if a.OTelProviders != nil && a.OTelProviders.PrometheusHTTP != nil {
		r.Handle(config.MetricsEndpoint, a.OTelProviders.PrometheusHTTP)
	}

	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	artifactHandler := handlers.NewArtifactHandler(
		a.ArtifactService,
		customMiddleware.NewValidationMiddleware(a.Logger),
		a.Config.Pipeline.ArtifactName,
		a.Logger,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/version", healthHandler.Version)
		r.Get("/summary", artifactHandler.Summary)
		r.Get("/manifest", artifactHandler.Manifest)
	})

	// Published site at the root. no-cache so a fresh run shows up on the
	// next request instead of after a cache expiry.
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Compress(5))
		r.Use(middleware.SetHeader("Cache-Control", "no-cache"))
		r.Handle("/*", http.FileServer(http.Dir(a.Paths.SiteDir)))
	})

	a.Router = r
	return nil
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// server fails. Shutdown respects the configured timeout.
func (a *Application) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(ctx, "HTTP server listening",
			slog.String("addr", a.Server.Addr),
			slog.String("site_dir", a.Paths.SiteDir))

		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()

		a.Logger.Info("Shutting down HTTP server")
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	err := g.Wait()

	if a.OTelProviders != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()

		if shutdownErr := a.OTelProviders.Shutdown(shutdownCtx); shutdownErr != nil {
			a.Logger.Error("OpenTelemetry shutdown failed",
				slog.String("error", shutdownErr.Error()))
		}
	}

	return err
}
