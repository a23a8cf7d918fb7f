package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"welldata/internal/config"
	"welldata/internal/dataprocessing"
	apierrors "welldata/internal/errors"
	"welldata/internal/exporter"
	"welldata/internal/files"
	"welldata/internal/infrastructure"
	"welldata/internal/middleware"
	"welldata/internal/operations"
	"welldata/internal/services"
	handlers "welldata/internal/transport/http"
	ws "welldata/internal/websocket"
)

// Version is set at link time with -ldflags "-X welldata/internal/app.Version=...".
var Version = config.AppVersion

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Session       *services.Session
	WebSocketHub  *ws.Hub
	HealthService *services.HealthService
	Router        chi.Router
	Server        *http.Server
}

// NewSession wires the ingest parser and both exporters into a session.
// Destinations ending in .csv get the CSV writer, everything else a workbook.
func NewSession(cfg *config.Config, tracer *operations.JobTracer, logger *slog.Logger) *services.Session {
	if tracer == nil {
		tracer = operations.NoopJobTracer()
	}
	parser := dataprocessing.NewParser(cfg.Ingest, logger)
	columns := parser.Columns()

	runner := operations.NewRunner(logger, tracer)
	session := services.NewSession(runner, parser,
		exporter.NewWorkbookExporter(cfg.Export, columns, logger), logger)
	session.RegisterExporter(".csv", exporter.NewCSVWriter(cfg.Export, columns, logger))
	return session
}

// NewApplication creates the server. A nil logger installs the process
// logger from cfg.Logging; nil paths are resolved from the executable.
func NewApplication(cfg *config.Config, logger *slog.Logger, paths *config.Paths) (*Application, error) {
	if paths == nil {
		var err error
		if paths, err = config.GetPaths(); err != nil {
			return nil, fmt.Errorf("failed to get paths: %w", err)
		}
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	if logger == nil {
		logging := cfg.Logging
		logging.FilePath = paths.Resolve(logging.FilePath)
		var err error
		if logger, err = infrastructure.InitializeLogger(logging); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	logger.Info("application starting",
		slog.String("name", config.AppName),
		slog.String("version", Version),
		slog.String("executable_dir", paths.ExecutableDir))

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
	}
	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	tracer, err := operations.NewJobTracer(a.OTelProviders)
	if err != nil {
		return err
	}
	a.Session = NewSession(a.Config, tracer, a.Logger)

	hubMetrics, err := ws.NewOTelMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create websocket metrics: %w", err)
	}
	a.WebSocketHub = ws.NewHub(a.Logger, hubMetrics)

	a.HealthService = services.NewHealthService(Version, a.Session, a.WebSocketHub, a.Logger)
	return nil
}

func (a *Application) setupRouter() error {
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Telemetry.Environment == "development")

	otelMW, err := middleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		return err
	}

	var limiter *middleware.RateLimiter
	if a.Config.Server.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(a.Config.Server.RateLimit, a.Config.Server.RateBurst, a.Logger)
	}

	deps := handlers.RouterDeps{
		Session:      a.Session,
		Health:       a.HealthService,
		Validator:    middleware.NewValidator(a.Logger, errorHandler),
		ErrorHandler: errorHandler,
		OTel:         otelMW,
		RateLimiter:  limiter,
		WebSocket:    ws.Handler(a.WebSocketHub, a.Logger),
		Metrics:      a.OTelProviders.PrometheusHTTP,
		Logger:       a.Logger,
		ExportPath:   a.Paths.ExportPath,
		Files:        files.NewDiscovery(a.Paths.ExecutableDir),
		ExportsDir:   a.Paths.ExportsDir,
	}
	a.Router = handlers.NewRouter(deps)
	return nil
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run listens on the configured port and serves until ctx ends.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs the websocket hub, the session poller and the HTTP server on ln
// until ctx ends or one of them fails, then shuts everything down.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	unsubscribe := a.Session.Subscribe(a.WebSocketHub.Publish)
	defer unsubscribe()

	g.Go(func() error { return a.WebSocketHub.Run(gctx) })
	g.Go(func() error { return a.Session.Run(gctx, a.Config.Jobs.PollInterval) })
	g.Go(func() error {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown(context.WithoutCancel(gctx))
	})

	if err := a.startupCheck(); err != nil {
		a.Logger.WarnContext(ctx, "startup health check warnings", slog.String("warnings", err.Error()))
	}
	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", ln.Addr().String()),
		slog.String("exports_dir", a.Paths.ExportsDir))

	err := g.Wait()
	a.Logger.Info("application shutdown complete")
	return err
}

func (a *Application) shutdown(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	ctx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}
	return errors.Join(errs...)
}

// startupCheck verifies the directories the server writes to are writable
func (a *Application) startupCheck() error {
	var warnings []string
	for name, dir := range map[string]string{"logs": a.Paths.LogsDir, "exports": a.Paths.ExportsDir} {
		probe := filepath.Join(dir, ".write_test")
		if err := os.WriteFile(probe, []byte("test"), 0644); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s directory not writable: %s", name, dir))
			continue
		}
		os.Remove(probe)
	}
	if len(warnings) > 0 {
		return errors.New(strings.Join(warnings, "; "))
	}
	return nil
}
