package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"welldata/internal/config"
	apierrors "welldata/internal/errors"
	"welldata/internal/files"
	"welldata/internal/middleware"
	"welldata/internal/services"
)

// RouterDeps holds everything the router mounts. Metrics, OTel, RateLimiter
// and WebSocket may be nil.
type RouterDeps struct {
	Session      Session
	Health       *services.HealthService
	Validator    *middleware.Validator
	ErrorHandler *apierrors.ErrorHandler
	OTel         *middleware.OTelMiddleware
	RateLimiter  *middleware.RateLimiter
	Metrics      http.Handler
	WebSocket    http.Handler
	Logger       *slog.Logger
	// ExportPath resolves export destinations, e.g. config.Paths.ExportPath.
	ExportPath func(string) string
	// Files backs the workbook and export listings; nil disables them.
	Files      *files.Discovery
	ExportsDir string
}

// NewRouter assembles the HTTP API
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if deps.OTel != nil {
		r.Use(deps.OTel.Handler)
	}
	r.Use(apierrors.NewErrorMiddleware(deps.ErrorHandler, logger).Handler)

	r.NotFound(deps.ErrorHandler.NotFound)
	r.MethodNotAllowed(deps.ErrorHandler.MethodNotAllowed)

	health := NewHealthHandler(deps.Health, logger)
	r.Get(config.HealthEndpoint, health.HealthCheck)
	r.Get(config.LivenessEndpoint, health.LivenessCheck)
	r.Method(http.MethodGet, config.MetricsEndpoint, NewMetricsHandler(deps.Metrics, deps.ErrorHandler))

	// The websocket route stays outside the timeout and body checks; its
	// connection outlives the request.
	if deps.WebSocket != nil {
		r.Method(http.MethodGet, config.WebSocketEndpoint, deps.WebSocket)
	}

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Handler)
		}
		r.Use(chimw.Timeout(30 * time.Second))
		r.Use(deps.Validator.ValidateRequest)

		r.Post(config.ClientLogEndpoint, NewClientLogHandler(logger, deps.ErrorHandler).Handle)
		if deps.Files != nil {
			fh := NewFilesHandler(deps.Files, deps.ExportsDir, deps.ErrorHandler)
			r.Get(config.APIBasePath+"/workbooks", fh.ListWorkbooks)
			r.Get(config.APIBasePath+"/exports", fh.ListExports)
		}
		sessions := NewSessionHandler(deps.Session, deps.Validator, deps.ErrorHandler, logger)
		sessions.exportPath = deps.ExportPath
		r.Mount(config.APIBasePath, sessions.Routes())
	})

	return r
}
