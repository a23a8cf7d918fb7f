package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "welldata/internal/errors"
	"welldata/internal/services"
)

// Session is the part of services.Session the handlers drive.
type Session interface {
	Load(ctx context.Context, path string) (string, error)
	Replace(ctx context.Context, path string) (string, error)
	Export(ctx context.Context, dest string) (string, error)
	SetSelection(startYear int, wells []string) error
	SelectAllWells() error
	ClearWells()
	Snapshot() services.State
}

// StructValidator checks a decoded request body.
type StructValidator interface {
	ValidateStruct(v interface{}) error
}

// SessionHandler exposes the workbook session over HTTP
type SessionHandler struct {
	session      Session
	validator    StructValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger

	// exportPath maps a requested destination onto a file path; nil keeps it.
	exportPath func(string) string
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(session Session, validator StructValidator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		session:      session,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "session")),
	}
}

// LoadRequest names the workbook to ingest
type LoadRequest struct {
	Path string `json:"path" validate:"required,workbook"`
	// Replace abandons a running job instead of failing with 409.
	Replace bool `json:"replace,omitempty"`
}

// Bind implements render.Binder
func (l *LoadRequest) Bind(r *http.Request) error { return nil }

// SelectionRequest replaces the export filter. StartYear is a pointer so
// that year 0 can be chosen.
type SelectionRequest struct {
	StartYear *int     `json:"start_year" validate:"required"`
	Wells     []string `json:"wells" validate:"required,min=1,dive,required"`
}

// Bind implements render.Binder
func (s *SelectionRequest) Bind(r *http.Request) error { return nil }

// ExportRequest names the destination file
type ExportRequest struct {
	Path string `json:"path" validate:"required,exportpath"`
}

// Bind implements render.Binder
func (e *ExportRequest) Bind(r *http.Request) error { return nil }

// JobAccepted is the reply to a job submission
type JobAccepted struct {
	JobID string `json:"job_id"`
	Kind  string `json:"kind"`
}

// Render implements render.Renderer
func (j *JobAccepted) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, http.StatusAccepted)
	return nil
}

// Routes returns a chi router for session endpoints
func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/state", h.GetState)
	r.Post("/load", h.Load)
	r.Put("/selection", h.PutSelection)
	r.Post("/selection/all", h.SelectAll)
	r.Delete("/selection", h.ClearSelection)
	r.Post("/export", h.Export)
	return r
}

// GetState handles GET /api/state
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.session.Snapshot())
}

// Load handles POST /api/load
func (h *SessionHandler) Load(w http.ResponseWriter, r *http.Request) {
	req := &LoadRequest{}
	if !h.bind(w, r, req) {
		return
	}

	start := h.session.Load
	if req.Replace {
		start = h.session.Replace
	}
	id, err := start(r.Context(), req.Path)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "load accepted",
		slog.String("job_id", id),
		slog.String("path", req.Path),
		slog.Bool("replace", req.Replace),
		slog.String("request_id", middleware.GetReqID(r.Context())))
	_ = render.Render(w, r, &JobAccepted{JobID: id, Kind: "load"})
}

// PutSelection handles PUT /api/selection
func (h *SessionHandler) PutSelection(w http.ResponseWriter, r *http.Request) {
	req := &SelectionRequest{}
	if !h.bind(w, r, req) {
		return
	}
	if err := h.session.SetSelection(*req.StartYear, req.Wells); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, h.session.Snapshot())
}

// SelectAll handles POST /api/selection/all
func (h *SessionHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	if err := h.session.SelectAllWells(); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, h.session.Snapshot())
}

// ClearSelection handles DELETE /api/selection
func (h *SessionHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.session.ClearWells()
	render.JSON(w, r, h.session.Snapshot())
}

// Export handles POST /api/export
func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	req := &ExportRequest{}
	if !h.bind(w, r, req) {
		return
	}

	dest := req.Path
	if h.exportPath != nil {
		dest = h.exportPath(dest)
	}
	id, err := h.session.Export(r.Context(), dest)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "export accepted",
		slog.String("job_id", id),
		slog.String("path", dest),
		slog.String("request_id", middleware.GetReqID(r.Context())))
	_ = render.Render(w, r, &JobAccepted{JobID: id, Kind: "export"})
}

// bind decodes and validates the body into v, replying with a problem on
// failure.
func (h *SessionHandler) bind(w http.ResponseWriter, r *http.Request, v render.Binder) bool {
	if err := render.Bind(r, v); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return false
	}
	if err := h.validator.ValidateStruct(v); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return false
	}
	return true
}
