package http

import (
	"net/http"

	"github.com/go-chi/render"

	apierrors "welldata/internal/errors"
	"welldata/internal/files"
)

// FilesHandler lists workbooks that can be loaded and files already exported
type FilesHandler struct {
	discovery    *files.Discovery
	exportsDir   string
	errorHandler *apierrors.ErrorHandler
}

// NewFilesHandler creates a files handler. exportsDir is listed by
// GET /api/exports.
func NewFilesHandler(discovery *files.Discovery, exportsDir string, errorHandler *apierrors.ErrorHandler) *FilesHandler {
	return &FilesHandler{discovery: discovery, exportsDir: exportsDir, errorHandler: errorHandler}
}

// ListWorkbooks handles GET /api/workbooks?dir=...
func (h *FilesHandler) ListWorkbooks(w http.ResponseWriter, r *http.Request) {
	dir := r.URL.Query().Get("dir")
	if dir == "" {
		h.errorHandler.HandleError(w, r, apierrors.NewValidationErrors([]apierrors.ValidationError{
			{Field: "dir", Message: "dir is required"},
		}))
		return
	}
	h.list(w, r, h.discovery.FindWorkbooks, dir)
}

// ListExports handles GET /api/exports
func (h *FilesHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.discovery.FindExports, h.exportsDir)
}

func (h *FilesHandler) list(w http.ResponseWriter, r *http.Request, find func(string) ([]files.FileInfo, error), dir string) {
	found, err := find(dir)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound, apierrors.CodeNotFound, err.Error(), dir))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"dir":   dir,
		"files": found,
	})
}
