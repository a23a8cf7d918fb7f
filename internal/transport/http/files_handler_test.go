package http

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "welldata/internal/errors"
	"welldata/internal/files"
	"welldata/internal/middleware"
	"welldata/internal/services"
	"welldata/internal/shared/testutil"
)

func TestFileListings(t *testing.T) {
	root := t.TempDir()
	exports := filepath.Join(root, "exports")
	require.NoError(t, os.MkdirAll(exports, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "field.xlsx"), []byte("PK"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(exports, "wells.csv"), []byte("x"), 0644))

	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	h := NewRouter(RouterDeps{
		Session:      &fakeSession{},
		Health:       services.NewHealthService("test", nil, nil, logger),
		Validator:    middleware.NewValidator(logger, errorHandler),
		ErrorHandler: errorHandler,
		Logger:       logger,
		Files:        files.NewDiscovery(root),
		ExportsDir:   exports,
	})

	rec, body := do(t, h, http.MethodGet, "/api/workbooks?dir="+url.QueryEscape(root), "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := body["files"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "field.xlsx", list[0].(map[string]interface{})["name"])

	rec, body = do(t, h, http.MethodGet, "/api/exports", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list = body["files"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "wells.csv", list[0].(map[string]interface{})["name"])

	rec, _ = do(t, h, http.MethodGet, "/api/workbooks", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/api/workbooks?dir=missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Session routes under the same prefix still resolve.
	rec, _ = do(t, h, http.MethodGet, "/api/state", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
