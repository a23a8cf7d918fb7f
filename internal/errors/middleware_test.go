package errors

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"welldata/internal/shared/testutil"
)

func TestErrorMiddleware_LogsRequests(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	mw := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/load?x=1", strings.NewReader(`{"path":""}`))
	rec := httptest.NewRecorder()
	mw.Handler(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "http request")
	testutil.AssertLogAttr(t, handler, "status", int64(http.StatusBadRequest))
	testutil.AssertLogAttr(t, handler, "request_body", `{"path":""}`)
	testutil.AssertLogAttr(t, handler, "query", "x=1")
}

func TestErrorMiddleware_RecoversPanic(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	mw := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	mw.Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, handler.ContainsMessage("panic recovered"))
	testutil.AssertLogContains(t, handler, slog.LevelError, "http request")
}
