//go:build backend_stdlib

package httpapi

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	hgerrors "github.com/dialecticianai/hegel-pm-sub000/internal/foundation/errors"
)

func TestRequestIDMiddlewareStampsHeaderAndContext(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestIDFrom(r.Context())
	})

	rec := httptest.NewRecorder()
	requestIDMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, rec.Header().Get(requestIDHeader))
	require.Equal(t, rec.Header().Get(requestIDHeader), seen)
}

func TestLoggingMiddlewareLogsRequestIDAndStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	handler := requestIDMiddleware(loggingMiddleware(logger, next))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/foo", nil))

	require.Contains(t, buf.String(), "418")
	require.Contains(t, buf.String(), "request_id")
}

func TestPanicRecoveryMiddlewareConvertsPanicToErrorResponse(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	adapter := hgerrors.NewHTTPErrorAdapter(nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	handler := panicRecoveryMiddleware(logger, adapter, next)
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/foo", nil))
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
