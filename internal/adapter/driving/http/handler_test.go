package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/portalbonos/internal/adapter/driving/http"
	"github.com/ericfisherdev/portalbonos/internal/metrics"
)

// --- Mock implementations ---

type mockPinger struct {
	err   error
	calls int
}

func (m *mockPinger) Ping(ctx context.Context) error {
	m.calls++
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("ping without deadline")
	}
	return m.err
}

// --- Test helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupMux(p *mockPinger, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()
	httphandler.RegisterRoutes(mux, httphandler.NewHandler(p, m, discardLogger()))
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})
	return httphandler.Wrap(mux, m, discardLogger())
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	err := json.NewDecoder(rec.Body).Decode(v)
	require.NoError(t, err)
}

// --- Tests ---

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   string
		wantDB     string
	}{
		{name: "database reachable", wantStatus: http.StatusOK, wantBody: "ok", wantDB: "ok"},
		{name: "database down", pingErr: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable, wantBody: "unavailable", wantDB: "unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &mockPinger{err: tt.pingErr}
			mux := setupMux(p, metrics.New())

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, 1, p.calls)

			var resp httphandler.HealthResponse
			decodeJSON(t, rec, &resp)
			assert.Equal(t, tt.wantBody, resp.Status)
			assert.Equal(t, tt.wantDB, resp.Database)
			assert.NotEmpty(t, resp.Time)
		})
	}
}

func TestMetricsEndpoint_RecordsRoutePattern(t *testing.T) {
	m := metrics.New()
	mux := setupMux(&mockPinger{}, m)

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		`portal_http_requests_total{method="GET",route="GET /api/v1/health",status="200"} 1`)
}

func TestRecoveryMiddleware(t *testing.T) {
	m := metrics.New()
	mux := setupMux(&mockPinger{}, m)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "internal server error", resp["error"])

	n, err := testutil.GatherAndCount(m.Registry(), "portal_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUnknownRouteIsCountedAsUnmatched(t *testing.T) {
	m := metrics.New()
	mux := setupMux(&mockPinger{}, m)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	out := httptest.NewRecorder()
	mux.ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(out.Body.String(), `route="unmatched",status="404"`))
}
