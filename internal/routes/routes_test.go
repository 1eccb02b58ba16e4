package routes

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timecard-reconciliation-backend/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setEnvCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("POS_CLIENT_ID", "cid")
	t.Setenv("POS_CLIENT_SECRET", "shh")
	t.Setenv("PAYROLL_USERNAME", "svc-account")
	t.Setenv("PAYROLL_PASSWORD", "hunter2")
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutesMountsAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setEnvCredentials(t)

	r := gin.New()
	require.NoError(t, RegisterRoutes(r, config.Config{ReportDir: t.TempDir()}, quietLogger()))

	w := do(r, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())

	w = do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reconciliation_run_duration_seconds")

	w = do(r, http.MethodGet, "/api/reconciliation/reports", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reports": []}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/reconciliation/reports/absent.txt", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/api/reconciliation/run", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No feed endpoints are configured, so a real run dies fetching.
	w = do(r, http.MethodPost, "/api/reconciliation/run",
		`{"from_date": "2025-07-28", "to_date": "2025-07-28"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "fetch")
}

func TestRegisterRoutesFailsWithoutCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, key := range []string{
		"POS_CLIENT_ID", "POS_CLIENT_SECRET", "POS_STATIC_TOKEN",
		"PAYROLL_USERNAME", "PAYROLL_PASSWORD",
	} {
		t.Setenv(key, "")
	}

	err := RegisterRoutes(gin.New(), config.Config{}, quietLogger())
	assert.ErrorContains(t, err, "resolve credentials")
}

func TestRegisterRoutesRejectsBadRedisURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setEnvCredentials(t)

	cfg := config.Config{Venues: config.VenueConfig{RedisURL: "not-a-url"}}
	err := RegisterRoutes(gin.New(), cfg, quietLogger())
	assert.ErrorContains(t, err, "parse redis url")
}
