package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"

	"github.com/PratikDhanave/braze-track-service/internal/config"
	"github.com/PratikDhanave/braze-track-service/internal/tag"
)

type fakeWarehouse struct {
	pingErr error
}

func (f *fakeWarehouse) Ping(context.Context) error { return f.pingErr }

func (f *fakeWarehouse) CountLogs(context.Context, string, string, time.Time, time.Time) (int64, error) {
	return 3, nil
}

type succeedAll struct{}

func (succeedAll) Run(_ context.Context, _ tag.Invocation, out tag.Outcome) { out.Success() }

func testConfig() config.Config {
	return config.Config{
		APIKeys: map[string]string{"key-1": "tenant1"},
		Tags:    config.Tags{"signup": {Name: "signup"}},
	}
}

func serve(r *gin.Engine, method, path, apiKey, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPublicEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(testConfig(), succeedAll{}, nil)

	w := serve(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","tags":1}`, w.Body.String())

	w = serve(r, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestReadyReportsWarehouseFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(testConfig(), succeedAll{}, &fakeWarehouse{pingErr: errors.New("down")})

	w := serve(r, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"not_ready","error":"down"}`, w.Body.String())
}

func TestAuthenticatedEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(testConfig(), succeedAll{}, &fakeWarehouse{})

	w := serve(r, http.MethodPost, "/collect/signup", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodPost, "/collect/signup", "key-1", `{}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)

	w = serve(r, http.MethodGet, "/logs/count?event_name=x&from=2024-01-01T00:00:00Z&to=2024-01-02T00:00:00Z", "key-1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"event_name":"x","count":3}`, w.Body.String())
}

func TestLogCountWithoutWarehouse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(testConfig(), succeedAll{}, nil)

	w := serve(r, http.MethodGet, "/logs/count?event_name=x&from=2024-01-01T00:00:00Z&to=2024-01-02T00:00:00Z", "key-1", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNewRouterDecodesNumbersExactly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	binding.EnableDecoderUseNumber = false

	NewRouter(testConfig(), succeedAll{}, nil)

	assert.True(t, binding.EnableDecoderUseNumber)
}
