package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	count int64
	err   error

	eventName, logType string
	from, to           time.Time
}

func (f *fakeCounter) CountLogs(_ context.Context, eventName, logType string, from, to time.Time) (int64, error) {
	f.eventName, f.logType, f.from, f.to = eventName, logType, from, to
	return f.count, f.err
}

func getLogCount(r *gin.Engine, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/logs/count?"+query, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newLogsRouter(st LogCounter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterLogRoutes(r, st)
	return r
}

func TestLogCount(t *testing.T) {
	st := &fakeCounter{count: 7}
	r := newLogsRouter(st)

	w := getLogCount(r, "event_name=/users/track&type=Request&from=2024-01-01T00:00:00Z&to=2024-01-02T00:00:00%2B02:00")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"event_name":"/users/track","type":"Request","count":7}`, w.Body.String())
	assert.Equal(t, "/users/track", st.eventName)
	assert.Equal(t, "Request", st.logType)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), st.from)
	assert.Equal(t, time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC), st.to)
}

func TestLogCountValidation(t *testing.T) {
	r := newLogsRouter(&fakeCounter{})
	cases := map[string]string{
		"missing params": "event_name=x",
		"bad type":       "event_name=x&type=Nope&from=2024-01-01T00:00:00Z&to=2024-01-02T00:00:00Z",
		"bad from":       "event_name=x&from=yesterday&to=2024-01-02T00:00:00Z",
		"bad to":         "event_name=x&from=2024-01-01T00:00:00Z&to=tomorrow",
		"empty window":   "event_name=x&from=2024-01-01T00:00:00Z&to=2024-01-01T00:00:00Z",
	}
	for name, query := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, getLogCount(r, query).Code)
		})
	}
}

func TestLogCountStoreError(t *testing.T) {
	r := newLogsRouter(&fakeCounter{err: errors.New("boom")})

	w := getLogCount(r, "event_name=x&from=2024-01-01T00:00:00Z&to=2024-01-02T00:00:00Z")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLogCountWithoutWarehouse(t *testing.T) {
	r := newLogsRouter(nil)

	w := getLogCount(r, "event_name=x&from=2024-01-01T00:00:00Z&to=2024-01-02T00:00:00Z")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
