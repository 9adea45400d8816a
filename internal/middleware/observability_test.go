package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"telescrape/internal/metrics"
	"telescrape/internal/tracing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestObservabilityMiddleware_InjectsRequestContext(t *testing.T) {
	var seenRequestID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenRequestID = tracing.GetRequestID(r.Context())
		assert.False(t, tracing.GetStartTime(r.Context()).IsZero())
		w.WriteHeader(http.StatusOK)
	})

	wrapped := ObservabilityMiddleware(newQuietLogger())(handler)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, seenRequestID)
}

func TestObservabilityMiddleware_RecordsMetrics(t *testing.T) {
	metrics.GetRegistry().Reset()
	defer metrics.GetRegistry().Reset()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	wrapped := ObservabilityMiddleware(newQuietLogger())(handler)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	snap := metrics.GetAllMetrics()
	require.Contains(t, snap.Counters, "http_requests_total{endpoint=/missing}{method=GET}")
	require.Contains(t, snap.Counters, "http_responses_total{endpoint=/missing}{method=GET}{status_code=404}")
	assert.Contains(t, snap.Timers, "http_request_duration{endpoint=/missing}{method=GET}")
}

func TestObservabilityMiddleware_DefaultStatusIsOK(t *testing.T) {
	metrics.GetRegistry().Reset()
	defer metrics.GetRegistry().Reset()

	// Handler writes a body without calling WriteHeader
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hi"))
	})

	wrapped := ObservabilityMiddleware(newQuietLogger())(handler)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	snap := metrics.GetAllMetrics()
	assert.Contains(t, snap.Counters, "http_responses_total{endpoint=/ok}{method=GET}{status_code=200}")
}
