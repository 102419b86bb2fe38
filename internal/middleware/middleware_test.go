package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/fitprogress/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRateLimiter struct {
	allowed int
	err     error
	keys    []string
}

func (l *testRateLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	l.keys = append(l.keys, key)
	if l.err != nil {
		return nil, l.err
	}
	if l.allowed > 0 {
		l.allowed--
		return &redis_rate.Result{Limit: limit, Allowed: 1, Remaining: l.allowed}, nil
	}
	return &redis_rate.Result{Limit: limit, Allowed: 0, RetryAfter: 10 * time.Second}, nil
}

func TestRateLimit(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	limiter := &testRateLimiter{allowed: 2}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimit(limiter, "accounts", 2, metricsManager)(next)

	var codes []int
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("POST", "/accounts/login", nil))
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, []string{"accounts:192.0.2.1", "accounts:192.0.2.1", "accounts:192.0.2.1"}, limiter.keys)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))

	limiter.err = errors.New("redis down")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/accounts/login", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRequestMetrics(t *testing.T) {
	metricsManager, reg := metrics.NewTestManagerAndRegistry()

	r := mux.NewRouter()
	r.HandleFunc("/progress/exercise/{id}/set", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods("POST")
	r.Use(RequestMetrics(metricsManager))

	for _, id := range []string{"e1", "e2"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest("POST", "/progress/exercise/"+id+"/set", nil))
		require.Equal(t, http.StatusNotFound, rr.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metricsManager.CounterRequests.WithLabelValues("POST", "404")))
	// one series per route template, not per exercise id
	histCount, err := testutil.GatherAndCount(reg, "fitprogress_test_server_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, histCount)
	assert.Equal(t, 0.0, testutil.ToFloat64(metricsManager.GaugeRequests))
}

func TestResponseWriterKeepsFlusher(t *testing.T) {
	rr := httptest.NewRecorder()
	var w http.ResponseWriter = &responseWriter{rr, http.StatusOK}

	flusher, ok := w.(http.Flusher)
	require.True(t, ok)
	flusher.Flush()
	assert.True(t, rr.Flushed)
}

func TestDrainAndCloseRequest(t *testing.T) {
	body := &trackingBody{data: []byte(`{"unread":"payload"}`)}
	req := httptest.NewRequest("POST", "/", nil)
	req.Body = body

	handler := DrainAndCloseRequest()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, body.closed)
	assert.Empty(t, body.data)
}

type trackingBody struct {
	data   []byte
	closed bool
}

func (b *trackingBody) Read(p []byte) (int, error) {
	if len(b.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, b.data)
	b.data = b.data[n:]
	return n, nil
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}
