package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitprogress/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

func RequestMetrics(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			begin := time.Now()
			metricsManager.GaugeRequests.Inc()
			defer metricsManager.GaugeRequests.Dec()

			resp := &responseWriter{respWriter, http.StatusOK}

			// handler call
			next.ServeHTTP(resp, req)

			status := strconv.Itoa(resp.statusCode)
			metricsManager.CounterRequests.With(
				prometheus.Labels{
					"method": req.Method,
					"status": status,
				},
			).Inc()
			metricsManager.HistogramRequestDuration.WithLabelValues(
				routeTemplate(req), req.Method, status,
			).Observe(time.Since(begin).Seconds())
		})
	}
}

// routeTemplate keeps the label cardinality bounded, e.g.
// /progress/exercise/{id}/set instead of one label per exercise.
func routeTemplate(req *http.Request) string {
	if route := mux.CurrentRoute(req); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (r *responseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.statusCode = statusCode
}

// Flush keeps server-sent event streams working behind this wrapper.
func (r *responseWriter) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
