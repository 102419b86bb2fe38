package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterProgressMutations   *prometheus.CounterVec
	CounterSetsCompleted       prometheus.Counter
	CounterPersistFailures     prometheus.Counter
	CounterObserverFailures    prometheus.Counter
	CounterStateRecoveries     prometheus.Counter

	// gauges
	GaugeRequests     prometheus.Gauge
	GaugeLifeSignal   prometheus.Gauge
	GaugeDailyPercent prometheus.Gauge

	// histograms
	HistPersistDuration      prometheus.Histogram
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("fitprogress", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitprogress", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterProgressMutations := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "progress_mutations",
		Help:      "The total number of applied progress mutations",
	}, []string{"op"})
	counterSetsCompleted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sets_completed",
		Help:      "The total number of sets that moved an exercise forward",
	})
	counterPersistFailures := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "persist_failures",
		Help:      "The total number of failed progress writes to the durable store",
	})
	counterObserverFailures := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "observer_failures",
		Help:      "The total number of progress observers that panicked",
	})
	counterStateRecoveries := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "state_recoveries",
		Help:      "Number of times progress was re-initialized because stored data was missing or unreadable",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})
	gaugeDailyPercent := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "daily_percent",
		Help:      "Percent of the daily calorie goal completed",
	})

	histPersistDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "persist_duration_seconds",
		Help:      "Duration of a single progress write to the durable store in seconds",
		Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
	})
	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterHandleRequestPanic:  counterHandleRequestPanic,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		CounterProgressMutations:   counterProgressMutations,
		CounterSetsCompleted:       counterSetsCompleted,
		CounterPersistFailures:     counterPersistFailures,
		CounterObserverFailures:    counterObserverFailures,
		CounterStateRecoveries:     counterStateRecoveries,
		GaugeRequests:              gaugeRequests,
		GaugeLifeSignal:            gaugeLifeSignal,
		GaugeDailyPercent:          gaugeDailyPercent,
		HistPersistDuration:        histPersistDuration,
		HistogramRequestDuration:   histogramRequestDuration,
	}
}
