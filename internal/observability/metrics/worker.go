package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	indexedPages    *prometheus.HistogramVec
	queueLag        *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssa",
			Subsystem: "worker",
			Name:      "lesson_process_total",
			Help:      "Total processed lesson documents by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssa",
			Subsystem: "worker",
			Name:      "lesson_process_duration_seconds",
			Help:      "Lesson processing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ssa",
			Subsystem: "worker",
			Name:      "lesson_process_in_flight",
			Help:      "Number of in-flight lesson processing tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	indexedPages := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssa",
			Subsystem: "worker",
			Name:      "lesson_indexed_pages",
			Help:      "Distribution of indexed pages per processed lesson.",
			Buckets:   []float64{1, 2, 5, 10, 15, 20, 30, 50},
		},
		[]string{"service"},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssa",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between lesson upload and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)

	registry.MustRegister(processTotal, processDuration, processInFlight, indexedPages, queueLag)

	return &WorkerMetrics{
		registry:        registry,
		processTotal:    processTotal,
		processDuration: processDuration,
		processInFlight: processInFlight,
		indexedPages:    indexedPages,
		queueLag:        queueLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartLesson() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishLesson(service string, duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(service, status).Inc()
	m.processDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveIndexedPages(service string, pages int) {
	if pages <= 0 {
		return
	}
	m.indexedPages.WithLabelValues(service).Observe(float64(pages))
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}
