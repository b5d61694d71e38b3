package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	answersTotal       *prometheus.CounterVec
	answerHitTotal     *prometheus.CounterVec
	answerNoContext    *prometheus.CounterVec
	retrievedPassages  *prometheus.HistogramVec
	answerDuration     *prometheus.HistogramVec
	dateDetectedTotal  *prometheus.CounterVec
	cacheHitsTotal     *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssa",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssa",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ssa",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	answersTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssa",
			Subsystem: "retrieval",
			Name:      "answers_total",
			Help:      "Total successfully answered questions.",
		},
		[]string{"service", "endpoint"},
	)
	answerHitTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssa",
			Subsystem: "retrieval",
			Name:      "hit_total",
			Help:      "Total answers backed by at least one retrieved passage.",
		},
		[]string{"service", "endpoint"},
	)
	answerNoContext := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssa",
			Subsystem: "retrieval",
			Name:      "no_context_total",
			Help:      "Total answers generated without retrieved passages.",
		},
		[]string{"service", "endpoint"},
	)
	retrievedPassages := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssa",
			Subsystem: "retrieval",
			Name:      "retrieved_passages",
			Help:      "Distribution of retrieved passages per answered question.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service", "endpoint"},
	)
	answerDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ssa",
			Subsystem: "retrieval",
			Name:      "answer_duration_seconds",
			Help:      "Answer pipeline duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	dateDetectedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssa",
			Subsystem: "retrieval",
			Name:      "date_detected_total",
			Help:      "Total questions with a resolved calendar date.",
		},
		[]string{"service", "endpoint"},
	)
	cacheHitsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ssa",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total answers served from the response cache.",
		},
		[]string{"service", "endpoint"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		answersTotal,
		answerHitTotal,
		answerNoContext,
		retrievedPassages,
		answerDuration,
		dateDetectedTotal,
		cacheHitsTotal,
	)

	return &HTTPServerMetrics{
		registry:          registry,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestInFlight:   requestInFlight,
		answersTotal:      answersTotal,
		answerHitTotal:    answerHitTotal,
		answerNoContext:   answerNoContext,
		retrievedPassages: retrievedPassages,
		answerDuration:    answerDuration,
		dateDetectedTotal: dateDetectedTotal,
		cacheHitsTotal:    cacheHitsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/lessons/"):
		return "/v1/lessons/{lesson_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordAnswerObservation(service, endpoint string, sourceCount int, duration time.Duration) {
	m.answersTotal.WithLabelValues(service, endpoint).Inc()
	m.retrievedPassages.WithLabelValues(service, endpoint).Observe(float64(sourceCount))
	m.answerDuration.WithLabelValues(service, endpoint).Observe(duration.Seconds())

	if sourceCount > 0 {
		m.answerHitTotal.WithLabelValues(service, endpoint).Inc()
		return
	}
	m.answerNoContext.WithLabelValues(service, endpoint).Inc()
}

func (m *HTTPServerMetrics) RecordDateDetected(service, endpoint string) {
	m.dateDetectedTotal.WithLabelValues(service, endpoint).Inc()
}

func (m *HTTPServerMetrics) RecordCacheHit(service, endpoint string) {
	m.cacheHitsTotal.WithLabelValues(service, endpoint).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
