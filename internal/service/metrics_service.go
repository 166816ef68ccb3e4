package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the coverage engine.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	expansionDuration prometheus.Histogram
	affectedLessons   prometheus.Histogram
	recommendations   *prometheus.CounterVec
}

// NewMetricsService registers the core collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	expansionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "coverage_expansion_duration_seconds",
		Help:    "Time spent expanding absences into affected lessons",
		Buckets: prometheus.DefBuckets,
	})

	affectedLessons := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "coverage_affected_lessons",
		Help:    "Number of affected lessons produced per expansion",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})

	recommendations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "substitute_recommendations_total",
		Help: "Recommendation outcomes by kind",
	}, []string{"outcome"})

	registry.MustRegister(requestDuration, requestTotal, expansionDuration, affectedLessons, recommendations)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		expansionDuration: expansionDuration,
		affectedLessons:   affectedLessons,
		recommendations:   recommendations,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveExpansion records one coverage expansion run.
func (s *MetricsService) ObserveExpansion(duration time.Duration, affected int) {
	s.expansionDuration.Observe(duration.Seconds())
	s.affectedLessons.Observe(float64(affected))
}

// RecordRecommendation counts a recommendation outcome.
func (s *MetricsService) RecordRecommendation(outcome string) {
	s.recommendations.WithLabelValues(outcome).Inc()
}
