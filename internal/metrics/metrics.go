// Package metrics holds the Prometheus collectors the server exports.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civics_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "civics_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// GradedAnswersTotal counts open-text answers by where they were decided:
	// "local" (pre-filter) or "remote" (grader).
	GradedAnswersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civics_graded_answers_total",
			Help: "Open-text answers graded, by source",
		},
		[]string{"source"},
	)

	GradingChunksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civics_grading_chunks_total",
			Help: "Remote grading requests, by outcome",
		},
		[]string{"status"},
	)

	ModelLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "civics_model_request_duration_seconds",
			Help:    "Language model completion latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	ModelParseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "civics_model_parse_failures_total",
			Help: "Model replies that were not a JSON verdict array",
		},
	)

	QuizzesSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civics_quizzes_submitted_total",
			Help: "Quizzes submitted, by answer type",
		},
		[]string{"answer_type"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		GradedAnswersTotal,
		GradingChunksTotal,
		ModelLatency,
		ModelParseFailures,
		QuizzesSubmitted,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest is a helper to record HTTP request metrics.
func RecordRequest(method, route, status string, duration time.Duration) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
