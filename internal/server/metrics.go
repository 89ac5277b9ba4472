package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests         *prometheus.CounterVec
	latency          *prometheus.HistogramVec
	progressRecorded *prometheus.CounterVec
	scores           prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mathdrill",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mathdrill",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		progressRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mathdrill",
			Name:      "progress_events_total",
			Help:      "Progress events recorded by grade and correctness.",
		}, []string{"grade", "correct"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mathdrill",
			Name:      "progress_score",
			Help:      "Skill scores reported with progress events.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.progressRecorded, m.scores)
	return m
}

func (m *metrics) observe(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *metrics) recorded(grade string, correct bool, score int) {
	m.progressRecorded.WithLabelValues(grade, strconv.FormatBool(correct)).Inc()
	m.scores.Observe(float64(score))
}
