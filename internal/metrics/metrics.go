package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector exposed on /metrics.
var Registry = prometheus.NewRegistry()

var (
	requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cooked_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cooked_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	externalCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cooked_external_calls_total",
		Help: "Calls to external collaborators by outcome",
	}, []string{"collaborator", "outcome"})

	externalDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cooked_external_call_duration_seconds",
		Help:    "Duration of calls to external collaborators",
		Buckets: prometheus.DefBuckets,
	}, []string{"collaborator"})

	scores = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cooked_overall_score",
		Help:    "Distribution of overall Cook Scale scores",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})
)

func init() {
	Registry.MustRegister(
		requestTotal,
		requestDuration,
		externalCalls,
		externalDuration,
		scores,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	requestTotal.WithLabelValues(method, route, code).Inc()
	requestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
}

// ObserveExternalCall records a call to the model, the ratings site or the social site.
func ObserveExternalCall(collaborator string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	externalCalls.WithLabelValues(collaborator, outcome).Inc()
	externalDuration.WithLabelValues(collaborator).Observe(time.Since(started).Seconds())
}

// ObserveOverallScore records the overall score of a finished analysis.
func ObserveOverallScore(overall int) {
	scores.Observe(float64(overall))
}
