package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satvis_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "satvis_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satvis_evaluations_total",
			Help: "Total number of visibility evaluations, labeled by outcome.",
		},
		[]string{"visible"},
	)

	evaluationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "satvis_evaluation_duration_seconds",
			Help:    "Time spent in the GCRS to topocentric pipeline.",
			Buckets: []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 5e-3},
		},
	)

	validationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satvis_validation_errors_total",
			Help: "Total number of rejected input fields, labeled by field name.",
		},
		[]string{"field"},
	)

	inflightRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "satvis_inflight_rejected_total",
			Help: "Requests rejected because the client exceeded its concurrent request limit.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(evaluationsTotal)
	prometheus.MustRegister(evaluationDurationSeconds)
	prometheus.MustRegister(validationErrorsTotal)
	prometheus.MustRegister(inflightRejectedTotal)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordEvaluation records one pipeline evaluation.
func RecordEvaluation(d time.Duration, visible bool) {
	evaluationsTotal.WithLabelValues(strconv.FormatBool(visible)).Inc()
	evaluationDurationSeconds.Observe(d.Seconds())
}

// RecordValidationError counts one rejected input field.
func RecordValidationError(field string) {
	validationErrorsTotal.WithLabelValues(field).Inc()
}

// RecordInflightRejected counts one request refused by the concurrency limiter.
func RecordInflightRejected() {
	inflightRejectedTotal.Inc()
}

// knownRoutes are the paths served by the API; anything else is labeled
// "other" so that scanners cannot blow up label cardinality.
var knownRoutes = map[string]bool{
	"/":                  true,
	"/app.js":            true,
	"/styles.css":        true,
	"/healthz":           true,
	"/readyz":            true,
	"/metrics":           true,
	"/api/v1/visibility": true,
}

// normalizeRoute maps a request path to a bounded set of metric labels.
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		path := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(path, r.Method).Observe(duration)
	})
}
