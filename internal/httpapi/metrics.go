package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Request series are labelled by chi route, method and response code.
var requestLabels = []string{"route", "method", "code"}

var (
	requestsServed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventgen",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served by the status API",
	}, requestLabels)

	requestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "eventgen",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Status API request latency in seconds",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
	}, requestLabels)

	requestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "eventgen",
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "Status API requests currently being served",
	})
)

func init() {
	prometheus.MustRegister(requestsServed, requestLatency, requestsInFlight)
}

// codeWriter remembers the response code; a handler that never calls
// WriteHeader answered 200.
type codeWriter struct {
	http.ResponseWriter
	code int
}

func newCodeWriter(w http.ResponseWriter) *codeWriter {
	return &codeWriter{ResponseWriter: w, code: http.StatusOK}
}

func (cw *codeWriter) WriteHeader(code int) {
	cw.code = code
	cw.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware records count and latency of every request. Labels are
// taken after the handler ran, once chi has matched the route.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestsInFlight.Inc()
		began := time.Now()
		cw := newCodeWriter(w)
		defer func() {
			requestsInFlight.Dec()
			labels := prometheus.Labels{"route": routeLabel(r), "method": r.Method, "code": strconv.Itoa(cw.code)}
			requestsServed.With(labels).Inc()
			requestLatency.With(labels).Observe(time.Since(began).Seconds())
		}()
		next.ServeHTTP(cw, r)
	})
}

// routeLabel keeps label cardinality bounded: matched requests use the chi
// pattern, anything else (404s, bare handlers) the raw path.
func routeLabel(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc == nil {
		return r.URL.Path
	}
	if pattern := rc.RoutePattern(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}
