package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Counter: resolves served straight from the asset index.
	PrimitiveCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "primitive_cache_hits_total",
			Help: "Total number of primitive resolves served from the asset index.",
		},
	)

	// Counter: remote generation attempts that ended in failure or invalid content.
	RemoteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "remote_generation_failures_total",
			Help: "Total number of remote SVG generations that failed or produced invalid content.",
		},
	)

	// Counter: resolves that fell through to parametric synthesis.
	ParametricFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parametric_fallbacks_total",
			Help: "Total number of primitives produced by the parametric synthesizer.",
		},
	)

	// Histogram: end-to-end resolve latency in seconds.
	ResolveLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "primitive_resolve_latency_seconds",
			Help:    "End-to-end latency of primitive resolution in seconds.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
	)

	// Histogram: HTTP latency in seconds.
	HTTPLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"path", "method", "status_code"},
	)
)

// Register is called once in main() to register metrics.
func Register() {
	prometheus.MustRegister(
		PrimitiveCacheHitsTotal,
		RemoteFailuresTotal,
		ParametricFallbacksTotal,
		ResolveLatencySeconds,
		HTTPLatencySeconds,
	)
}

// Handler exposes the /metrics endpoint for Prometheus to scrape.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware measures latency for each HTTP request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rec, r)

		HTTPLatencySeconds.
			WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(rec.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}
