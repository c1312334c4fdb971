package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "facetdex",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "facetdex",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)

var httpMetricsRegistered bool

// RegisterHTTPMetrics registers the request collectors used by Middleware.
func RegisterHTTPMetrics() {
	if httpMetricsRegistered {
		return
	}
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
	httpMetricsRegistered = true
}

// Middleware records HTTP request duration and count labelled by chi route pattern.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routeLabel(r)
			code := strconv.Itoa(status)

			httpRequestDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
		})
	}
}

// routeLabel returns the matched route pattern so ids in paths do not
// explode label cardinality.
func routeLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "unknown"
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return "unknown"
}
