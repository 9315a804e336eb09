// Package metrics holds the prometheus collectors the api exports on /metrics
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts served requests by route pattern and status
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventscope_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration observes request latency by route pattern
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventscope_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// DirectHits counts direct-hit lookups by referrer and outcome (hit, miss, skip)
	DirectHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventscope_direct_hit_total",
			Help: "Direct-hit event lookups by outcome",
		},
		[]string{"referrer", "outcome"},
	)

	// SearchQueries counts event searches by referrer
	SearchQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventscope_search_queries_total",
			Help: "Event search queries issued against the event store",
		},
		[]string{"referrer"},
	)

	// SearchDuration observes event store round trips
	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventscope_search_duration_seconds",
			Help:    "Duration of event store searches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"referrer"},
	)

	// NodeCache counts node payload cache lookups (hit, miss)
	NodeCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventscope_node_cache_total",
			Help: "Node payload cache lookups by result",
		},
		[]string{"result"},
	)

	// DBDuration observes sql round trips by backend and outcome (ok, error)
	DBDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventscope_db_query_duration_seconds",
			Help:    "Duration of database statements in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "outcome"},
	)

	// RateLimited counts rejected requests
	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventscope_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)

// Handler exposes the default registry
func Handler() http.Handler { return promhttp.Handler() }

// ObserveSearch records one event store round trip
func ObserveSearch(referrer string, start time.Time) {
	SearchQueries.WithLabelValues(referrer).Inc()
	SearchDuration.WithLabelValues(referrer).Observe(time.Since(start).Seconds())
}

// ObserveDB records one statement against backend
func ObserveDB(backend string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	DBDuration.WithLabelValues(backend, outcome).Observe(elapsed.Seconds())
}

// Middleware records request counts and latency per chi route pattern;
// requests no route matched are labelled "unmatched"
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
