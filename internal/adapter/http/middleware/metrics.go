package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "splitledger",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by route and status code.",
	}, []string{"method", "route", "status"})

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "splitledger",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Time spent serving HTTP requests.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 15, 30},
	}, []string{"method", "route"})

	responseBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "splitledger",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "Size of HTTP response bodies.",
		Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
	}, []string{"method", "route"})

	requestsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "splitledger",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})
)

// Metrics records request counts, latency and response sizes labelled by
// route pattern. Extraction requests can take tens of seconds, hence the
// long latency buckets.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestsActive.Inc()
		defer requestsActive.Dec()

		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routeLabel(r)

		requestsServed.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		requestLatency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		responseBytes.WithLabelValues(r.Method, route).Observe(float64(ww.BytesWritten()))
	})
}

// placeholders names the path segment that follows each collection.
var placeholders = map[string]string{
	"transactions": "{id}",
	"items":        "{itemID}",
	"duplicates":   "{id}",
	"rules":        "{id}",
	"categories":   "{id}",
	"accounts":     "{id}",
	"participants": "{name}",
	"tags":         "{tag}",
}

// fixedRoutes are sub-routes that share a position with an ID segment.
var fixedRoutes = map[string]bool{"order": true, "apply": true}

// routeLabel returns the matched chi pattern. Requests that never reached a
// route (404s, middleware rejections) get their IDs replaced so the label set
// stays bounded.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return collapseIDs(r.URL.Path)
}

func collapseIDs(path string) string {
	parts := strings.Split(path, "/")
	for i := len(parts) - 1; i > 0; i-- {
		name, ok := placeholders[parts[i-1]]
		if ok && parts[i] != "" && !fixedRoutes[parts[i]] {
			parts[i] = name
		}
	}
	return strings.Join(parts, "/")
}
