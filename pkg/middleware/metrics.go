package middleware

import (
	"net/http"
	"time"

	"chess-shop/pkg/metrics"

	"github.com/go-chi/chi/v5"
)

// Metrics records request count and latency per route pattern, so that
// path parameters do not blow up label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := wrapResponseWriter(w)

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		metrics.RecordHTTPRequest(r.Method, route, rw.statusCode, time.Since(start))
	})
}
