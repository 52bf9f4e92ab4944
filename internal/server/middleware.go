package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/abelbrown/flick/internal/logging"
	"github.com/abelbrown/flick/internal/metrics"
)

// unmatchedRoute labels requests no route matched, so arbitrary paths
// share one series.
const unmatchedRoute = "unmatched"

// observe records every request under its route pattern.
func observe(c *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := unmatchedRoute
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			c.ObserveRequest(r.Method, route, status, elapsed)
			logging.Debug("Request",
				"method", r.Method,
				"route", route,
				"status", status,
				"duration", elapsed,
				"request_id", chimiddleware.GetReqID(r.Context()))
		})
	}
}
