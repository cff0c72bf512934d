package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/angelmondragon/phonedex-backend/pkg/logger"
	"github.com/angelmondragon/phonedex-backend/pkg/metrics"
)

// Logging writes one access line per request and records per-route HTTP
// metrics. Either dependency may be nil.
func Logging(logg *logger.Logger, httpMetrics *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			route := routePattern(r)
			httpMetrics.Observe(route, r.Method, status, elapsed)

			if logg == nil {
				return
			}
			ctx := logg.WithFields(r.Context(), map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"route":       route,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": elapsed.Milliseconds(),
			})
			if status >= http.StatusInternalServerError {
				logg.Warn(ctx, "request.complete")
				return
			}
			logg.Info(ctx, "request.complete")
		})
	}
}

// routePattern reads the matched chi pattern so metric labels stay bounded.
// Unmatched requests collapse into one label.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
