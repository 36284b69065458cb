package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/BrandonDHaskell/loungegate/internal/logging"
)

const traceHeader = "X-Trace-ID"

// loggingMiddleware tags the request context with a trace ID and logs one
// line per request once the handler returns.
func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now().UTC()
			ctx := logging.WithTraceID(r.Context())
			w.Header().Set(traceHeader, logging.TraceID(ctx))

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			logger.InfoContext(ctx, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"from", r.RemoteAddr,
				"request_id", chiMiddleware.GetReqID(r.Context()),
				"dur", time.Since(start).String(),
			)
		})
	}
}
