package middleware

import (
	"log/slog"
	"net/http"

	"github.com/ariascm/task-manager-api/internal/api/shared"
	"github.com/ariascm/task-manager-api/internal/platform/logger"
)

// TraceMiddleware assigns a trace ID to every request, exposes it via the
// X-Trace-ID response header, and stores a trace-scoped logger in the
// request context so downstream code logs with the trace ID attached.
func TraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			if traceID != "" {
				w.Header().Set("X-Trace-ID", traceID)
			}

			requestLogger := base.With(
				slog.String("trace_id", traceID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			ctx = logger.WithContext(ctx, requestLogger)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
