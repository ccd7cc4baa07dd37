package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Logger returns an HTTP middleware that logs each request with a
// generated request ID.
func Logger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()

			srw := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(srw, r)

			slog.InfoContext(r.Context(), "Request handled",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", srw.statusCode,
				"duration", time.Since(start))
		})
	}
}
