package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// sanitize strips CR/LF from user-supplied values before they reach the log.
var sanitize = strings.NewReplacer("\n", "", "\r", "").Replace

// Logger logs method, path, status and duration of every request.
// The query string is never logged because it may carry a mini app token.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		reqID := chimiddleware.GetReqID(r.Context())
		//nolint:gosec // G706: method and path are sanitized before logging.
		log.Printf(
			"[http] %s %s %d %s %s",
			sanitize(r.Method),
			sanitize(r.URL.Path),
			wrapped.statusCode,
			time.Since(start).Round(time.Microsecond),
			reqID,
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
