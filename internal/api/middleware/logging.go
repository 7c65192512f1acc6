// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"time"

	astlog "github.com/astrochart/astrod/internal/log"
)

// Logging creates a middleware that emits one structured access log line
// per request once the handler has finished.
func Logging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			lw := &logWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(lw, r)

			logger := astlog.WithComponentFromContext(r.Context(), "http")
			evt := logger.Info()
			if lw.statusCode >= 500 {
				evt = logger.Error()
			} else if lw.statusCode >= 400 {
				evt = logger.Warn()
			}
			evt.
				Str(astlog.FieldEvent, "http.request").
				Str(astlog.FieldMethod, r.Method).
				Str(astlog.FieldPath, r.URL.Path).
				Int(astlog.FieldStatus, lw.statusCode).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("request completed")
		})
	}
}

// logWriter wraps http.ResponseWriter to capture the status code.
type logWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (lw *logWriter) WriteHeader(statusCode int) {
	if !lw.written {
		lw.statusCode = statusCode
		lw.written = true
	}
	lw.ResponseWriter.WriteHeader(statusCode)
}

func (lw *logWriter) Write(b []byte) (int, error) {
	if !lw.written {
		lw.WriteHeader(http.StatusOK)
	}
	return lw.ResponseWriter.Write(b)
}
