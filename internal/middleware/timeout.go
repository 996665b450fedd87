package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Timeout bounds the request context. Handlers that overrun it and have not
// written a response get a 504.
func Timeout(timeout time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			if !wrapped.written && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				writeError(w, r, http.StatusGatewayTimeout, ErrorCodeRequestTimeout, ErrorMessageRequestTimeout)
			}
		})
	}
}
