package middleware

import (
	"net/http"
	"time"

	"github.com/popeskul/pharmacy-messenger/internal/metrics"
)

// WebhookTiming records the duration of every request to path, rejected or
// not, as a webhook request.
func WebhookTiming(path string, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != path {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			defer func() {
				collector.RecordWebhookRequest(time.Since(start))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
