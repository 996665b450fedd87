package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/popeskul/pharmacy-messenger/internal/metrics"
)

// Config holds middleware configuration.
type Config struct {
	Logger *zap.Logger

	CORS *CORSConfig

	// APIPrefix scopes the per-IP limiter, the timeout and the body limit.
	// Empty applies them to every route.
	APIPrefix      string
	RateLimit      rate.Limit
	RateLimitBurst int
	RequestTimeout time.Duration
	BodyLimitBytes int64

	HTTPMetrics *HTTPMetrics

	WebhookPath string
	Collector   *metrics.Collector
}

// Chain creates a middleware chain with all configured middleware.
func Chain(config *Config) func(http.Handler) http.Handler {
	rateLimiter := NewRateLimiter(config.RateLimit, config.RateLimitBurst)

	return func(handler http.Handler) http.Handler {
		// Apply middleware in order (outer to inner)
		h := handler

		h = ForPrefix(config.APIPrefix, Timeout(config.RequestTimeout))(h)

		h = ForPrefix(config.APIPrefix, rateLimiter.Middleware())(h)

		if config.BodyLimitBytes > 0 {
			h = ForPrefix(config.APIPrefix, BodyLimit(config.BodyLimitBytes))(h)
		}

		if config.CORS != nil {
			h = CORS(config.CORS)(h)
		}

		h = Recovery(config.Logger)(h)

		if config.Collector != nil && config.WebhookPath != "" {
			h = WebhookTiming(config.WebhookPath, config.Collector)(h)
		}

		if config.HTTPMetrics != nil {
			h = config.HTTPMetrics.Middleware()(h)
		}

		h = RequestID(h)

		h = Logger(config.Logger)(h)

		return h
	}
}

// ForPrefix applies mw only to requests whose path starts with prefix.
func ForPrefix(prefix string, mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if prefix == "" {
			return mw(next)
		}
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, prefix) {
				wrapped.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BodyLimit caps the number of bytes a handler may read from the body.
func BodyLimit(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
