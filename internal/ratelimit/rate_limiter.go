package ratelimit

import (
	"log/slog"
	"net/http"

	"github.com/bornholm/masthead/internal/syncx"
	"github.com/bornholm/masthead/pkg/log"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// RateLimiter limits the requests of each key, typically a session id.
type RateLimiter struct {
	rate   rate.Limit
	burst  int
	limits syncx.Map[string, *rate.Limiter]
}

type GetKeyFunc func(r *http.Request) (string, error)

func (l *RateLimiter) Allow(key string) bool {
	limiter, _ := l.limits.LoadOrStore(key, rate.NewLimiter(l.rate, l.burst))
	return limiter.Allow()
}

// Forget releases the limiter of the key.
func (l *RateLimiter) Forget(key string) {
	l.limits.Delete(key)
}

func (l *RateLimiter) Middleware(getKey GetKeyFunc) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			key, err := getKey(r)
			if err != nil {
				slog.ErrorContext(ctx, "could not retrieve rate limit key", log.Error(errors.WithStack(err)))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if !l.Allow(key) {
				slog.WarnContext(ctx, "rate limit exceeded")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func New(rate rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		rate:  rate,
		burst: burst,
	}
}
