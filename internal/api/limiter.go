package api

import (
	"net/http"
	"sync"

	"sharehub/internal/config"
	"sharehub/internal/models"

	"golang.org/x/time/rate"
)

// actorLimiter throttles per acting user. Requests without the user header
// share one bucket keyed by the empty string, which keeps unauthenticated
// probing bounded too.
type actorLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	cfg      config.RateLimitConfig
}

func newActorLimiter(cfg config.RateLimitConfig) *actorLimiter {
	return &actorLimiter{cfg: cfg}
}

func (l *actorLimiter) wrap(next http.Handler) http.Handler {
	if l.cfg.Requests <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.getLimiter(r.Header.Get(models.HeaderUserID)).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *actorLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	window := l.cfg.Window
	if window <= 0 {
		window = models.RateLimitWindow
	}
	rps := float64(l.cfg.Requests) / float64(window)

	lim := rate.NewLimiter(rate.Limit(rps), l.cfg.Requests)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}
