// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/tdfclan/portal/internal/config"
	"github.com/tdfclan/portal/internal/core"
)

type RateLimiter struct {
	limiter *redis_rate.Limiter
	cfg     config.RateLimitConfig
	logger  *slog.Logger

	// local fallback when redis is unreachable
	mu       sync.Mutex
	fallback map[string]*rate.Limiter
}

func NewRateLimiter(
	client *redis.Client,
	cfg config.RateLimitConfig,
	logger *slog.Logger,
) *RateLimiter {
	return &RateLimiter{
		limiter:  redis_rate.NewLimiter(client),
		cfg:      cfg,
		logger:   logger,
		fallback: make(map[string]*rate.Limiter),
	}
}

// Limit applies the standard per-user (or per-IP for anonymous callers)
// rate limit.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return rl.limitWith(rl.cfg.Requests, rl.cfg.Burst, "rl", next)
}

// LimitPublic applies the tighter limit for unauthenticated public
// endpoints such as recruitment applications.
func (rl *RateLimiter) LimitPublic(next http.Handler) http.Handler {
	return rl.limitWith(
		rl.cfg.PublicRequests,
		rl.cfg.PublicBurst,
		"rlpub",
		next,
	)
}

func (rl *RateLimiter) limitWith(
	requests, burst int,
	prefix string,
	next http.Handler,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.cfg.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		key := fmt.Sprintf("%s:%s", prefix, rl.clientKey(r))

		res, err := rl.limiter.Allow(
			r.Context(),
			key,
			redis_rate.Limit{
				Rate:   requests,
				Burst:  burst,
				Period: rl.cfg.Window,
			},
		)
		if err != nil {
			rl.logger.Warn(
				"rate limiter unavailable, using local fallback",
				"error", err,
			)
			if !rl.allowLocal(key, requests, burst) {
				rl.reject(w, 0)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(requests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if res.Allowed == 0 {
			rl.reject(w, int(res.RetryAfter.Seconds()))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allowLocal(key string, requests, burst int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	lim, ok := rl.fallback[key]
	if !ok {
		perSecond := float64(requests) / rl.cfg.Window.Seconds()
		lim = rate.NewLimiter(rate.Limit(perSecond), burst)
		rl.fallback[key] = lim
	}

	return lim.Allow()
}

func (rl *RateLimiter) reject(w http.ResponseWriter, retryAfter int) {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
	core.JSONError(w, core.NewAppError(
		"RATE_LIMITED",
		"too many requests",
		http.StatusTooManyRequests,
	))
}

func (rl *RateLimiter) clientKey(r *http.Request) string {
	if userID := GetUserID(r.Context()); userID != "" {
		return "user:" + userID
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
