package middleware

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/bizops-api/internal/errors"
	"github.com/yukikurage/bizops-api/internal/logging"
	"golang.org/x/time/rate"
)

const limiterIdleCleanup = 5 * time.Minute

// ipLimiter keeps one token bucket per client IP.
type ipLimiter struct {
	limiters    sync.Map // map[string]*rate.Limiter
	rate        rate.Limit
	burst       int
	mu          sync.Mutex
	lastCleanup time.Time
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	if v, ok := l.limiters.Load(ip); ok {
		return v.(*rate.Limiter)
	}
	v, _ := l.limiters.LoadOrStore(ip, rate.NewLimiter(l.rate, l.burst))
	l.cleanup()
	return v.(*rate.Limiter)
}

// cleanup drops limiters whose bucket has refilled, i.e. idle clients.
func (l *ipLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if time.Since(l.lastCleanup) < limiterIdleCleanup {
		return
	}
	l.lastCleanup = time.Now()
	l.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(l.burst) {
			l.limiters.Delete(key)
		}
		return true
	})
}

// RateLimit allows requests per window for each client IP. Bursts up to the
// full allowance are accepted. A non-positive limit disables limiting.
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	if requests <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	l := &ipLimiter{
		rate:        rate.Limit(float64(requests) / window.Seconds()),
		burst:       requests,
		lastCleanup: time.Now(),
	}

	return func(c *gin.Context) {
		limiter := l.get(c.ClientIP())
		if limiter.Allow() {
			c.Next()
			return
		}

		r := limiter.Reserve()
		delay := r.Delay()
		r.Cancel()
		retryAfter := int(math.Max(1, math.Ceil(delay.Seconds())))

		logging.FromContext(c).WithField("retry_after", retryAfter).Warn("rate limit exceeded")
		c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
		apierrors.TooManyRequests(c, "")
		c.Abort()
	}
}
