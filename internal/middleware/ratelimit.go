package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/guttosm/hffactors/internal/domain/dto"
)

// idleTTL is how long an unused client limiter is kept.
var idleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client IP.
type clientLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	lastGC   time.Time
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	return &clientLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		lastGC:   time.Now(),
	}
}

func (l *clientLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastGC) > idleTTL {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > idleTTL {
				delete(l.visitors, k)
			}
		}
		l.lastGC = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// RateLimiter limits requests per client IP with a token bucket that refills
// at rps tokens per second up to burst.
//
// Behavior:
//   - Identifies clients by their IP address.
//   - If the bucket is empty, returns HTTP 429 Too Many Requests with a
//     Retry-After header.
//   - Limiters of clients idle for more than idleTTL are dropped.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RateLimiter(1, 60))
func RateLimiter(rps float64, burst int) gin.HandlerFunc {
	l := newClientLimiter(rps, burst)
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), time.Now()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}
		c.Next()
	}
}
