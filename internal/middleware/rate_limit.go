package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Clients idle for longer than this lose their bucket on the next sweep
const limiterIdleTTL = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter hands out one token bucket per client IP
type ipLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rps       rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiter(rps float64, burst int) *ipLimiter {
	return &ipLimiter{
		visitors:  make(map[string]*visitor),
		rps:       rate.Limit(rps),
		burst:     burst,
		idleTTL:   limiterIdleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep drops idle visitors. Caller holds mu.
func (l *ipLimiter) sweep(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) >= l.idleTTL {
			delete(l.visitors, ip)
		}
	}
	l.lastSweep = now
}

// RateLimit rejects clients exceeding rps requests per second with 429
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	limiter := newIPLimiter(rps, burst)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.get(ip).Allow() {
			logrus.WithFields(logrus.Fields{
				"ip":   ip,
				"path": c.Request.URL.Path,
			}).Warn("Rate limit exceeded")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate_limit_exceeded",
				"message":     "Too many requests. Please try again later.",
				"retry_after": "1s",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
