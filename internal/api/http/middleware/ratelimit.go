package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiter holds one token bucket per client IP. Buckets idle for longer
// than staleAfter are dropped on the next sweep.
type ipLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucketEntry
	r          rate.Limit
	burst      int
	staleAfter time.Duration
	lastSweep  time.Time
}

type bucketEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(r rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		buckets:    make(map[string]*bucketEntry),
		r:          r,
		burst:      burst,
		staleAfter: 10 * time.Minute,
		lastSweep:  time.Now(),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > l.staleAfter {
		for ip, e := range l.buckets {
			if now.Sub(e.lastSeen) > l.staleAfter {
				delete(l.buckets, ip)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.buckets[ip]
	if !ok {
		e = &bucketEntry{limiter: rate.NewLimiter(l.r, l.burst)}
		l.buckets[ip] = e
	}
	e.lastSeen = now
	return e.limiter.Allow()
}

// RateLimit returns a per-IP limiter middleware. perMinute is the sustained
// rate; burst is how many requests may land at once from a cold bucket.
func RateLimit(perMinute int, burst int) gin.HandlerFunc {
	limiter := newIPLimiter(rate.Limit(float64(perMinute)/60.0), burst)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok":    false,
				"error": "too many requests, slow down",
			})
			return
		}
		c.Next()
	}
}
