package middleware

import (
	"net/http"
	"sync"
	"time"

	"memo-notes/src/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// clientIdleTimeout is how long an unseen client keeps its bucket
const clientIdleTimeout = 10 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rps     rate.Limit
	burst   int
	now     func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per
// client with the given burst
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether the client may make a request now
func (l *RateLimiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cl, ok := l.clients[clientIP]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[clientIP] = cl
	}
	cl.lastSeen = now

	// 古いクライアントを掃除
	for ip, other := range l.clients {
		if now.Sub(other.lastSeen) > clientIdleTimeout {
			delete(l.clients, ip)
		}
	}

	return cl.limiter.AllowN(now, 1)
}

// RateLimitMiddleware レート制限用のmiddleware
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if !limiter.Allow(clientIP) {
			logger.WithFields(logrus.Fields{
				"client_ip": clientIP,
				"method":    c.Request.Method,
				"uri":       c.Request.RequestURI,
			}).Warn("レート制限に達しました")
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too Many Requests",
			})
			return
		}

		c.Next()
	}
}
