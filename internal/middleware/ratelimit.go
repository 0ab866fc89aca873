package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Idle client buckets are dropped after this long.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterSet struct {
	mu      sync.Mutex
	cfg     RateLimiterConfig
	clients map[string]*clientLimiter
	swept   time.Time
}

func (s *limiterSet) allow(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.swept) > limiterIdleTTL {
		for k, cl := range s.clients {
			if now.Sub(cl.lastSeen) > limiterIdleTTL {
				delete(s.clients, k)
			}
		}
		s.swept = now
	}

	cl, ok := s.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(s.cfg.RequestsPerSecond), s.cfg.Burst)}
		s.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// NewRateLimiterMiddleware keeps one token bucket per client IP. Requests
// over the limit are handed to reject, which must write the response.
func NewRateLimiterMiddleware(cfg RateLimiterConfig, reject gin.HandlerFunc) gin.HandlerFunc {
	set := &limiterSet{cfg: cfg, clients: make(map[string]*clientLimiter), swept: time.Now()}

	return func(c *gin.Context) {
		if !set.allow(c.ClientIP(), time.Now()) {
			reject(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
