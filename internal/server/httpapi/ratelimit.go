package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	limiterClients = 10000
	limiterIdleTTL = 15 * time.Minute

	// used when the router options leave the login limit unset
	defaultLoginPerMinute = 10
	defaultLoginBurst     = 5
)

// ipLimiter hands out one token bucket per client address. Buckets of idle
// clients are evicted so the table stays bounded.
type ipLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients *expirable.LRU[string, *rate.Limiter]
}

func newIPLimiter(perMinute, burst int) *ipLimiter {
	if perMinute <= 0 {
		perMinute = defaultLoginPerMinute
	}
	if burst <= 0 {
		burst = defaultLoginBurst
	}
	return &ipLimiter{
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
		clients: expirable.NewLRU[string, *rate.Limiter](limiterClients, nil, limiterIdleTTL),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	lim, ok := l.clients.Get(ip)
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
	}
	// re-adding refreshes the idle timer
	l.clients.Add(ip, lim)
	l.mu.Unlock()

	return lim.Allow()
}

func (l *ipLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			fail(c, http.StatusTooManyRequests, "Too many requests, try again later")
			return
		}
		c.Next()
	}
}
