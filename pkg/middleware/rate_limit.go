package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/metrics"
	"golang.org/x/time/rate"
)

const (
	// idle clients are forgotten after this long
	limiterIdleTTL = 10 * time.Minute
	maxTrackedKeys = 10000
)

// limiterStore hands out one token bucket per client key. Entries expire when
// idle so the store stays bounded.
type limiterStore struct {
	mu    sync.Mutex
	rps   rate.Limit
	burst int
	lims  *expirable.LRU[string, *rate.Limiter]
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	return &limiterStore{
		rps:   rate.Limit(rps),
		burst: burst,
		lims:  expirable.NewLRU[string, *rate.Limiter](maxTrackedKeys, nil, limiterIdleTTL),
	}
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lim, ok := s.lims.Get(key); ok {
		// re-add to refresh the idle timer
		s.lims.Add(key, lim)
		return lim
	}
	lim := rate.NewLimiter(s.rps, s.burst)
	s.lims.Add(key, lim)
	return lim
}

// clientKey identifies the caller by IP.
func clientKey(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// RateLimitMiddleware enforces a per-client token bucket held in process
// memory. rps is the refill rate and burst the bucket size. Each call gets
// its own store.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	store := newLimiterStore(rps, burst)
	return func(c *gin.Context) {
		if !store.get(clientKey(c)).Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
