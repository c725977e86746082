package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/logger"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/metrics"
)

// RedisRateLimitMiddleware is a fixed-window limiter shared by every replica
// through Redis. Each window admits floor(rps*window)+burst requests per
// client. If Redis is unreachable the request is let through and logged.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	windowSeconds := int64(window.Seconds())
	if windowSeconds <= 0 {
		windowSeconds = 1
	}
	allowed := int64(rps*float64(windowSeconds)) + int64(burst)
	ttl := time.Duration(windowSeconds+1) * time.Second

	return func(c *gin.Context) {
		bucket := time.Now().Unix() / windowSeconds
		key := fmt.Sprintf("rl:%s:%d", clientKey(c), bucket)

		var incr *redis.IntCmd
		_, err := client.TxPipelined(c.Request.Context(), func(p redis.Pipeliner) error {
			incr = p.Incr(c.Request.Context(), key)
			p.Expire(c.Request.Context(), key, ttl)
			return nil
		})
		if err != nil {
			logger.Warnf("rate limit check failed, allowing request: %v", err)
			c.Next()
			return
		}
		if incr.Val() > allowed {
			c.Header("Retry-After", strconv.FormatInt(windowSeconds, 10))
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
