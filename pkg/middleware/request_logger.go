package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/logger"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/metrics"
)

var accessLog = logger.Named("access")

// RequestLogger logs one line per request and observes its latency. The
// route label is the matched pattern, so ids do not explode cardinality.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())

		switch {
		case status >= 500:
			accessLog.Errorf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, status, elapsed)
		case status >= 400:
			accessLog.Warnf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, status, elapsed)
		default:
			accessLog.Infof("%s %s %d %s", c.Request.Method, c.Request.URL.Path, status, elapsed)
		}
	}
}
