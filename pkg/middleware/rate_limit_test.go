package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/metrics"
)

func serve(r *gin.Engine, path, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(10, 2))
	r.GET("/ok", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))
	require.Equal(t, http.StatusOK, serve(r, "/ok", ""))
	require.Equal(t, http.StatusOK, serve(r, "/ok", ""))
	require.Equal(t, before+2, testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory")))
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	rejected := testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("memory"))
	require.Equal(t, http.StatusOK, serve(r, "/limited", ""))
	require.Equal(t, http.StatusTooManyRequests, serve(r, "/limited", ""))
	require.Equal(t, rejected+1, testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("memory")))

	// one token refills after 0.5s
	time.Sleep(600 * time.Millisecond)
	require.Equal(t, http.StatusOK, serve(r, "/limited", ""))
}

func TestRateLimitMiddleware_KeysByClientIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/u", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, serve(r, "/u", "10.0.0.1:1234"))
	require.Equal(t, http.StatusTooManyRequests, serve(r, "/u", "10.0.0.1:5678"))
	require.Equal(t, http.StatusOK, serve(r, "/u", "10.0.0.2:1234"))
}

func TestRateLimitMiddleware_InstancesAreIndependent(t *testing.T) {
	a := gin.New()
	a.Use(RateLimitMiddleware(0.5, 1))
	a.GET("/a", func(c *gin.Context) { c.Status(200) })
	b := gin.New()
	b.Use(RateLimitMiddleware(0.5, 1))
	b.GET("/b", func(c *gin.Context) { c.Status(200) })

	require.Equal(t, http.StatusOK, serve(a, "/a", ""))
	require.Equal(t, http.StatusOK, serve(b, "/b", ""))
}
