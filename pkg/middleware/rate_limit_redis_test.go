package middleware

import (
	"net/http"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisRateLimitMiddleware_Basic(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer client.Close()

	r := gin.New()
	r.Use(RedisRateLimitMiddleware(client, 1, 0, 60*time.Second))
	r.GET("/r", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// 60 requests per window
	for i := 0; i < 60; i++ {
		require.Equal(t, http.StatusOK, serve(r, "/r", "10.1.1.1:1"), "request %d", i)
	}
	require.Equal(t, http.StatusTooManyRequests, serve(r, "/r", "10.1.1.1:1"))
	// another client has its own counter
	require.Equal(t, http.StatusOK, serve(r, "/r", "10.1.1.2:1"))

	// the window key carries a TTL
	keys := m.Keys()
	require.NotEmpty(t, keys)
	require.Greater(t, m.TTL(keys[0]), time.Duration(0))
}

func TestRedisRateLimitMiddleware_FailsOpen(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: m.Addr(), MaxRetries: -1})
	defer client.Close()
	m.Close()

	r := gin.New()
	r.Use(RedisRateLimitMiddleware(client, 1, 0, time.Second))
	r.GET("/r", func(c *gin.Context) { c.Status(200) })
	require.Equal(t, http.StatusOK, serve(r, "/r", ""))
}

func TestRedisRateLimitMiddleware_NilClientFallsBack(t *testing.T) {
	r := gin.New()
	r.Use(RedisRateLimitMiddleware(nil, 0.5, 1, time.Second))
	r.GET("/r", func(c *gin.Context) { c.Status(200) })
	require.Equal(t, http.StatusOK, serve(r, "/r", ""))
	require.Equal(t, http.StatusTooManyRequests, serve(r, "/r", ""))
}
